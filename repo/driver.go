package repo

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// driverName is the sqlite3 driver with the casefold() SQL function
// registered on every connection.
const driverName = "sqlite3_libcat"

func init() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("casefold", casefoldSQL, true)
		},
	})
	sqlx.BindDriver(driverName, sqlx.QUESTION)
}

// fold returns the Unicode case-folded NFC form of s. A new Caser is built
// per call since Casers are not safe for concurrent use.
func fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

// casefoldSQL backs casefold(x). Numbers fold to NULL.
func casefoldSQL(v any) any {
	switch s := v.(type) {
	case string:
		return fold(s)
	case []byte:
		return fold(string(s))
	default:
		return nil
	}
}
