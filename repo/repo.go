package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/jmoiron/sqlx"

	"github.com/htol/libcat/config"
	"github.com/htol/libcat/logger"
)

const (
	tableAuthors = "authors"
	tableBooks   = "books"
	tableMembers = "members"
	tableLoans   = "loans"
)

// Repo owns the single shared database handle. It is safe for concurrent
// use; write serialization is left to the engine.
type Repo struct {
	db   *sqlx.DB
	path string
	sq   goqu.DialectWrapper
}

// OpenPath opens the database at path with the default pool settings.
func OpenPath(path string) (*Repo, error) {
	cfg := config.Load().Database
	cfg.Path = path
	return Open(cfg)
}

// Open connects to the sqlite file described by cfg, checks that foreign
// key enforcement is active and creates the schema if needed.
func Open(cfg config.DatabaseConfig) (*Repo, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." && cfg.Path != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: create db dir: %w", ErrConnection, err)
		}
	}

	db, err := sqlx.Open(driverName, dsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnection, err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	r := &Repo{db: db, path: cfg.Path, sq: goqu.Dialect("sqlite3")}

	ctx := context.Background()
	if err := r.connect(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := r.CreateSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("Database ready", "path", cfg.Path)
	return r, nil
}

func dsn(cfg config.DatabaseConfig) string {
	busy := cfg.BusyTimeoutMS
	if busy <= 0 {
		busy = 5000
	}
	return fmt.Sprintf("file:%s?_foreign_keys=1&_busy_timeout=%d&_journal_mode=WAL", cfg.Path, busy)
}

func (r *Repo) connect(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		logger.Error("Failed to open database", "path", r.path, "error", err)
		return fmt.Errorf("%w: %s: %w", ErrConnection, r.path, err)
	}

	var enabled int
	if err := r.db.GetContext(ctx, &enabled, "PRAGMA foreign_keys"); err != nil {
		return fmt.Errorf("%w: read foreign_keys pragma: %w", ErrConnection, err)
	}
	if enabled != 1 {
		return fmt.Errorf("%w: foreign key enforcement is not active", ErrConnection)
	}
	return nil
}

// DB exposes the underlying handle for callers that need raw access.
func (r *Repo) DB() *sqlx.DB {
	return r.db
}

func (r *Repo) Close() error {
	if r.db != nil {
		logger.Info("Closing database connection")
		return r.db.Close()
	}
	return nil
}

func (r *Repo) Ping(ctx context.Context) error {
	if r.db != nil {
		return r.db.PingContext(ctx)
	}
	return sql.ErrConnDone
}

// exists reports whether a row with id is present in table.
func (r *Repo) exists(ctx context.Context, table string, id int64) (bool, error) {
	var found bool
	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE id = ?)", table)
	if err := r.db.GetContext(ctx, &found, query, id); err != nil {
		return false, classify(err)
	}
	return found, nil
}

func (r *Repo) count(ctx context.Context, table string) (int64, error) {
	query, _, err := r.sq.From(table).Select(goqu.COUNT(goqu.Star())).ToSQL()
	if err != nil {
		return 0, fmt.Errorf("%w: build count query: %w", ErrDatabase, err)
	}

	var n int64
	if err := r.db.GetContext(ctx, &n, query); err != nil {
		return 0, classify(err)
	}
	return n, nil
}

// exec runs a write statement detached from the caller's cancellation so an
// abandoned request does not interrupt a mutation already in flight.
func (r *Repo) exec(ctx context.Context, ds interface {
	ToSQL() (string, []any, error)
}) (sql.Result, error) {
	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("%w: build statement: %w", ErrDatabase, err)
	}
	res, err := r.db.ExecContext(context.WithoutCancel(ctx), query, args...)
	if err != nil {
		return nil, classify(err)
	}
	return res, nil
}

func rowsAffected(res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Join(ErrDatabase, err)
	}
	return n, nil
}
