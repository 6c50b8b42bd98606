package repo

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"

	"github.com/htol/libcat/book"
)

// record is one result row keyed by column name. Records are mapped into
// entities by name, so a query exposing fewer columns than the entity has
// still maps: missing columns take their defaults.
type record map[string]any

func (r *Repo) queryRecords(ctx context.Context, query string, args ...any) ([]record, error) {
	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

func scanRecords(rows *sqlx.Rows) ([]record, error) {
	out := make([]record, 0)
	for rows.Next() {
		rec := make(map[string]any)
		if err := rows.MapScan(rec); err != nil {
			return nil, fmt.Errorf("%w: scan row: %w", ErrDatabase, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return out, nil
}

func authorFromRecord(rec record) book.Author {
	return book.Author{
		ID:          rec.integer("id"),
		Name:        rec.text("name"),
		BirthYear:   rec.intPtr("birth_year"),
		Nationality: rec.stringPtr("nationality"),
	}
}

func bookFromRecord(rec record) book.Book {
	copies := int64(book.DefaultCopies)
	if p := rec.intPtr("copies"); p != nil {
		copies = *p
	}
	return book.Book{
		ID:         rec.integer("id"),
		Title:      rec.text("title"),
		ISBN:       rec.text("isbn"),
		Year:       rec.intPtr("year"),
		Genre:      rec.stringPtr("genre"),
		Copies:     copies,
		AuthorID:   rec.intPtr("author_id"),
		AuthorName: rec.stringPtr("author_name"),
	}
}

func (rec record) integer(col string) int64 {
	if p := rec.intPtr(col); p != nil {
		return *p
	}
	return 0
}

func (rec record) intPtr(col string) *int64 {
	switch v := rec[col].(type) {
	case int64:
		return &v
	case int:
		n := int64(v)
		return &n
	case float64:
		n := int64(v)
		return &n
	case []byte:
		if n, err := strconv.ParseInt(string(v), 10, 64); err == nil {
			return &n
		}
	case string:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return &n
		}
	}
	return nil
}

func (rec record) text(col string) string {
	if p := rec.stringPtr(col); p != nil {
		return *p
	}
	return ""
}

func (rec record) stringPtr(col string) *string {
	switch v := rec[col].(type) {
	case string:
		return &v
	case []byte:
		s := string(v)
		return &s
	case int64:
		s := strconv.FormatInt(v, 10)
		return &s
	}
	return nil
}
