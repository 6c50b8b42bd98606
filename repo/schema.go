package repo

import (
	"context"
	"fmt"

	"github.com/htol/libcat/logger"
)

// Members and loans are part of the schema only; nothing in the catalog
// writes to them yet. Their foreign keys still guard book deletion.
const schemaStmt = `
	CREATE TABLE IF NOT EXISTS "authors" (
		id integer primary key autoincrement not null,
		name text not null,
		birth_year integer,
		nationality text
	);
	CREATE INDEX IF NOT EXISTS [I_authors_name] ON "authors" ([name]);

	CREATE TABLE IF NOT EXISTS "books" (
		id integer primary key autoincrement not null,
		title text not null,
		isbn text unique not null,
		year integer,
		genre text,
		copies integer default 1,
		author_id integer,
		FOREIGN KEY (author_id) REFERENCES authors(id)
	);
	CREATE INDEX IF NOT EXISTS [I_books_title] ON "books" ([title]);
	CREATE INDEX IF NOT EXISTS [I_books_author_id] ON "books" ([author_id]);

	CREATE TABLE IF NOT EXISTS "members" (
		id integer primary key autoincrement not null,
		name text not null,
		email text unique not null,
		phone text,
		membership_date text default CURRENT_DATE,
		status text default 'active'
	);

	CREATE TABLE IF NOT EXISTS "loans" (
		id integer primary key autoincrement not null,
		book_id integer not null,
		member_id integer not null,
		loan_date text default CURRENT_DATE,
		due_date text not null,
		return_date text,
		status text default 'borrowed',
		FOREIGN KEY (book_id) REFERENCES books(id),
		FOREIGN KEY (member_id) REFERENCES members(id)
	);
	CREATE INDEX IF NOT EXISTS [I_loans_book_id] ON "loans" ([book_id]);
	CREATE INDEX IF NOT EXISTS [I_loans_member_id] ON "loans" ([member_id]);
`

// CreateSchema creates the four catalog tables if they are missing. It is
// safe to call on every start.
func (r *Repo) CreateSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schemaStmt); err != nil {
		logger.Error("Failed to create schema", "error", err)
		return fmt.Errorf("%w: %w", ErrSchema, err)
	}
	return nil
}

// Tables lists the user tables present in the database, sorted by name.
func (r *Repo) Tables(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.SelectContext(ctx, &names,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, classify(err)
	}
	return names, nil
}
