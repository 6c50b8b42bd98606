package repo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
)

var (
	// ErrConnection is returned when the storage file cannot be opened or
	// foreign key enforcement cannot be turned on.
	ErrConnection = errors.New("cannot open storage")
	// ErrSchema is returned when the tables cannot be created.
	ErrSchema = errors.New("cannot create schema")
	// ErrNotFound is returned when a record is not found in the repository
	ErrNotFound = errors.New("record not found")
	// ErrNoFields is returned by updates that supply no field at all.
	ErrNoFields = errors.New("no fields to update")
	// ErrDuplicateISBN is returned when a book's isbn is already taken.
	ErrDuplicateISBN = errors.New("isbn already exists")
	// ErrConflict is returned when a foreign key blocks the write.
	ErrConflict = errors.New("referential integrity conflict")
	// ErrDatabase wraps every other engine failure.
	ErrDatabase = errors.New("database error")
	// ErrTransient marks busy/locked engine errors. Always joined with
	// ErrDatabase. The caller may retry.
	ErrTransient = errors.New("database is busy")
)

// classify translates an engine error into one of the package sentinels.
// The driver error stays in the chain for logging.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var se sqlite3.Error
	if !errors.As(err, &se) {
		return fmt.Errorf("%w: %w", ErrDatabase, err)
	}

	switch {
	case se.Code == sqlite3.ErrBusy || se.Code == sqlite3.ErrLocked:
		return fmt.Errorf("%w: %w: %w", ErrDatabase, ErrTransient, err)
	case se.ExtendedCode == sqlite3.ErrConstraintUnique && strings.Contains(se.Error(), "books.isbn"):
		return fmt.Errorf("%w: %w", ErrDuplicateISBN, err)
	case se.ExtendedCode == sqlite3.ErrConstraintForeignKey:
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case se.Code == sqlite3.ErrConstraint:
		return fmt.Errorf("%w: integrity error: %w", ErrDatabase, err)
	default:
		return fmt.Errorf("%w: %w", ErrDatabase, err)
	}
}
