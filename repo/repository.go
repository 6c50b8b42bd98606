package repo

import (
	"context"

	"github.com/htol/libcat/book"
)

// Repository defines the interface for data access operations
type Repository interface {
	// Close closes the database connection
	Close() error

	// Health check
	Ping(ctx context.Context) error

	// Authors
	AddAuthor(ctx context.Context, a book.NewAuthor) (int64, error)
	ListAuthors(ctx context.Context) ([]book.Author, error)
	// SearchAuthors matches term against the author name only.
	SearchAuthors(ctx context.Context, term string) ([]book.Author, error)
	GetAuthor(ctx context.Context, id int64) (*book.Author, error)
	UpdateAuthor(ctx context.Context, id int64, p book.AuthorPatch) error
	DeleteAuthor(ctx context.Context, id int64) error
	CountAuthors(ctx context.Context) (int64, error)

	// Books
	AddBook(ctx context.Context, b book.NewBook) (int64, error)
	ListBooks(ctx context.Context) ([]book.Book, error)
	// SearchBooks matches term against title, isbn, genre and author name.
	SearchBooks(ctx context.Context, term string) ([]book.Book, error)
	GetBook(ctx context.Context, id int64) (*book.Book, error)
	UpdateBook(ctx context.Context, id int64, p book.BookPatch) error
	DeleteBook(ctx context.Context, id int64) error
	CountBooks(ctx context.Context) (int64, error)
}

var _ Repository = (*Repo)(nil)
