// Package service provides business logic layer between HTTP handlers, the
// CLI and the repository. It never prints; diagnostics go to the logger.
package service

import (
	"context"
	"fmt"

	"github.com/htol/libcat/book"
	"github.com/htol/libcat/logger"
	"github.com/htol/libcat/repo"
	"github.com/htol/libcat/validator"
)

// Service provides business logic for the catalog
type Service struct {
	repo repo.Repository
}

// New creates a new Service with the given repository
func New(repo repo.Repository) *Service {
	return &Service{repo: repo}
}

// Authors

// ListAuthors retrieves all authors ordered by name
func (s *Service) ListAuthors(ctx context.Context) ([]book.Author, error) {
	authors, err := s.repo.ListAuthors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	return authors, nil
}

// GetAuthor retrieves a single author by ID
func (s *Service) GetAuthor(ctx context.Context, id int64) (*book.Author, error) {
	return s.repo.GetAuthor(ctx, id)
}

// CreateAuthor validates a, stores it and returns the stored record.
func (s *Service) CreateAuthor(ctx context.Context, a book.NewAuthor) (*book.Author, error) {
	if err := validator.Struct(a); err != nil {
		return nil, err
	}
	id, err := s.repo.AddAuthor(ctx, a)
	if err != nil {
		return nil, err
	}
	logger.Debug("Author created", "id", id, "name", a.Name)
	return s.repo.GetAuthor(ctx, id)
}

// UpdateAuthor applies p to author id and returns the updated record.
func (s *Service) UpdateAuthor(ctx context.Context, id int64, p book.AuthorPatch) (*book.Author, error) {
	if err := requiredText("name", p.Name); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateAuthor(ctx, id, p); err != nil {
		return nil, err
	}
	return s.repo.GetAuthor(ctx, id)
}

func (s *Service) DeleteAuthor(ctx context.Context, id int64) error {
	if err := s.repo.DeleteAuthor(ctx, id); err != nil {
		return err
	}
	logger.Debug("Author deleted", "id", id)
	return nil
}

// SearchAuthors matches term against author names. A blank term is
// rejected rather than treated as "match everything".
func (s *Service) SearchAuthors(ctx context.Context, term string) ([]book.Author, error) {
	if err := validator.ValidateRequired("search term", term); err != nil {
		return nil, err
	}
	authors, err := s.repo.SearchAuthors(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("search authors %q: %w", term, err)
	}
	return authors, nil
}

func (s *Service) CountAuthors(ctx context.Context) (int64, error) {
	n, err := s.repo.CountAuthors(ctx)
	if err != nil {
		return 0, fmt.Errorf("count authors: %w", err)
	}
	return n, nil
}

// Books

// ListBooks retrieves all books ordered by title
func (s *Service) ListBooks(ctx context.Context) ([]book.Book, error) {
	books, err := s.repo.ListBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// GetBook retrieves a single book by ID
func (s *Service) GetBook(ctx context.Context, id int64) (*book.Book, error) {
	return s.repo.GetBook(ctx, id)
}

// CreateBook validates b, stores it and returns the stored record with
// its author name resolved.
func (s *Service) CreateBook(ctx context.Context, b book.NewBook) (*book.Book, error) {
	if err := validator.Struct(b); err != nil {
		return nil, err
	}
	id, err := s.repo.AddBook(ctx, b)
	if err != nil {
		return nil, err
	}
	logger.Debug("Book created", "id", id, "isbn", b.ISBN)
	return s.repo.GetBook(ctx, id)
}

// UpdateBook applies p to book id and returns the updated record.
func (s *Service) UpdateBook(ctx context.Context, id int64, p book.BookPatch) (*book.Book, error) {
	if err := requiredText("title", p.Title); err != nil {
		return nil, err
	}
	if err := requiredText("isbn", p.ISBN); err != nil {
		return nil, err
	}
	if p.Copies.IsNull() {
		return nil, fmt.Errorf("%w: copies cannot be null", validator.ErrValidation)
	}
	if err := s.repo.UpdateBook(ctx, id, p); err != nil {
		return nil, err
	}
	return s.repo.GetBook(ctx, id)
}

func (s *Service) DeleteBook(ctx context.Context, id int64) error {
	if err := s.repo.DeleteBook(ctx, id); err != nil {
		return err
	}
	logger.Debug("Book deleted", "id", id)
	return nil
}

// SearchBooks matches term against title, isbn, genre and author name.
func (s *Service) SearchBooks(ctx context.Context, term string) ([]book.Book, error) {
	if err := validator.ValidateRequired("search term", term); err != nil {
		return nil, err
	}
	books, err := s.repo.SearchBooks(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("search books %q: %w", term, err)
	}
	return books, nil
}

func (s *Service) CountBooks(ctx context.Context) (int64, error) {
	n, err := s.repo.CountBooks(ctx)
	if err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return n, nil
}

// Health

// Ping checks the health of the service and its dependencies
func (s *Service) Ping(ctx context.Context) error {
	if err := s.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository ping: %w", err)
	}
	return nil
}

// requiredText rejects a patch that clears or blanks a required column.
func requiredText(field string, o book.Optional[string]) error {
	if !o.IsSet() {
		return nil
	}
	if o.IsNull() {
		return fmt.Errorf("%w: %s cannot be null", validator.ErrValidation, field)
	}
	v, _ := o.Value()
	return validator.ValidateRequired(field, v)
}
