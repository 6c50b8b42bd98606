package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/htol/libcat/book"
	"github.com/htol/libcat/logger"
	"github.com/htol/libcat/repo"
	"github.com/htol/libcat/validator"
)

func init() {
	logger.Discard()
}

// Mock repository for testing. It keeps records in memory and mimics the
// error contract of repo.Repo closely enough for the service rules.
type mockRepository struct {
	authors   map[int64]book.Author
	books     map[int64]book.Book
	nextID    int64
	listErr   error
	writeErr  error
	pingError error
	calls     []string
}

func newMock() *mockRepository {
	return &mockRepository{authors: map[int64]book.Author{}, books: map[int64]book.Book{}}
}

func (m *mockRepository) record(call string) { m.calls = append(m.calls, call) }

func (m *mockRepository) Close() error { return nil }

func (m *mockRepository) Ping(ctx context.Context) error { return m.pingError }

func (m *mockRepository) AddAuthor(ctx context.Context, a book.NewAuthor) (int64, error) {
	m.record("AddAuthor")
	if m.writeErr != nil {
		return 0, m.writeErr
	}
	m.nextID++
	m.authors[m.nextID] = book.Author{ID: m.nextID, Name: a.Name, BirthYear: a.BirthYear, Nationality: a.Nationality}
	return m.nextID, nil
}

func (m *mockRepository) ListAuthors(ctx context.Context) ([]book.Author, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := []book.Author{}
	for _, a := range m.authors {
		out = append(out, a)
	}
	return out, nil
}

func (m *mockRepository) SearchAuthors(ctx context.Context, term string) ([]book.Author, error) {
	m.record("SearchAuthors")
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := []book.Author{}
	for _, a := range m.authors {
		if strings.Contains(strings.ToLower(a.Name), strings.ToLower(term)) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockRepository) GetAuthor(ctx context.Context, id int64) (*book.Author, error) {
	a, ok := m.authors[id]
	if !ok {
		return nil, fmt.Errorf("author %d: %w", id, repo.ErrNotFound)
	}
	return &a, nil
}

func (m *mockRepository) UpdateAuthor(ctx context.Context, id int64, p book.AuthorPatch) error {
	m.record("UpdateAuthor")
	a, ok := m.authors[id]
	if !ok {
		return repo.ErrNotFound
	}
	if p.Empty() {
		return repo.ErrNoFields
	}
	if v, ok := p.Name.Value(); ok {
		a.Name = v
	}
	if p.Nationality.IsNull() {
		a.Nationality = nil
	} else if v, ok := p.Nationality.Value(); ok {
		a.Nationality = &v
	}
	m.authors[id] = a
	return nil
}

func (m *mockRepository) DeleteAuthor(ctx context.Context, id int64) error {
	m.record("DeleteAuthor")
	if m.writeErr != nil {
		return m.writeErr
	}
	if _, ok := m.authors[id]; !ok {
		return repo.ErrNotFound
	}
	delete(m.authors, id)
	return nil
}

func (m *mockRepository) CountAuthors(ctx context.Context) (int64, error) {
	if m.listErr != nil {
		return 0, m.listErr
	}
	return int64(len(m.authors)), nil
}

func (m *mockRepository) AddBook(ctx context.Context, b book.NewBook) (int64, error) {
	m.record("AddBook")
	if m.writeErr != nil {
		return 0, m.writeErr
	}
	m.nextID++
	copies := int64(book.DefaultCopies)
	if b.Copies != nil {
		copies = *b.Copies
	}
	m.books[m.nextID] = book.Book{ID: m.nextID, Title: b.Title, ISBN: b.ISBN, Copies: copies, AuthorID: b.AuthorID}
	return m.nextID, nil
}

func (m *mockRepository) ListBooks(ctx context.Context) ([]book.Book, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := []book.Book{}
	for _, b := range m.books {
		out = append(out, b)
	}
	return out, nil
}

func (m *mockRepository) SearchBooks(ctx context.Context, term string) ([]book.Book, error) {
	m.record("SearchBooks")
	return []book.Book{}, m.listErr
}

func (m *mockRepository) GetBook(ctx context.Context, id int64) (*book.Book, error) {
	b, ok := m.books[id]
	if !ok {
		return nil, fmt.Errorf("book %d: %w", id, repo.ErrNotFound)
	}
	return &b, nil
}

func (m *mockRepository) UpdateBook(ctx context.Context, id int64, p book.BookPatch) error {
	m.record("UpdateBook")
	b, ok := m.books[id]
	if !ok {
		return repo.ErrNotFound
	}
	if v, ok := p.Copies.Value(); ok {
		b.Copies = v
	}
	m.books[id] = b
	return nil
}

func (m *mockRepository) DeleteBook(ctx context.Context, id int64) error {
	m.record("DeleteBook")
	return m.writeErr
}

func (m *mockRepository) CountBooks(ctx context.Context) (int64, error) {
	return int64(len(m.books)), m.listErr
}

var _ repo.Repository = (*mockRepository)(nil)

func TestService_ListAuthors(t *testing.T) {
	tests := []struct {
		name        string
		authors     map[int64]book.Author
		listErr     error
		expectError bool
		expectCount int
	}{
		{
			name: "success with authors",
			authors: map[int64]book.Author{
				1: {ID: 1, Name: "George Orwell"},
				2: {ID: 2, Name: "Jane Austen"},
			},
			expectCount: 2,
		},
		{
			name:        "empty list",
			authors:     map[int64]book.Author{},
			expectCount: 0,
		},
		{
			name:        "repository error",
			authors:     map[int64]book.Author{},
			listErr:     repo.ErrDatabase,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMock()
			m.authors = tt.authors
			m.listErr = tt.listErr
			svc := New(m)

			authors, err := svc.ListAuthors(context.Background())
			if tt.expectError {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.listErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, authors, tt.expectCount)
		})
	}
}

func TestService_CreateAuthor(t *testing.T) {
	m := newMock()
	svc := New(m)

	got, err := svc.CreateAuthor(context.Background(), book.NewAuthor{Name: "George Orwell", BirthYear: book.Ptr(int64(1903))})
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, "George Orwell", got.Name)
}

func TestService_CreateAuthor_Validation(t *testing.T) {
	for _, name := range []string{"", "   "} {
		m := newMock()
		svc := New(m)

		_, err := svc.CreateAuthor(context.Background(), book.NewAuthor{Name: name})
		require.Error(t, err)
		assert.ErrorIs(t, err, validator.ErrValidation)
		assert.Contains(t, err.Error(), "name is required")
		assert.Empty(t, m.calls, "repository must not be touched")
	}
}

func TestService_UpdateAuthor(t *testing.T) {
	ctx := context.Background()
	m := newMock()
	svc := New(m)
	created, err := svc.CreateAuthor(ctx, book.NewAuthor{Name: "Orwell", Nationality: book.Ptr("British")})
	require.NoError(t, err)

	got, err := svc.UpdateAuthor(ctx, created.ID, book.AuthorPatch{Name: book.Set("George Orwell")})
	require.NoError(t, err)
	assert.Equal(t, "George Orwell", got.Name)
	require.NotNil(t, got.Nationality)
	assert.Equal(t, "British", *got.Nationality)

	got, err = svc.UpdateAuthor(ctx, created.ID, book.AuthorPatch{Nationality: book.Null[string]()})
	require.NoError(t, err)
	assert.Nil(t, got.Nationality)
}

func TestService_UpdateAuthor_Errors(t *testing.T) {
	tests := []struct {
		name  string
		id    int64
		patch book.AuthorPatch
		want  error
	}{
		{"null name", 1, book.AuthorPatch{Name: book.Null[string]()}, validator.ErrValidation},
		{"blank name", 1, book.AuthorPatch{Name: book.Set(" ")}, validator.ErrValidation},
		{"no fields", 1, book.AuthorPatch{}, repo.ErrNoFields},
		{"not found", 99, book.AuthorPatch{Name: book.Set("x")}, repo.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMock()
			m.authors[1] = book.Author{ID: 1, Name: "A"}
			svc := New(m)

			_, err := svc.UpdateAuthor(context.Background(), tt.id, tt.patch)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestService_DeleteAuthor_Conflict(t *testing.T) {
	m := newMock()
	m.writeErr = fmt.Errorf("cannot delete author 1: %w", repo.ErrConflict)
	svc := New(m)

	err := svc.DeleteAuthor(context.Background(), 1)
	assert.ErrorIs(t, err, repo.ErrConflict)
}

func TestService_Search_BlankTerm(t *testing.T) {
	m := newMock()
	svc := New(m)
	ctx := context.Background()

	_, err := svc.SearchAuthors(ctx, "  ")
	assert.ErrorIs(t, err, validator.ErrValidation)
	_, err = svc.SearchBooks(ctx, "")
	assert.ErrorIs(t, err, validator.ErrValidation)
	assert.Empty(t, m.calls)

	m.authors[1] = book.Author{ID: 1, Name: "George Orwell"}
	authors, err := svc.SearchAuthors(ctx, "orwell")
	require.NoError(t, err)
	assert.Len(t, authors, 1)
}

func TestService_CreateBook(t *testing.T) {
	ctx := context.Background()
	m := newMock()
	svc := New(m)

	got, err := svc.CreateBook(ctx, book.NewBook{Title: "1984", ISBN: "978-0451524935"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Copies)

	_, err = svc.CreateBook(ctx, book.NewBook{Title: "No ISBN"})
	require.Error(t, err)
	assert.ErrorIs(t, err, validator.ErrValidation)
	assert.Contains(t, err.Error(), "isbn is required")
}

func TestService_CreateBook_RepositoryError(t *testing.T) {
	m := newMock()
	m.writeErr = fmt.Errorf("add book: %w", repo.ErrDuplicateISBN)
	svc := New(m)

	_, err := svc.CreateBook(context.Background(), book.NewBook{Title: "1984", ISBN: "1"})
	assert.ErrorIs(t, err, repo.ErrDuplicateISBN)
}

func TestService_UpdateBook(t *testing.T) {
	ctx := context.Background()
	m := newMock()
	svc := New(m)
	created, err := svc.CreateBook(ctx, book.NewBook{Title: "1984", ISBN: "978-0451524935"})
	require.NoError(t, err)

	got, err := svc.UpdateBook(ctx, created.ID, book.BookPatch{Copies: book.Set(int64(3))})
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Copies)
	assert.Equal(t, "1984", got.Title)

	for _, p := range []book.BookPatch{
		{Title: book.Null[string]()},
		{ISBN: book.Set("")},
		{Copies: book.Null[int64]()},
	} {
		_, err := svc.UpdateBook(ctx, created.ID, p)
		assert.ErrorIs(t, err, validator.ErrValidation)
	}
}

func TestService_Counts(t *testing.T) {
	m := newMock()
	m.authors[1] = book.Author{ID: 1, Name: "A"}
	m.books[1] = book.Book{ID: 1, Title: "B"}
	m.books[2] = book.Book{ID: 2, Title: "C"}
	svc := New(m)
	ctx := context.Background()

	n, err := svc.CountAuthors(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, err = svc.CountBooks(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestService_Ping(t *testing.T) {
	tests := []struct {
		name        string
		pingError   error
		expectError bool
	}{
		{name: "success"},
		{name: "failure", pingError: errors.New("connection failed"), expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMock()
			m.pingError = tt.pingError
			err := New(m).Ping(context.Background())
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
