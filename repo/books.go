package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/htol/libcat/book"
	"github.com/htol/libcat/logger"
)

// bookSelect joins authors with an outer join so books without an author
// are still listed, with a NULL author_name.
func (r *Repo) bookSelect() *goqu.SelectDataset {
	return r.sq.From(goqu.T(tableBooks).As("b")).
		LeftJoin(goqu.T(tableAuthors).As("a"), goqu.On(goqu.I("b.author_id").Eq(goqu.I("a.id")))).
		Select(
			goqu.I("b.id").As("id"),
			goqu.I("b.title").As("title"),
			goqu.I("b.isbn").As("isbn"),
			goqu.I("b.year").As("year"),
			goqu.I("b.genre").As("genre"),
			goqu.I("b.copies").As("copies"),
			goqu.I("b.author_id").As("author_id"),
			goqu.I("a.name").As("author_name"),
		).
		Order(goqu.I("b.title").Asc()).
		Prepared(true)
}

func (r *Repo) queryBooks(ctx context.Context, where exp.Expression) ([]book.Book, error) {
	ds := r.bookSelect()
	if where != nil {
		ds = ds.Where(where)
	}
	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("%w: build book query: %w", ErrDatabase, err)
	}

	recs, err := r.queryRecords(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}

	books := make([]book.Book, 0, len(recs))
	for _, rec := range recs {
		books = append(books, bookFromRecord(rec))
	}
	return books, nil
}

// AddBook inserts a new book and returns its id. A taken isbn yields
// ErrDuplicateISBN; an author_id with no matching author yields ErrConflict.
func (r *Repo) AddBook(ctx context.Context, b book.NewBook) (int64, error) {
	copies := int64(book.DefaultCopies)
	if b.Copies != nil {
		copies = *b.Copies
	}

	ds := r.sq.Insert(tableBooks).Prepared(true).Rows(goqu.Record{
		"title":     b.Title,
		"isbn":      b.ISBN,
		"year":      nullable(b.Year),
		"genre":     nullable(b.Genre),
		"copies":    copies,
		"author_id": nullable(b.AuthorID),
	})

	res, err := r.exec(ctx, ds)
	if err != nil {
		return 0, bookWriteError(fmt.Sprintf("add book %q", b.Title), b.ISBN, b.AuthorID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, errors.Join(ErrDatabase, err)
	}

	logger.Debug("Book added", "id", id, "isbn", b.ISBN)
	return id, nil
}

// ListBooks returns every book ordered by title.
func (r *Repo) ListBooks(ctx context.Context) ([]book.Book, error) {
	return r.queryBooks(ctx, nil)
}

// SearchBooks returns books whose title, isbn, genre or author name
// contains term, ignoring case. An empty term returns all books.
func (r *Repo) SearchBooks(ctx context.Context, term string) ([]book.Book, error) {
	return r.queryBooks(ctx, anyContains(term, "b.title", "b.isbn", "b.genre", "a.name"))
}

func (r *Repo) GetBook(ctx context.Context, id int64) (*book.Book, error) {
	books, err := r.queryBooks(ctx, goqu.I("b.id").Eq(id))
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return nil, fmt.Errorf("book %d: %w", id, ErrNotFound)
	}
	return &books[0], nil
}

// UpdateBook writes the supplied patch fields of book id. A new isbn is
// checked for uniqueness by the same constraint as AddBook.
func (r *Repo) UpdateBook(ctx context.Context, id int64, p book.BookPatch) error {
	found, err := r.exists(ctx, tableBooks, id)
	if err != nil {
		return fmt.Errorf("update book %d: %w", id, err)
	}
	if !found {
		return fmt.Errorf("book %d: %w", id, ErrNotFound)
	}
	if p.Empty() {
		return fmt.Errorf("update book %d: %w", id, ErrNoFields)
	}

	rec := goqu.Record{}
	if p.Title.IsSet() {
		rec["title"] = p.Title.SQLValue()
	}
	if p.ISBN.IsSet() {
		rec["isbn"] = p.ISBN.SQLValue()
	}
	if p.Year.IsSet() {
		rec["year"] = p.Year.SQLValue()
	}
	if p.Genre.IsSet() {
		rec["genre"] = p.Genre.SQLValue()
	}
	if p.Copies.IsSet() {
		rec["copies"] = p.Copies.SQLValue()
	}
	if p.AuthorID.IsSet() {
		rec["author_id"] = p.AuthorID.SQLValue()
	}

	ds := r.sq.Update(tableBooks).Prepared(true).Set(rec).Where(goqu.C("id").Eq(id))
	res, err := r.exec(ctx, ds)
	if err != nil {
		isbn, _ := p.ISBN.Value()
		var authorID *int64
		if v, ok := p.AuthorID.Value(); ok {
			authorID = &v
		}
		return bookWriteError(fmt.Sprintf("update book %d", id), isbn, authorID, err)
	}
	if n, err := rowsAffected(res); err != nil {
		return err
	} else if n == 0 {
		return fmt.Errorf("book %d: %w", id, ErrNotFound)
	}

	logger.Debug("Book updated", "id", id)
	return nil
}

// DeleteBook removes book id. It fails with ErrConflict while any loan
// references the book.
func (r *Repo) DeleteBook(ctx context.Context, id int64) error {
	ds := r.sq.Delete(tableBooks).Prepared(true).Where(goqu.C("id").Eq(id))
	res, err := r.exec(ctx, ds)
	if errors.Is(err, ErrConflict) {
		return fmt.Errorf("cannot delete book %d, loans are linked to this book: %w", id, ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("delete book %d: %w", id, err)
	}
	if n, err := rowsAffected(res); err != nil {
		return err
	} else if n == 0 {
		return fmt.Errorf("book %d: %w", id, ErrNotFound)
	}

	logger.Debug("Book deleted", "id", id)
	return nil
}

func (r *Repo) CountBooks(ctx context.Context) (int64, error) {
	return r.count(ctx, tableBooks)
}

// bookWriteError gives classified insert/update failures a precise message.
func bookWriteError(op, isbn string, authorID *int64, err error) error {
	switch {
	case errors.Is(err, ErrDuplicateISBN):
		return fmt.Errorf("%s: isbn %q: %w", op, isbn, ErrDuplicateISBN)
	case errors.Is(err, ErrConflict) && authorID != nil:
		return fmt.Errorf("%s: author %d does not exist: %w", op, *authorID, ErrConflict)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
