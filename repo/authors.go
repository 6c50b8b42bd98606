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

func (r *Repo) authorSelect() *goqu.SelectDataset {
	return r.sq.From(tableAuthors).
		Select("id", "name", "birth_year", "nationality").
		Order(goqu.I("name").Asc()).
		Prepared(true)
}

func (r *Repo) queryAuthors(ctx context.Context, where exp.Expression) ([]book.Author, error) {
	ds := r.authorSelect()
	if where != nil {
		ds = ds.Where(where)
	}
	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("%w: build author query: %w", ErrDatabase, err)
	}

	recs, err := r.queryRecords(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query authors: %w", err)
	}

	authors := make([]book.Author, 0, len(recs))
	for _, rec := range recs {
		authors = append(authors, authorFromRecord(rec))
	}
	return authors, nil
}

// AddAuthor inserts a new author and returns its id.
func (r *Repo) AddAuthor(ctx context.Context, a book.NewAuthor) (int64, error) {
	ds := r.sq.Insert(tableAuthors).Prepared(true).Rows(goqu.Record{
		"name":        a.Name,
		"birth_year":  nullable(a.BirthYear),
		"nationality": nullable(a.Nationality),
	})

	res, err := r.exec(ctx, ds)
	if err != nil {
		return 0, fmt.Errorf("add author %q: %w", a.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, errors.Join(ErrDatabase, err)
	}

	logger.Debug("Author added", "id", id)
	return id, nil
}

// ListAuthors returns every author ordered by name.
func (r *Repo) ListAuthors(ctx context.Context) ([]book.Author, error) {
	return r.queryAuthors(ctx, nil)
}

// SearchAuthors returns authors whose name contains term, ignoring case.
// Nationality is not searched. An empty term returns all authors.
func (r *Repo) SearchAuthors(ctx context.Context, term string) ([]book.Author, error) {
	return r.queryAuthors(ctx, anyContains(term, "name"))
}

func (r *Repo) GetAuthor(ctx context.Context, id int64) (*book.Author, error) {
	authors, err := r.queryAuthors(ctx, goqu.C("id").Eq(id))
	if err != nil {
		return nil, err
	}
	if len(authors) == 0 {
		return nil, fmt.Errorf("author %d: %w", id, ErrNotFound)
	}
	return &authors[0], nil
}

// UpdateAuthor writes the supplied patch fields of author id.
func (r *Repo) UpdateAuthor(ctx context.Context, id int64, p book.AuthorPatch) error {
	found, err := r.exists(ctx, tableAuthors, id)
	if err != nil {
		return fmt.Errorf("update author %d: %w", id, err)
	}
	if !found {
		return fmt.Errorf("author %d: %w", id, ErrNotFound)
	}
	if p.Empty() {
		return fmt.Errorf("update author %d: %w", id, ErrNoFields)
	}

	rec := goqu.Record{}
	if p.Name.IsSet() {
		rec["name"] = p.Name.SQLValue()
	}
	if p.BirthYear.IsSet() {
		rec["birth_year"] = p.BirthYear.SQLValue()
	}
	if p.Nationality.IsSet() {
		rec["nationality"] = p.Nationality.SQLValue()
	}

	ds := r.sq.Update(tableAuthors).Prepared(true).Set(rec).Where(goqu.C("id").Eq(id))
	res, err := r.exec(ctx, ds)
	if err != nil {
		return fmt.Errorf("update author %d: %w", id, err)
	}
	if n, err := rowsAffected(res); err != nil {
		return err
	} else if n == 0 {
		return fmt.Errorf("author %d: %w", id, ErrNotFound)
	}

	logger.Debug("Author updated", "id", id)
	return nil
}

// DeleteAuthor removes author id. It fails with ErrConflict while any book
// references the author.
func (r *Repo) DeleteAuthor(ctx context.Context, id int64) error {
	ds := r.sq.Delete(tableAuthors).Prepared(true).Where(goqu.C("id").Eq(id))
	res, err := r.exec(ctx, ds)
	if errors.Is(err, ErrConflict) {
		return fmt.Errorf("cannot delete author %d, books are linked to this author: %w", id, ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("delete author %d: %w", id, err)
	}
	if n, err := rowsAffected(res); err != nil {
		return err
	} else if n == 0 {
		return fmt.Errorf("author %d: %w", id, ErrNotFound)
	}

	logger.Debug("Author deleted", "id", id)
	return nil
}

func (r *Repo) CountAuthors(ctx context.Context) (int64, error) {
	return r.count(ctx, tableAuthors)
}

// nullable turns a nil pointer into a SQL NULL and dereferences the rest.
func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
