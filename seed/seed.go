// Package seed loads the bundled sample catalog into a library.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"

	"github.com/htol/libcat/book"
	"github.com/htol/libcat/logger"
	"github.com/htol/libcat/repo"
)

//go:embed catalog.json
var catalogJSON []byte

type Catalog struct {
	Authors []book.NewAuthor `json:"authors"`
	Books   []Book           `json:"books"`
}

// Book is a catalog entry that names its author instead of referencing an id.
type Book struct {
	Title  string `json:"title"`
	ISBN   string `json:"isbn"`
	Year   *int64 `json:"year"`
	Genre  string `json:"genre"`
	Copies *int64 `json:"copies"` // nil means book.DefaultCopies
	Author string `json:"author"`
}

// Load decodes the embedded sample catalog.
func Load() (*Catalog, error) {
	return Parse(bytes.NewReader(catalogJSON))
}

// LoadFile decodes a catalog file in the same format as the embedded one.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

func Parse(r io.Reader) (*Catalog, error) {
	var c Catalog
	dec := jsoniter.ConfigCompatibleWithStandardLibrary.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return &c, nil
}

// Store is the subset of the service the seeder writes through.
type Store interface {
	ListAuthors(ctx context.Context) ([]book.Author, error)
	CreateAuthor(ctx context.Context, a book.NewAuthor) (*book.Author, error)
	CreateBook(ctx context.Context, b book.NewBook) (*book.Book, error)
}

type Report struct {
	AuthorsAdded  int
	AuthorsReused int
	BooksAdded    int
	BooksSkipped  []string // isbns already present
}

// Run inserts c through s. Authors already present under the same name are
// reused and books whose isbn is taken are skipped, so running it twice is
// harmless. Any other failure stops the run.
func Run(ctx context.Context, s Store, c *Catalog) (Report, error) {
	var rep Report

	existing, err := s.ListAuthors(ctx)
	if err != nil {
		return rep, err
	}
	ids := make(map[string]int64, len(existing)+len(c.Authors))
	for _, a := range existing {
		if _, ok := ids[a.Name]; !ok {
			ids[a.Name] = a.ID
		}
	}

	for _, a := range c.Authors {
		if _, ok := ids[a.Name]; ok {
			rep.AuthorsReused++
			continue
		}
		created, err := s.CreateAuthor(ctx, a)
		if err != nil {
			return rep, fmt.Errorf("seed author %q: %w", a.Name, err)
		}
		ids[a.Name] = created.ID
		rep.AuthorsAdded++
	}

	for _, b := range c.Books {
		nb := book.NewBook{
			Title:  b.Title,
			ISBN:   b.ISBN,
			Year:   b.Year,
			Copies: b.Copies,
		}
		if b.Genre != "" {
			nb.Genre = book.Ptr(b.Genre)
		}
		if id, ok := ids[b.Author]; ok {
			nb.AuthorID = book.Ptr(id)
		}

		_, err := s.CreateBook(ctx, nb)
		switch {
		case errors.Is(err, repo.ErrDuplicateISBN):
			rep.BooksSkipped = append(rep.BooksSkipped, b.ISBN)
		case err != nil:
			return rep, fmt.Errorf("seed book %q: %w", b.Title, err)
		default:
			rep.BooksAdded++
		}
	}

	logger.Info("Sample catalog loaded",
		"authors_added", rep.AuthorsAdded,
		"authors_reused", rep.AuthorsReused,
		"books_added", rep.BooksAdded,
		"books_skipped", len(rep.BooksSkipped),
	)
	return rep, nil
}
