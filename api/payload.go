package api

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/htol/libcat/book"
	"github.com/htol/libcat/validator"
)

const maxBodyBytes = 1 << 20

// fields is a decoded JSON object body, kept raw so that an absent key, an
// explicit null and an empty string stay distinguishable.
type fields map[string]jsoniter.RawMessage

func decodeFields(w http.ResponseWriter, r *http.Request) (fields, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read request body: %w", validator.ErrValidation, err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%w: no data provided", validator.ErrValidation)
	}

	var f fields
	if err := jsonAPI.Unmarshal(body, &f); err != nil || f == nil {
		return nil, fmt.Errorf("%w: request body must be a JSON object", validator.ErrValidation)
	}
	return f, nil
}

func isNull(raw jsoniter.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// text reads a string field. "" counts as not supplied.
func (f fields) text(name string) (book.Optional[string], error) {
	raw, ok := f[name]
	if !ok {
		return book.Optional[string]{}, nil
	}
	if isNull(raw) {
		return book.Null[string](), nil
	}
	var s string
	if err := jsonAPI.Unmarshal(raw, &s); err != nil {
		return book.Optional[string]{}, fmt.Errorf("%w: %s must be a string", validator.ErrValidation, name)
	}
	if s == "" {
		return book.Optional[string]{}, nil
	}
	return book.Set(s), nil
}

// integer reads an integer field given either as a JSON number or as a
// numeric string. Whole-number floats such as 2.0 or 1e3 are accepted.
// "" counts as not supplied.
func (f fields) integer(name string) (book.Optional[int64], error) {
	raw, ok := f[name]
	if !ok {
		return book.Optional[int64]{}, nil
	}
	if isNull(raw) {
		return book.Null[int64](), nil
	}

	var s string
	if err := jsonAPI.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			return book.Optional[int64]{}, nil
		}
	} else {
		var num jsoniter.Number
		if err := jsonAPI.Unmarshal(raw, &num); err == nil {
			s = num.String()
		}
	}
	if n, ok := wholeNumber(s); ok {
		return book.Set(n), nil
	}
	return book.Optional[int64]{}, fmt.Errorf("%w: %s must be an integer", validator.ErrValidation, name)
}

// maxExactFloat is the largest magnitude below which every integer is
// exactly representable as a float64.
const maxExactFloat = 1 << 53

func wholeNumber(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v != math.Trunc(v) || math.Abs(v) > maxExactFloat {
		return 0, false
	}
	return int64(v), true
}

// ptr turns a supplied value into a pointer; unset and null become nil.
func ptr[T any](o book.Optional[T]) *T {
	if v, ok := o.Value(); ok {
		return &v
	}
	return nil
}

func (f fields) authorPatch() (p book.AuthorPatch, err error) {
	if p.Name, err = f.text("name"); err != nil {
		return p, err
	}
	if p.BirthYear, err = f.integer("birth_year"); err != nil {
		return p, err
	}
	if p.Nationality, err = f.text("nationality"); err != nil {
		return p, err
	}
	return p, nil
}

func (f fields) newAuthor() (book.NewAuthor, error) {
	p, err := f.authorPatch()
	if err != nil {
		return book.NewAuthor{}, err
	}
	name, _ := p.Name.Value()
	return book.NewAuthor{
		Name:        name,
		BirthYear:   ptr(p.BirthYear),
		Nationality: ptr(p.Nationality),
	}, nil
}

func (f fields) bookPatch() (p book.BookPatch, err error) {
	if p.Title, err = f.text("title"); err != nil {
		return p, err
	}
	if p.ISBN, err = f.text("isbn"); err != nil {
		return p, err
	}
	if p.Year, err = f.integer("year"); err != nil {
		return p, err
	}
	if p.Genre, err = f.text("genre"); err != nil {
		return p, err
	}
	if p.Copies, err = f.integer("copies"); err != nil {
		return p, err
	}
	if p.AuthorID, err = f.integer("author_id"); err != nil {
		return p, err
	}
	return p, nil
}

func (f fields) newBook() (book.NewBook, error) {
	p, err := f.bookPatch()
	if err != nil {
		return book.NewBook{}, err
	}
	title, _ := p.Title.Value()
	isbn, _ := p.ISBN.Value()
	return book.NewBook{
		Title:    title,
		ISBN:     isbn,
		Year:     ptr(p.Year),
		Genre:    ptr(p.Genre),
		Copies:   ptr(p.Copies),
		AuthorID: ptr(p.AuthorID),
	}, nil
}
