package app

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/htol/libcat/book"
)

const (
	titleWidth  = 30
	authorWidth = 25
	notAvail    = "N/A"
)

// truncate shortens s to at most width runes, marking the cut with "..".
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-2]) + ".."
}

func strOrNA(p *string) string {
	if p == nil || *p == "" {
		return notAvail
	}
	return *p
}

func intOrNA(p *int64) string {
	if p == nil {
		return notAvail
	}
	return strconv.FormatInt(*p, 10)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func rule(w io.Writer, n int) {
	fmt.Fprintln(w, strings.Repeat("=", n))
}

func renderBooks(w io.Writer, books []book.Book) {
	rule(w, 110)
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTitle\tAuthor\tISBN\tYear\tGenre\tCopies")
	for _, b := range books {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%d\n",
			b.ID,
			truncate(b.Title, titleWidth),
			truncate(strOrNA(b.AuthorName), authorWidth),
			b.ISBN,
			intOrNA(b.Year),
			strOrNA(b.Genre),
			b.Copies,
		)
	}
	tw.Flush()
	rule(w, 110)
}

func renderBook(w io.Writer, b *book.Book) {
	author := notAvail
	if b.AuthorID != nil {
		author = fmt.Sprintf("%s (ID: %d)", strOrNA(b.AuthorName), *b.AuthorID)
	}

	fmt.Fprintf(w, "Book Details (ID: %d)\n", b.ID)
	rule(w, 50)
	tw := newTable(w)
	fmt.Fprintf(tw, "Title:\t%s\n", b.Title)
	fmt.Fprintf(tw, "ISBN:\t%s\n", b.ISBN)
	fmt.Fprintf(tw, "Year:\t%s\n", intOrNA(b.Year))
	fmt.Fprintf(tw, "Genre:\t%s\n", strOrNA(b.Genre))
	fmt.Fprintf(tw, "Copies:\t%d\n", b.Copies)
	fmt.Fprintf(tw, "Author:\t%s\n", author)
	tw.Flush()
	rule(w, 50)
}

func renderAuthors(w io.Writer, authors []book.Author) {
	rule(w, 90)
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tName\tBirth Year\tNationality")
	for _, a := range authors {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", a.ID, a.Name, intOrNA(a.BirthYear), strOrNA(a.Nationality))
	}
	tw.Flush()
	rule(w, 90)
}

func renderAuthor(w io.Writer, a *book.Author) {
	fmt.Fprintf(w, "Author Details (ID: %d)\n", a.ID)
	rule(w, 50)
	tw := newTable(w)
	fmt.Fprintf(tw, "Name:\t%s\n", a.Name)
	fmt.Fprintf(tw, "Birth Year:\t%s\n", intOrNA(a.BirthYear))
	fmt.Fprintf(tw, "Nationality:\t%s\n", strOrNA(a.Nationality))
	tw.Flush()
	rule(w, 50)
}
