package book

type Author struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	BirthYear   *int64  `json:"birth_year"`
	Nationality *string `json:"nationality"`
}

// Book is a catalog entry denormalized with the linked author's name.
// AuthorName is nil when the book has no author.
type Book struct {
	ID         int64   `json:"id"`
	Title      string  `json:"title"`
	ISBN       string  `json:"isbn"`
	Year       *int64  `json:"year"`
	Genre      *string `json:"genre"`
	Copies     int64   `json:"copies"`
	AuthorID   *int64  `json:"author_id"`
	AuthorName *string `json:"author_name"`
}

// DefaultCopies is used when a book is created without a copies count.
const DefaultCopies = 1

type NewAuthor struct {
	Name        string  `json:"name" validate:"required,notblank"`
	BirthYear   *int64  `json:"birth_year"`
	Nationality *string `json:"nationality"`
}

type NewBook struct {
	Title    string  `json:"title" validate:"required,notblank"`
	ISBN     string  `json:"isbn" validate:"required,notblank"`
	Year     *int64  `json:"year"`
	Genre    *string `json:"genre"`
	Copies   *int64  `json:"copies"` // nil means DefaultCopies
	AuthorID *int64  `json:"author_id"`
}

// AuthorPatch lists the author fields to change. Unset fields are left
// untouched.
type AuthorPatch struct {
	Name        Optional[string]
	BirthYear   Optional[int64]
	Nationality Optional[string]
}

// Empty reports whether no field was supplied.
func (p AuthorPatch) Empty() bool {
	return !p.Name.IsSet() && !p.BirthYear.IsSet() && !p.Nationality.IsSet()
}

type BookPatch struct {
	Title    Optional[string]
	ISBN     Optional[string]
	Year     Optional[int64]
	Genre    Optional[string]
	Copies   Optional[int64]
	AuthorID Optional[int64]
}

func (p BookPatch) Empty() bool {
	return !p.Title.IsSet() && !p.ISBN.IsSet() && !p.Year.IsSet() &&
		!p.Genre.IsSet() && !p.Copies.IsSet() && !p.AuthorID.IsSet()
}

// Ptr returns a pointer to v. Handy for the optional fields of NewAuthor
// and NewBook.
func Ptr[T any](v T) *T {
	return &v
}
