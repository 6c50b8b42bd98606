package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/htol/libcat/book"
)

func (app *appEnv) booksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "books",
		Aliases: []string{"book"},
		Short:   "Manage books",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List all books",
			Args:  exactArgs(0),
			RunE: func(cmd *cobra.Command, args []string) error {
				svc, err := app.open()
				if err != nil {
					return err
				}
				books, err := svc.ListBooks(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(books) == 0 {
					fmt.Fprintln(out, "No books found in the database.")
					return nil
				}
				renderBooks(out, books)
				fmt.Fprintf(out, "Total books: %d\n", len(books))
				return nil
			},
		},
		&cobra.Command{
			Use:   "search TERM",
			Short: "Find books by title, isbn, genre or author",
			Args:  exactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				svc, err := app.open()
				if err != nil {
					return err
				}
				books, err := svc.SearchBooks(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(books) == 0 {
					fmt.Fprintf(out, "No books found matching '%s'\n", args[0])
					return nil
				}
				fmt.Fprintf(out, "Search results for '%s':\n", args[0])
				renderBooks(out, books)
				fmt.Fprintf(out, "Found %d book(s)\n", len(books))
				return nil
			},
		},
		&cobra.Command{
			Use:   "get ID",
			Short: "Show one book",
			Args:  exactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				svc, err := app.open()
				if err != nil {
					return err
				}
				b, err := svc.GetBook(cmd.Context(), id)
				if err != nil {
					return err
				}
				renderBook(cmd.OutOrStdout(), b)
				return nil
			},
		},
		app.addBookCmd(),
		app.updateBookCmd(),
		app.deleteCmd("book", func(cmd *cobra.Command, id int64) error {
			return app.service.DeleteBook(cmd.Context(), id)
		}),
		&cobra.Command{
			Use:   "count",
			Short: "Count books",
			Args:  exactArgs(0),
			RunE: func(cmd *cobra.Command, args []string) error {
				svc, err := app.open()
				if err != nil {
					return err
				}
				n, err := svc.CountBooks(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Total books in library: %d\n", n)
				return nil
			},
		},
	)
	return cmd
}

func (app *appEnv) addBookCmd() *cobra.Command {
	var (
		year, copies, authorID int64
		genre                  string
	)
	cmd := &cobra.Command{
		Use:   "add TITLE ISBN",
		Short: "Add a book",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := book.NewBook{Title: args[0], ISBN: args[1]}
			flags := cmd.Flags()
			if flags.Changed("year") {
				in.Year = &year
			}
			if genre != "" {
				in.Genre = &genre
			}
			if flags.Changed("copies") {
				in.Copies = &copies
			}
			if flags.Changed("author-id") {
				in.AuthorID = &authorID
			}

			svc, err := app.open()
			if err != nil {
				return err
			}
			b, err := svc.CreateBook(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Book added successfully! (ID: %d)\n", b.ID)
			renderBook(cmd.OutOrStdout(), b)
			return nil
		},
	}
	cmd.Flags().Int64Var(&year, "year", 0, "Publication year")
	cmd.Flags().StringVar(&genre, "genre", "", "Genre")
	cmd.Flags().Int64Var(&copies, "copies", book.DefaultCopies, "Number of copies")
	cmd.Flags().Int64Var(&authorID, "author-id", 0, "ID of an existing author")
	return cmd
}

func (app *appEnv) updateBookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change book fields; an empty value clears an optional field",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var p book.BookPatch
			p.Title = textFlag(cmd, "title")
			p.ISBN = textFlag(cmd, "isbn")
			p.Genre = textFlag(cmd, "genre")
			if p.Year, err = intFlag(cmd, "year"); err != nil {
				return err
			}
			if p.Copies, err = intFlag(cmd, "copies"); err != nil {
				return err
			}
			if p.AuthorID, err = intFlag(cmd, "author-id"); err != nil {
				return err
			}

			svc, err := app.open()
			if err != nil {
				return err
			}
			if _, err := svc.UpdateBook(cmd.Context(), id, p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Book %d updated successfully!\n", id)
			return nil
		},
	}
	for _, f := range []struct{ name, usage string }{
		{"title", "New title"},
		{"isbn", "New ISBN"},
		{"year", "New publication year"},
		{"genre", "New genre"},
		{"copies", "New number of copies"},
		{"author-id", "New author ID"},
	} {
		cmd.Flags().String(f.name, "", f.usage)
	}
	return cmd
}
