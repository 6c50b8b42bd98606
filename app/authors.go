package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/htol/libcat/book"
)

func (app *appEnv) authorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "authors",
		Aliases: []string{"author"},
		Short:   "Manage authors",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List all authors",
			Args:  exactArgs(0),
			RunE: func(cmd *cobra.Command, args []string) error {
				svc, err := app.open()
				if err != nil {
					return err
				}
				authors, err := svc.ListAuthors(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(authors) == 0 {
					fmt.Fprintln(out, "No authors found in the database.")
					return nil
				}
				renderAuthors(out, authors)
				fmt.Fprintf(out, "Total authors: %d\n", len(authors))
				return nil
			},
		},
		&cobra.Command{
			Use:   "search TERM",
			Short: "Find authors by name",
			Args:  exactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				svc, err := app.open()
				if err != nil {
					return err
				}
				authors, err := svc.SearchAuthors(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(authors) == 0 {
					fmt.Fprintf(out, "No authors found matching '%s'\n", args[0])
					return nil
				}
				fmt.Fprintf(out, "Search results for '%s':\n", args[0])
				renderAuthors(out, authors)
				fmt.Fprintf(out, "Found %d author(s)\n", len(authors))
				return nil
			},
		},
		&cobra.Command{
			Use:   "get ID",
			Short: "Show one author",
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
				a, err := svc.GetAuthor(cmd.Context(), id)
				if err != nil {
					return err
				}
				renderAuthor(cmd.OutOrStdout(), a)
				return nil
			},
		},
		app.addAuthorCmd(),
		app.updateAuthorCmd(),
		app.deleteCmd("author", func(cmd *cobra.Command, id int64) error {
			return app.service.DeleteAuthor(cmd.Context(), id)
		}),
		&cobra.Command{
			Use:   "count",
			Short: "Count authors",
			Args:  exactArgs(0),
			RunE: func(cmd *cobra.Command, args []string) error {
				svc, err := app.open()
				if err != nil {
					return err
				}
				n, err := svc.CountAuthors(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Total authors in library: %d\n", n)
				return nil
			},
		},
	)
	return cmd
}

func (app *appEnv) addAuthorCmd() *cobra.Command {
	var (
		birthYear   int64
		nationality string
	)
	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add an author",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := book.NewAuthor{Name: args[0]}
			if cmd.Flags().Changed("birth-year") {
				in.BirthYear = &birthYear
			}
			if nationality != "" {
				in.Nationality = &nationality
			}

			svc, err := app.open()
			if err != nil {
				return err
			}
			a, err := svc.CreateAuthor(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Author added successfully! (ID: %d)\n", a.ID)
			renderAuthor(cmd.OutOrStdout(), a)
			return nil
		},
	}
	cmd.Flags().Int64Var(&birthYear, "birth-year", 0, "Year of birth")
	cmd.Flags().StringVar(&nationality, "nationality", "", "Nationality")
	return cmd
}

func (app *appEnv) updateAuthorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change author fields; an empty value clears an optional field",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var p book.AuthorPatch
			p.Name = textFlag(cmd, "name")
			if p.BirthYear, err = intFlag(cmd, "birth-year"); err != nil {
				return err
			}
			p.Nationality = textFlag(cmd, "nationality")

			svc, err := app.open()
			if err != nil {
				return err
			}
			if _, err := svc.UpdateAuthor(cmd.Context(), id, p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Author %d updated successfully!\n", id)
			return nil
		},
	}
	cmd.Flags().String("name", "", "New name")
	cmd.Flags().String("birth-year", "", "New year of birth")
	cmd.Flags().String("nationality", "", "New nationality")
	return cmd
}

// deleteCmd builds the delete subcommand shared by authors and books.
func (app *appEnv) deleteCmd(entity string, del func(cmd *cobra.Command, id int64) error) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a " + entity,
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !yes {
				ok, err := confirm(cmd, fmt.Sprintf("Are you sure you want to delete %s %d?", entity, id))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Deletion cancelled.")
					return nil
				}
			}

			if _, err := app.open(); err != nil {
				return err
			}
			if err := del(cmd, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d deleted successfully!\n", capitalize(entity), id)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

// textFlag turns an explicitly passed string flag into a patch field. An
// empty value means null.
func textFlag(cmd *cobra.Command, name string) book.Optional[string] {
	if !cmd.Flags().Changed(name) {
		return book.Optional[string]{}
	}
	v, _ := cmd.Flags().GetString(name)
	if v == "" {
		return book.Null[string]()
	}
	return book.Set(v)
}

func intFlag(cmd *cobra.Command, name string) (book.Optional[int64], error) {
	if !cmd.Flags().Changed(name) {
		return book.Optional[int64]{}, nil
	}
	v, _ := cmd.Flags().GetString(name)
	if v == "" {
		return book.Null[int64](), nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return book.Optional[int64]{}, usageError{fmt.Errorf("--%s must be an integer, got %q", name, v)}
	}
	return book.Set(n), nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
