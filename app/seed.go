package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/htol/libcat/seed"
)

func (app *appEnv) seedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the bundled sample catalog (20 authors, 100 books) or a catalog file",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			load := seed.Load
			if file != "" {
				load = func() (*seed.Catalog, error) { return seed.LoadFile(file) }
			}
			catalog, err := load()
			if err != nil {
				return err
			}
			svc, err := app.open()
			if err != nil {
				return err
			}

			rep, err := seed.Run(cmd.Context(), svc, catalog)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Added %d authors and %d books\n", rep.AuthorsAdded, rep.BooksAdded)
			if len(rep.BooksSkipped) > 0 {
				fmt.Fprintf(out, "Skipped %d books with existing ISBNs\n", len(rep.BooksSkipped))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON catalog to load instead of the bundled one")
	return cmd
}
