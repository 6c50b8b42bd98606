package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/htol/libcat/config"
	"github.com/htol/libcat/logger"
	"github.com/htol/libcat/repo"
	"github.com/htol/libcat/service"
)

// CLI runs the libcat command line with args and returns the process exit
// code: 0 on success, 1 on runtime errors, 2 on usage errors.
func CLI(args []string) int {
	return run(context.Background(), args, os.Stdin, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	app := &appEnv{config: config.Load()}
	defer app.close()

	root := app.rootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var ue usageError
	if errors.As(err, &ue) || strings.HasPrefix(err.Error(), "unknown command") {
		fmt.Fprintf(stderr, "Error: %v\nRun 'libcat --help' for usage.\n", err)
		return 2
	}
	logger.Error("Runtime error", "error", err)
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return 1
}

// usageError marks bad invocations, as opposed to failures while running.
type usageError struct{ error }

func (e usageError) Unwrap() error { return e.error }

type appEnv struct {
	config   *config.Config
	dbPath   string
	logLevel string
	storage  *repo.Repo
	service  *service.Service
}

func (app *appEnv) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "libcat",
		Short:         "Library catalog manager for books and authors",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.InitWithOptions(app.logLevel, app.config.LogFormat, cmd.ErrOrStderr())
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err}
	})

	// CLI flags override environment variables
	root.PersistentFlags().StringVar(&app.dbPath, "db", app.config.Database.Path, "Path to the sqlite database file")
	root.PersistentFlags().StringVar(&app.logLevel, "log-level", app.config.LogLevel, "Log level (debug, info, warn, error)")

	root.AddCommand(
		app.initCmd(),
		app.serveCmd(),
		app.seedCmd(),
		app.authorsCmd(),
		app.booksCmd(),
	)
	return root
}

// open connects to the database on first use.
func (app *appEnv) open() (*service.Service, error) {
	if app.service != nil {
		return app.service, nil
	}

	cfg := app.config.Database
	cfg.Path = app.dbPath
	storage, err := repo.Open(cfg)
	if err != nil {
		return nil, err
	}
	app.storage = storage
	app.service = service.New(storage)
	return app.service, nil
}

func (app *appEnv) close() {
	if app.storage == nil {
		return
	}
	if err := app.storage.Close(); err != nil {
		logger.Error("Error closing storage", "error", err)
	}
	app.storage, app.service = nil, nil
}

func (app *appEnv) initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the database and its tables",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.open(); err != nil {
				return err
			}
			tables, err := app.storage.Tables(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Database ready at %s (tables: %s)\n", app.dbPath, strings.Join(tables, ", "))
			return nil
		},
	}
}

func (app *appEnv) serveCmd() *cobra.Command {
	port := app.config.Server.Port
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.open()
			if err != nil {
				return err
			}
			cfg := *app.config
			cfg.Server.Port = port
			return NewServer(&cfg, svc).ListenAndServe(cmd.Context())
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", port, "Port number")
	return cmd
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, usageError{fmt.Errorf("invalid id %q", s)}
	}
	return id, nil
}

// confirm asks a y/n question on the command's input. A stdin that is not
// a terminal cannot answer, so the caller must pass --yes instead.
func confirm(cmd *cobra.Command, question string) (bool, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
		return false, usageError{errors.New("stdin is not a terminal, pass --yes to confirm")}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s (y/n): ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	return strings.EqualFold(strings.TrimSpace(line), "y"), nil
}
