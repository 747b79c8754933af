// Package cli implements the taskcards command tree.
package cli

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/tgienger/taskcards/internal/config"
	"github.com/tgienger/taskcards/internal/db"
	"github.com/tgienger/taskcards/internal/duedate"
	"github.com/tgienger/taskcards/internal/logging"
	"github.com/tgienger/taskcards/internal/ui"
)

// Version information set via ldflags
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// options holds the persistent flag values
type options struct {
	timezone string
	dbPath   string
	logLevel string
}

// env is everything a command needs once flags and config are resolved
type env struct {
	store     *db.DB
	formatter *duedate.Formatter
	log       zerolog.Logger
	closers   []io.Closer
}

func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i].Close()
	}
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "taskcards",
		Short:         "A terminal to-do board",
		Long:          `taskcards keeps a list of to-do items and shows each one as a card with its priority and due date.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(opts, true)
			if err != nil {
				return err
			}
			defer e.Close()

			app := ui.NewApp(e.store, e.formatter, e.log)
			p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("running board: %w", err)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.timezone, "timezone", "", "IANA timezone for due dates (default from config, else local time)")
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "Path to the task database")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	root.AddCommand(
		newAddCmd(opts),
		newListCmd(opts),
		newDoneCmd(opts),
		newRmCmd(opts),
		newEditCmd(opts),
		newFormatDateCmd(opts),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

// setup resolves config, flags, logging and the store. Flags win over config.
// Commands that only format dates pass withStore=false.
func setup(opts *options, withStore bool) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if opts.timezone != "" {
		cfg.Timezone = opts.timezone
	}
	if opts.dbPath != "" {
		cfg.DBPath = opts.dbPath
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	e := &env{formatter: duedate.New(loc), log: zerolog.Nop()}
	if !withStore {
		return e, nil
	}

	logger, closer, err := logging.Open(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	e.log = logger
	e.closers = append(e.closers, closer)

	store, err := db.New(cfg.DBPath, logger)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("initializing database: %w", err)
	}
	e.store = store
	e.closers = append(e.closers, store)

	logger.Debug().Str("timezone", loc.String()).Msg("configuration loaded")
	return e, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "taskcards %s (commit: %s, built: %s)\n", Version, Commit, Date)
		},
	}
}
