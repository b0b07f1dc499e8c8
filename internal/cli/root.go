// Package cli implements the floaty command-line interface: one-shot note
// commands, the interactive shell, settings, export, and the local HTTP
// surface. Every note index accepted or printed here is 1-based.
package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/floaty/internal/jsonl"
	"github.com/mesh-intelligence/floaty/internal/session"
	"github.com/mesh-intelligence/floaty/internal/settings"
	"github.com/mesh-intelligence/floaty/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	logLevel  string
	jsonMode  bool
}

// app is the state shared by one command invocation. It is built by the
// root PersistentPreRunE once flags are parsed.
type app struct {
	flags    rootFlags
	cfg      types.AppConfig
	logger   *slog.Logger
	notes    *jsonl.Store
	settings *settings.Store
}

// NewRootCmd creates the top-level "floaty" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "floaty",
		Short: "A small local note keeper",
		Long: `floaty keeps short notes in a JSON-lines file under your home directory.
Notes are appended in place; edits and deletes rewrite the file atomically.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/floaty)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "data directory holding notes.jsonl (default: $XDG_DATA_HOME/floaty)")
	root.PersistentFlags().StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newAddCmd(a))
	root.AddCommand(newListCmd(a))
	root.AddCommand(newShowCmd(a))
	root.AddCommand(newEditCmd(a))
	root.AddCommand(newDeleteCmd(a))
	root.AddCommand(newClearCmd(a))
	root.AddCommand(newSettingsCmd(a))
	root.AddCommand(newExportCmd(a))
	root.AddCommand(newShellCmd(a))
	root.AddCommand(newServeCmd(a))

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "floaty:", err)
		os.Exit(exitCode(err))
	}
	os.Exit(exitSuccess)
}

// exitCode maps I/O failures to exitSysError and everything else, such as
// bad arguments or out-of-range indices, to exitUserError.
func exitCode(err error) int {
	var pathErr *fs.PathError
	var linkErr *os.LinkError
	var sysErr *os.SyscallError
	switch {
	case err == nil:
		return exitSuccess
	case errors.As(err, &pathErr), errors.As(err, &linkErr), errors.As(err, &sysErr):
		return exitSysError
	default:
		return exitUserError
	}
}

// setup loads configuration and builds the logger and stores.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := loadConfig(a.flags, cmd)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	a.notes = jsonl.NewStore(filepath.Join(cfg.DataDir, jsonl.NotesFileName), jsonl.WithLogger(a.logger))
	a.settings = settings.NewStore(filepath.Join(cfg.ConfigDir, settings.FileName), a.logger)

	a.logger.Debug("configuration loaded",
		slog.String("config_dir", cfg.ConfigDir),
		slog.String("data_dir", cfg.DataDir),
		slog.String("log_level", cfg.LogLevel))
	return nil
}

// session returns a fresh session over the note store.
func (a *app) session() *session.Session {
	return session.New(a.notes, a.logger)
}
