package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/floaty/internal/sqlite"
)

func newExportCmd(a *app) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a snapshot of all notes to another format",
		Long: `Export copies every note into a SQLite database. The snapshot is
read-only from floaty's point of view; notes.jsonl stays the source of truth.

Example:
  floaty export --sqlite ~/notes.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				return errors.New("export: --sqlite is required")
			}
			notes, err := a.notes.Load()
			if err != nil {
				return fmt.Errorf("load notes: %w", err)
			}
			if err := sqlite.Export(cmd.Context(), dbPath, notes); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			a.logger.Info("exported notes", slog.String("path", dbPath), slog.Int("count", len(notes)))
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d note(s) to %s\n", len(notes), dbPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "sqlite", "", "path of the SQLite database to write")
	return cmd
}
