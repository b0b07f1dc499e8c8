package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/floaty/pkg/types"
)

func newSettingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change desktop settings",
	}
	cmd.AddCommand(newSettingsGetCmd(a))
	cmd.AddCommand(newSettingsSetCmd(a))
	return cmd
}

func newSettingsGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Print the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc := a.settings.Load()
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), doc)
			}
			printSettings(cmd, doc)
			return nil
		},
	}
}

func newSettingsSetCmd(a *app) *cobra.Command {
	var reopen bool
	var shortcut string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change one or more settings",
		Long: `Set updates the given fields and writes the whole settings document.

Example:
  floaty settings set --reopen-on-restart
  floaty settings set --shortcut "Ctrl+Alt+N"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc := a.settings.Load()
			changed := false
			if cmd.Flags().Changed("reopen-on-restart") {
				doc.ReopenOnRestart = reopen
				changed = true
			}
			if cmd.Flags().Changed("shortcut") {
				doc.ShortcutBinding = shortcut
				changed = true
			}
			if !changed {
				return fmt.Errorf("settings set: nothing to change; use --reopen-on-restart or --shortcut")
			}
			if err := a.settings.Save(doc); err != nil {
				return err
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), doc)
			}
			printSettings(cmd, doc)
			return nil
		},
	}
	cmd.Flags().BoolVar(&reopen, "reopen-on-restart", false, "reopen the note window when the app starts")
	cmd.Flags().StringVar(&shortcut, "shortcut", "", "global shortcut, e.g. CommandOrControl+Shift+N")
	return cmd
}

func printSettings(cmd *cobra.Command, doc types.Settings) {
	fmt.Fprintf(cmd.OutOrStdout(), "reopen_on_restart: %t\nshortcut_binding: %s\n",
		doc.ReopenOnRestart, doc.ShortcutBinding)
}
