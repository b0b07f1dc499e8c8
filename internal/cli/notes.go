package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/floaty/pkg/types"
)

func newAddCmd(a *app) *cobra.Command {
	var title, content string
	var fromStdin bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a new note",
		Long: `Add appends a note to the end of the log. The body comes from --content
or, with --stdin, from standard input.

Example:
  floaty add --title "groceries" --content "milk, eggs"
  pbpaste | floaty add --title "snippet" --stdin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if fromStdin {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				content = strings.TrimRight(string(data), "\r\n")
			}
			if title == "" && content == "" {
				return errors.New("add: a title or content is required")
			}

			s := a.session()
			n, err := s.Append(title, content)
			if err != nil {
				return fmt.Errorf("add note: %w", err)
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), n)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Saved.")
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "note title")
	cmd.Flags().StringVar(&content, "content", "", "note body")
	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "read the body from standard input")
	cmd.MarkFlagsMutuallyExclusive("content", "stdin")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes, oldest first",
		Long: `List prints every note with its number. Numbers start at 1 and are the
ones show, edit, and delete expect.

Example:
  floaty list
  floaty list --limit 5
  floaty list --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			notes, err := a.session().List()
			if err != nil {
				return err
			}
			offset := 0
			if limit > 0 && len(notes) > limit {
				offset = len(notes) - limit
			}
			shown := notes[offset:]
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), numbered(shown, offset))
			}
			printNoteTable(cmd.OutOrStdout(), shown, offset, len(notes))
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "show only the newest N notes (0 = all)")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "show <n>",
		Aliases: []string{"open"},
		Short:   "Print one note in full",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := types.ParseIndex(args[0])
			if err != nil {
				return err
			}
			n, err := a.session().Get(idx)
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), numberedNote{Index: idx + 1, Note: n})
			}
			printNote(cmd.OutOrStdout(), idx, n)
			return nil
		},
	}
}

func newEditCmd(a *app) *cobra.Command {
	var title, content string

	cmd := &cobra.Command{
		Use:   "edit <n>",
		Short: "Change a note's title or body",
		Long: `Edit replaces the title and/or body of note n and refreshes its timestamp.
Omitted flags keep their current value. Setting both to empty deletes the
note. An edit that changes nothing leaves the file untouched.

Example:
  floaty edit 3 --title "renamed"
  floaty edit 3 --content "new body"
  floaty edit 3 --title "" --content ""   # deletes note 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := types.ParseIndex(args[0])
			if err != nil {
				return err
			}
			titleSet := cmd.Flags().Changed("title")
			contentSet := cmd.Flags().Changed("content")
			if !titleSet && !contentSet {
				return errors.New("edit: at least one of --title or --content must be provided")
			}

			s := a.session()
			cur, err := s.Get(idx)
			if err != nil {
				return err
			}
			if !titleSet {
				title = cur.Title
			}
			if !contentSet {
				content = cur.Content
			}
			if err := s.Edit(idx, title, content); err != nil {
				return fmt.Errorf("edit note %s: %w", args[0], err)
			}

			switch {
			case title == "" && content == "":
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted note %s.\n", args[0])
			case cur.SameText(title, content):
				fmt.Fprintln(cmd.OutOrStdout(), "No changes.")
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "Updated note %s.\n", args[0])
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&content, "content", "", "new body")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <n>",
		Aliases: []string{"rm"},
		Short:   "Delete a note",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := types.ParseIndex(args[0])
			if err != nil {
				return err
			}
			if err := a.session().Delete(idx); err != nil {
				return fmt.Errorf("delete note %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted note %s.\n", args[0])
			return nil
		},
	}
}

func newClearCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every note",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("clear: refusing to delete all notes without --yes")
			}
			if err := a.session().Clear(); err != nil {
				return fmt.Errorf("clear notes: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All notes deleted.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deleting all notes")
	return cmd
}
