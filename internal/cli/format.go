package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mesh-intelligence/floaty/pkg/types"
)

// previewWidth is the rune budget for a one-line content preview.
const previewWidth = 60

// preview returns the first line of content cut to width runes, ending in
// "..." when cut.
func preview(content string, width int) string {
	first, _, _ := strings.Cut(content, "\n")
	first = strings.TrimRight(first, "\r")
	r := []rune(first)
	if len(r) <= width {
		return first
	}
	return string(r[:width-3]) + "..."
}

// numberedNote is the JSON shape printed by list and show.
type numberedNote struct {
	Index int `json:"index"`
	types.Note
}

func numbered(notes []types.Note, offset int) []numberedNote {
	out := make([]numberedNote, len(notes))
	for i, n := range notes {
		out[i] = numberedNote{Index: offset + i + 1, Note: n}
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// printNoteTable prints notes in a human-readable table. offset is the
// 0-based position of notes[0] in the full sequence.
func printNoteTable(w io.Writer, notes []types.Note, offset, total int) {
	if total == 0 {
		fmt.Fprintln(w, "No notes.")
		return
	}

	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tWHEN\tTITLE\tPREVIEW")
	fmt.Fprintln(tw, "-\t----\t-----\t-------")
	for i, n := range notes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			types.FormatIndex(offset+i),
			n.Timestamp,
			preview(n.Title, 30),
			preview(n.Content, previewWidth),
		)
	}
	tw.Flush()

	for _, line := range strings.Split(strings.TrimRight(sb.String(), "\n"), "\n") {
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
	fmt.Fprintf(w, "Total: %d note(s)\n", total)
}

// printNote prints one note in full.
func printNote(w io.Writer, index int, n types.Note) {
	fmt.Fprintf(w, "#%s  %s\n", types.FormatIndex(index), n.Timestamp)
	if n.Title != "" {
		fmt.Fprintln(w, n.Title)
	}
	if n.Content != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, n.Content)
	}
}
