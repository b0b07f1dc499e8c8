package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mesh-intelligence/floaty/internal/session"
	"github.com/mesh-intelligence/floaty/pkg/types"
)

// bodyTerminator ends a multi-line body in the shell.
const bodyTerminator = "."

const shellHelp = `Commands:
  add          write a new note (finish the body with a lone ".")
  list         show the newest notes
  open <n>     print note n in full
  edit <n>     replace the title and body of note n (empty both to delete)
  delete <n>   delete note n
  clear        delete every note
  reload       reread notes from disk
  help         show this help
  quit, exit   leave the shell`

func newShellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive note shell",
		Long: `Shell opens a line-oriented prompt over the note log. Notes are read once
and kept in memory; changes made by other programs are picked up when
shell.watch is enabled or after "reload".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sh := newShell(a.session(), cmd.InOrStdin(), cmd.OutOrStdout(), a.cfg.ShellPreview)
			return runShell(cmd.Context(), sh, a.cfg.ShellWatch, a.logger)
		},
	}
}

// runShell drives the prompt and, when watch is set, the change watcher.
// The watcher stops when the prompt returns. A watcher that cannot start
// is logged and the shell carries on without it.
func runShell(ctx context.Context, sh *shell, watch bool, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	if watch {
		g.Go(func() error {
			if err := sh.sess.Watch(ctx); err != nil {
				logger.Warn("shell: not watching notes for changes", slog.String("error", err.Error()))
			}
			return nil
		})
	}
	g.Go(func() error {
		defer cancel()
		return sh.run(ctx)
	})
	return g.Wait()
}

type shell struct {
	sess    *session.Session
	in      *bufio.Scanner
	out     io.Writer
	preview int
}

func newShell(sess *session.Session, in io.Reader, out io.Writer, preview int) *shell {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &shell{sess: sess, in: sc, out: out, preview: preview}
}

// errQuit ends the prompt loop without an error.
var errQuit = errors.New("quit")

func (sh *shell) run(ctx context.Context) error {
	fmt.Fprintln(sh.out, `floaty shell. Type "help" for commands.`)
	for {
		if ctx.Err() != nil {
			return nil
		}
		line, ok := sh.prompt("> ")
		if !ok {
			fmt.Fprintln(sh.out)
			return sh.in.Err()
		}
		err := sh.dispatch(line)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintln(sh.out, "error:", err)
		}
	}
}

func (sh *shell) dispatch(line string) error {
	name, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case "":
		return nil
	case "add":
		return sh.add()
	case "list", "ls":
		return sh.list()
	case "open", "show":
		return sh.open(arg)
	case "edit":
		return sh.edit(arg)
	case "delete", "rm":
		return sh.delete(arg)
	case "clear":
		return sh.clear()
	case "reload":
		if err := sh.sess.Reload(); err != nil {
			return err
		}
		fmt.Fprintln(sh.out, "Reloaded.")
		return nil
	case "help", "?":
		fmt.Fprintln(sh.out, shellHelp)
		return nil
	case "quit", "exit":
		return errQuit
	default:
		fmt.Fprintf(sh.out, "Unknown command %q. Type \"help\" for commands.\n", name)
		return nil
	}
}

func (sh *shell) add() error {
	title, content, ok := sh.readNote()
	if !ok {
		return nil
	}
	if title == "" && content == "" {
		fmt.Fprintln(sh.out, "Empty note, nothing saved.")
		return nil
	}
	if _, err := sh.sess.Append(title, content); err != nil {
		return err
	}
	fmt.Fprintln(sh.out, "Saved.")
	return nil
}

func (sh *shell) list() error {
	notes, err := sh.sess.List()
	if err != nil {
		return err
	}
	if len(notes) == 0 {
		fmt.Fprintln(sh.out, "No notes.")
		return nil
	}
	offset := 0
	if sh.preview > 0 && len(notes) > sh.preview {
		offset = len(notes) - sh.preview
	}
	for i, n := range notes[offset:] {
		fmt.Fprintln(sh.out, shellLine(offset+i, n))
	}
	return nil
}

// shellLine renders "idx | ts | title - preview".
func shellLine(index int, n types.Note) string {
	return fmt.Sprintf("%s | %s | %s - %s", types.FormatIndex(index), n.Timestamp, n.Title, preview(n.Content, previewWidth))
}

func (sh *shell) open(arg string) error {
	idx, err := types.ParseIndex(arg)
	if err != nil {
		return err
	}
	n, err := sh.sess.Get(idx)
	if err != nil {
		return err
	}
	printNote(sh.out, idx, n)
	return nil
}

func (sh *shell) edit(arg string) error {
	idx, err := types.ParseIndex(arg)
	if err != nil {
		return err
	}
	cur, err := sh.sess.Get(idx)
	if err != nil {
		return err
	}
	printNote(sh.out, idx, cur)

	title, content, ok := sh.readNote()
	if !ok {
		return nil
	}
	if err := sh.sess.Edit(idx, title, content); err != nil {
		return err
	}
	switch {
	case title == "" && content == "":
		fmt.Fprintln(sh.out, "Deleted.")
	case cur.SameText(title, content):
		fmt.Fprintln(sh.out, "No changes.")
	default:
		fmt.Fprintln(sh.out, "Updated.")
	}
	return nil
}

func (sh *shell) delete(arg string) error {
	idx, err := types.ParseIndex(arg)
	if err != nil {
		return err
	}
	if _, err := sh.sess.Get(idx); err != nil {
		return err
	}
	if !sh.confirm(fmt.Sprintf("Delete note %s? [y/N] ", types.FormatIndex(idx))) {
		fmt.Fprintln(sh.out, "Cancelled.")
		return nil
	}
	if err := sh.sess.Delete(idx); err != nil {
		return err
	}
	fmt.Fprintln(sh.out, "Deleted.")
	return nil
}

func (sh *shell) clear() error {
	if !sh.confirm("Delete ALL notes? [y/N] ") {
		fmt.Fprintln(sh.out, "Cancelled.")
		return nil
	}
	if err := sh.sess.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(sh.out, "All notes deleted.")
	return nil
}

// readNote prompts for a title and then body lines up to a lone ".".
// ok is false if input ended first.
func (sh *shell) readNote() (title, content string, ok bool) {
	title, ok = sh.prompt("Title: ")
	if !ok {
		return "", "", false
	}
	fmt.Fprintf(sh.out, "Body (end with a line containing only %q):\n", bodyTerminator)
	var lines []string
	for {
		line, ok := sh.prompt("")
		if !ok {
			return "", "", false
		}
		if line == bodyTerminator {
			break
		}
		lines = append(lines, line)
	}
	return strings.TrimSpace(title), strings.Join(lines, "\n"), true
}

func (sh *shell) confirm(question string) bool {
	answer, ok := sh.prompt(question)
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

func (sh *shell) prompt(p string) (string, bool) {
	if p != "" {
		fmt.Fprint(sh.out, p)
	}
	if !sh.in.Scan() {
		return "", false
	}
	return strings.TrimRight(sh.in.Text(), "\r"), true
}
