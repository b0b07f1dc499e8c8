package jsonl

import (
	"fmt"

	"github.com/mesh-intelligence/floaty/pkg/types"
)

// checkIndex returns ErrIndexOutOfRange unless 0 <= i < n.
func checkIndex(i, n int) error {
	if i < 0 || i >= n {
		return fmt.Errorf("%w: %d (have %d notes)", types.ErrIndexOutOfRange, i, n)
	}
	return nil
}

// ApplyEdit returns the sequence that results from editing position i.
// Empty title and content delete the note. Unchanged text returns the input
// with changed == false so callers can skip the rewrite. The input slice is
// never modified.
func ApplyEdit(notes []types.Note, i int, title, content string) (out []types.Note, changed bool, err error) {
	if err = checkIndex(i, len(notes)); err != nil {
		return notes, false, err
	}
	if title == "" && content == "" {
		out, err = ApplyDelete(notes, i)
		return out, err == nil, err
	}
	if notes[i].SameText(title, content) {
		return notes, false, nil
	}
	out = make([]types.Note, len(notes))
	copy(out, notes)
	out[i] = notes[i].Revise(title, content)
	return out, true, nil
}

// ApplyDelete returns a copy of notes without position i.
func ApplyDelete(notes []types.Note, i int) ([]types.Note, error) {
	if err := checkIndex(i, len(notes)); err != nil {
		return notes, err
	}
	out := make([]types.Note, 0, len(notes)-1)
	out = append(out, notes[:i]...)
	return append(out, notes[i+1:]...), nil
}
