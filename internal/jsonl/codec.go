// Package jsonl implements the durable note log: one JSON-encoded note per
// line, appended in place and compacted with a temp-file, fsync, rename
// rewrite.
package jsonl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/mesh-intelligence/floaty/pkg/types"
)

// maxQuoted bounds how much of a bad line a DecodeError carries.
const maxQuoted = 80

// DecodeError describes a line that could not be decoded into a note.
type DecodeError struct {
	Line int    // 1-based physical line number, 0 when unknown.
	Raw  string // leading part of the offending line.
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %v: %v", e.Line, types.ErrDecode, e.Err)
	}
	return fmt.Sprintf("%v: %v", types.ErrDecode, e.Err)
}

// Unwrap lets errors.Is match both ErrDecode and the underlying cause.
func (e *DecodeError) Unwrap() []error {
	return []error{types.ErrDecode, e.Err}
}

// Encode serializes a note to a single line without the trailing newline.
// JSON string escaping guarantees no raw newline inside the line.
func Encode(n types.Note) ([]byte, error) {
	line, err := json.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("encoding note: %w", err)
	}
	return line, nil
}

// wireNote mirrors types.Note with pointer fields so that absent or null
// keys can be told apart from empty strings.
type wireNote struct {
	ID        string  `json:"id"`
	Timestamp *string `json:"ts"`
	Title     *string `json:"title"`
	Content   *string `json:"content"`
}

// Decode parses one line into a note. It never panics; any problem is
// returned as a *DecodeError. ts, title, and content must be present
// strings; id is optional and unknown fields are ignored.
func Decode(line []byte) (types.Note, error) {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return types.Note{}, &DecodeError{Raw: quote(line), Err: fmt.Errorf("not a JSON object")}
	}
	var w wireNote
	if err := json.Unmarshal(trimmed, &w); err != nil {
		return types.Note{}, &DecodeError{Raw: quote(line), Err: err}
	}
	for _, f := range []struct {
		key string
		val *string
	}{{"ts", w.Timestamp}, {"title", w.Title}, {"content", w.Content}} {
		if f.val == nil {
			return types.Note{}, &DecodeError{Raw: quote(line), Err: fmt.Errorf("missing field %q", f.key)}
		}
	}
	return types.Note{
		ID:        w.ID,
		Timestamp: *w.Timestamp,
		Title:     *w.Title,
		Content:   *w.Content,
	}, nil
}

// quote returns at most maxQuoted runes of line for diagnostics.
func quote(line []byte) string {
	if utf8.RuneCount(line) <= maxQuoted {
		return string(line)
	}
	var b []rune
	for _, r := range string(line) {
		if len(b) == maxQuoted {
			break
		}
		b = append(b, r)
	}
	return string(b) + "..."
}
