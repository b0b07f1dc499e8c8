package jsonl

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/floaty/pkg/types"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		note types.Note
	}{
		{"plain", types.Note{ID: "0190a1b2-0000-7000-8000-000000000001", Timestamp: "2024-05-01 09:00:00", Title: "A", Content: "x"}},
		{"empty strings", types.Note{}},
		{"empty title", types.Note{Timestamp: "2024-05-01 09:00:00", Content: "body only"}},
		{"multi-line content", types.Note{Title: "list", Content: "one\ntwo\r\nthree\n"}},
		{"quotes and backslashes", types.Note{Title: `say "hi"`, Content: `C:\path\to` + "\t" + `file`}},
		{"html-ish", types.Note{Title: "<b>&</b>", Content: "a < b && c > d"}},
		{"unicode", types.Note{Title: "café ☕", Content: "日本語\n🙂"}},
		{"legacy without id", types.Note{Timestamp: "2023-12-31 23:59:59", Title: "old", Content: "note"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, err := Encode(tt.note)
			require.NoError(t, err)
			assert.NotContains(t, string(line), "\n", "encoded line must not contain a raw newline")
			assert.NotContains(t, string(line), "\r")

			got, err := Decode(line)
			require.NoError(t, err)
			assert.Equal(t, tt.note, got)
		})
	}
}

func TestEncodeOmitsEmptyID(t *testing.T) {
	line, err := Encode(types.Note{Timestamp: "t", Title: "a", Content: "b"})
	require.NoError(t, err)
	assert.Equal(t, `{"ts":"t","title":"a","content":"b"}`, string(line))
}

func TestDecodeLegacyLine(t *testing.T) {
	got, err := Decode([]byte(`{"ts":"2024-01-02 03:04:05","title":"T","content":"C"}`))
	require.NoError(t, err)
	assert.Equal(t, types.Note{Timestamp: "2024-01-02 03:04:05", Title: "T", Content: "C"}, got)
}

func TestDecodeIgnoresUnknownFields(t *testing.T) {
	got, err := Decode([]byte(`{"ts":"t","title":"a","content":"b","pinned":true}`))
	require.NoError(t, err)
	assert.Equal(t, "a", got.Title)
}

func TestDecodeToleratesTrailingCR(t *testing.T) {
	got, err := Decode([]byte("{\"ts\":\"t\",\"title\":\"a\",\"content\":\"b\"}\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "b", got.Content)
}

func TestDecodeMalformed(t *testing.T) {
	lines := []string{
		"",
		"not json",
		`{"ts":"t","title":"a"`,
		`["ts","title"]`,
		`null`,
		`{"ts":5,"title":"a","content":"b"}`,
		`"just a string"`,
		"\x00\xff\xfe",
		`{}`,
		`{"garbage":true}`,
		`{"title":null}`,
		`{"ts":"t","title":"a","content":null}`,
		`{"id":"x","ts":"t","content":"b"}`,
	}

	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			_, err := Decode([]byte(line))
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrDecode)

			var de *DecodeError
			require.True(t, errors.As(err, &de))
			assert.NotNil(t, de.Err)
		})
	}
}

func TestDecodeKeepsEmptyStrings(t *testing.T) {
	got, err := Decode([]byte(`{"ts":"","title":"","content":""}`))
	require.NoError(t, err)
	assert.Equal(t, types.Note{}, got)
}

func TestDecodeMissingFieldNamesIt(t *testing.T) {
	_, err := Decode([]byte(`{"ts":"t","title":"a"}`))
	require.ErrorIs(t, err, types.ErrDecode)
	assert.Contains(t, err.Error(), `missing field "content"`)
}

func TestDecodeErrorQuotesLongLines(t *testing.T) {
	long := bytes.Repeat([]byte("z"), 500)
	_, err := Decode(long)

	var de *DecodeError
	require.True(t, errors.As(err, &de))
	assert.True(t, strings.HasSuffix(de.Raw, "..."))
	assert.Len(t, de.Raw, maxQuoted+3)
}

func TestDecodeErrorMessage(t *testing.T) {
	de := &DecodeError{Line: 3, Err: errors.New("boom")}
	assert.Equal(t, "line 3: malformed note line: boom", de.Error())
}
