package jsonl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/floaty/pkg/types"
)

func sampleNotes() []types.Note {
	return []types.Note{
		{ID: "1", Timestamp: "2000-01-01 00:00:00", Title: "a", Content: "1"},
		{ID: "2", Timestamp: "2000-01-01 00:00:00", Title: "b", Content: "2"},
		{ID: "3", Timestamp: "2000-01-01 00:00:00", Title: "c", Content: "3"},
	}
}

func TestApplyEdit(t *testing.T) {
	tests := []struct {
		name        string
		index       int
		title       string
		content     string
		wantTitles  []string
		wantChanged bool
		wantErr     error
	}{
		{name: "replace middle", index: 1, title: "B", content: "2", wantTitles: []string{"a", "B", "c"}, wantChanged: true},
		{name: "unchanged is no-op", index: 1, title: "b", content: "2", wantTitles: []string{"a", "b", "c"}},
		{name: "empty deletes", index: 0, wantTitles: []string{"b", "c"}, wantChanged: true},
		{name: "title only clears content", index: 2, title: "c", wantTitles: []string{"a", "b", "c"}, wantChanged: true},
		{name: "negative index", index: -1, title: "x", wantTitles: []string{"a", "b", "c"}, wantErr: types.ErrIndexOutOfRange},
		{name: "past end", index: 3, title: "x", wantTitles: []string{"a", "b", "c"}, wantErr: types.ErrIndexOutOfRange},
		{name: "empty edit out of range", index: 5, wantTitles: []string{"a", "b", "c"}, wantErr: types.ErrIndexOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := sampleNotes()
			out, changed, err := ApplyEdit(in, tt.index, tt.title, tt.content)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantChanged, changed)
			assert.Equal(t, tt.wantTitles, titles(out))
			assert.Equal(t, sampleNotes(), in, "input must not be modified")
		})
	}
}

func TestApplyEditKeepsIDAndBumpsTimestamp(t *testing.T) {
	out, changed, err := ApplyEdit(sampleNotes(), 0, "new", "text")
	require.NoError(t, err)
	require.True(t, changed)
	assert.Equal(t, "1", out[0].ID)
	assert.NotEqual(t, "2000-01-01 00:00:00", out[0].Timestamp)
}

func TestApplyDelete(t *testing.T) {
	in := sampleNotes()

	out, err := ApplyDelete(in, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, titles(out))
	assert.Equal(t, sampleNotes(), in)

	_, err = ApplyDelete(in, 3)
	assert.ErrorIs(t, err, types.ErrIndexOutOfRange)
}
