package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotSetTitle(t *testing.T) {
	long := make([]rune, 101)
	for i := range long {
		long[i] = 'x'
	}

	tests := []struct {
		name    string
		title   string
		wantErr error
	}{
		{name: "accepts short title", title: "Hello world"},
		{name: "accepts exactly 100 runes", title: string(long[:100])},
		{name: "rejects 101 runes", title: string(long), wantErr: ErrTitleTooLong},
		{name: "counts runes not bytes", title: string(make([]rune, 0)) + repeatRune('é', 100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var snap Snapshot
			err := snap.SetTitle(tt.title)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, snap.Title)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.title, snap.Title)
		})
	}
}

func repeatRune(r rune, n int) string {
	runes := make([]rune, n)
	for i := range runes {
		runes[i] = r
	}
	return string(runes)
}

func TestNormalizeTag(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr error
	}{
		{name: "plain tag", raw: "golang", want: "golang"},
		{name: "strips hash prefix", raw: "#golang", want: "golang"},
		{name: "strips repeated hashes", raw: "##golang", want: "golang"},
		{name: "trims whitespace around hash", raw: "  # golang  ", want: "golang"},
		{name: "collapses inner whitespace", raw: "machine   learning", want: "machine learning"},
		{name: "collapses tabs and newlines", raw: "web\t\ndev", want: "web dev"},
		{name: "empty input", raw: "", wantErr: ErrEmptyTag},
		{name: "whitespace only", raw: "   ", wantErr: ErrEmptyTag},
		{name: "hash only", raw: "#", wantErr: ErrEmptyTag},
		{name: "too long", raw: repeatRune('a', 51), wantErr: ErrTagTooLong},
		{name: "exactly 50 runes", raw: repeatRune('a', 50), want: repeatRune('a', 50)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeTag(tt.raw)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSnapshotAddTag(t *testing.T) {
	var snap Snapshot

	require.NoError(t, snap.AddTag("Go"))
	require.NoError(t, snap.AddTag("#redis"))

	// Case-insensitive duplicate keeps the first spelling.
	err := snap.AddTag("GO")
	assert.ErrorIs(t, err, ErrDuplicateTag)
	err = snap.AddTag("#gO")
	assert.ErrorIs(t, err, ErrDuplicateTag)

	assert.Equal(t, []string{"Go", "redis"}, snap.Tags)
}

func TestSnapshotRemoveTag(t *testing.T) {
	snap := Snapshot{Tags: []string{"go", "redis", "fiber"}}

	require.NoError(t, snap.RemoveTag("Redis"))
	assert.Equal(t, []string{"go", "fiber"}, snap.Tags)

	err := snap.RemoveTag("missing")
	assert.ErrorIs(t, err, ErrTagNotFound)
}

func TestSnapshotSetStatus(t *testing.T) {
	var snap Snapshot

	require.NoError(t, snap.SetStatus("published"))
	require.NoError(t, snap.SetStatus("draft"))

	err := snap.SetStatus("archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Equal(t, "draft", snap.Status)
}

func TestSnapshotHasContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{name: "blank string", content: "", want: false},
		{name: "empty document", content: `{"ops":[{"insert":"\n"}]}`, want: false},
		{name: "text content", content: `{"ops":[{"insert":"hello\n"}]}`, want: true},
		{name: "embed only", content: `{"ops":[{"insert":{"image":"data:x"}},{"insert":"\n"}]}`, want: true},
		{name: "unparseable counts as empty", content: `{"ops":`, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := Snapshot{Content: tt.content}
			assert.Equal(t, tt.want, snap.HasContent())
		})
	}
}

func TestSnapshotReadyForPreview(t *testing.T) {
	ready := Snapshot{
		Title:            "A post",
		Content:          `{"ops":[{"insert":"body\n"}]}`,
		CategoryID:       3,
		ThumbnailDataURI: "data:image/png;base64,xyz",
	}

	assert.NoError(t, ready.ReadyForPreview())

	tests := []struct {
		name   string
		mutate func(*Snapshot)
	}{
		{name: "missing title", mutate: func(s *Snapshot) { s.Title = "  " }},
		{name: "empty content", mutate: func(s *Snapshot) { s.Content = `{"ops":[{"insert":"\n"}]}` }},
		{name: "missing category", mutate: func(s *Snapshot) { s.CategoryID = 0 }},
		{name: "missing thumbnail", mutate: func(s *Snapshot) { s.ThumbnailDataURI = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := ready
			tt.mutate(&snap)
			assert.ErrorIs(t, snap.ReadyForPreview(), ErrPreviewNotReady)
		})
	}
}
