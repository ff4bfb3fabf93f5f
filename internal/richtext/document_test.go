package richtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSerializeRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
	}{
		{
			name: "plain text",
			doc:  Document{Ops: []Op{{Insert: "Hello World\n"}}},
		},
		{
			name: "formatted runs",
			doc: Document{Ops: []Op{
				{Insert: "Hello ", Attributes: map[string]any{"bold": true}},
				{Insert: "World\n"},
			}},
		},
		{
			name: "image embed",
			doc: Document{Ops: []Op{
				{Insert: "caption\n"},
				{Insert: map[string]any{"image": "https://example.com/a.png"}},
			}},
		},
		{
			name: "empty paragraph",
			doc:  NewEmpty(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := Parse(tt.doc.Serialize())
			require.NoError(t, err)
			assert.True(t, parsed.Equal(tt.doc), "round-tripped document should be structurally equal")
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "blank", input: ""},
		{name: "whitespace only", input: "   "},
		{name: "invalid json", input: "{ops:"},
		{name: "wrong shape", input: `{"delta": 1}`},
		{name: "non-object", input: `42`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestDocumentEqual(t *testing.T) {
	a := Document{Ops: []Op{{Insert: "one"}, {Insert: "two\n"}}}
	b := Document{Ops: []Op{{Insert: "one"}, {Insert: "two\n"}}}
	c := Document{Ops: []Op{{Insert: "two\n"}, {Insert: "one"}}}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c), "op order is part of structural identity")
	assert.False(t, a.Equal(Document{Ops: a.Ops[:1]}))

	// Parsed and literal-built documents compare equal.
	parsed, err := Parse(a.Serialize())
	require.NoError(t, err)
	assert.True(t, parsed.Equal(a))
}

func TestDocumentIsEmpty(t *testing.T) {
	assert.True(t, NewEmpty().IsEmpty())
	assert.True(t, Document{}.IsEmpty())
	assert.True(t, Document{Ops: []Op{{Insert: " \n\t"}}}.IsEmpty())
	assert.False(t, Document{Ops: []Op{{Insert: "x\n"}}}.IsEmpty())
	assert.False(t, Document{Ops: []Op{{Insert: map[string]any{"image": "u"}}}}.IsEmpty(),
		"an embed counts as content even without text")
}

func TestPlainText(t *testing.T) {
	doc := Document{Ops: []Op{
		{Insert: "Hello "},
		{Insert: map[string]any{"image": "u"}},
		{Insert: "World\n"},
	}}
	assert.Equal(t, "Hello World\n", doc.PlainText())
}
