// Package richtext provides the engine-agnostic rich-text document
// representation used by the post composer, plus the adapter that bridges
// a host form and an embedded editor engine.
package richtext

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Op is a single insert operation: a text run or an embedded object
// (image, formatting marker). Embeds and attributes are carried opaquely.
type Op struct {
	Insert     any            `json:"insert"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// Document is an ordered sequence of insert operations fully describing
// the editor's contents.
type Document struct {
	Ops []Op `json:"ops"`
}

// ErrEmptyDocument is returned by Parse for blank input.
var ErrEmptyDocument = errors.New("richtext: empty document")

// ErrUnsupportedValue is returned by Adapter.SetValue when the input is
// neither a Document nor its serialized string form.
var ErrUnsupportedValue = errors.New("richtext: unsupported value type")

// NewEmpty returns the canonical empty document: a single empty paragraph.
func NewEmpty() Document {
	return Document{Ops: []Op{{Insert: "\n"}}}
}

// Parse decodes the serialized wire form ({"ops":[...]}) into a Document.
func Parse(s string) (Document, error) {
	if strings.TrimSpace(s) == "" {
		return Document{}, ErrEmptyDocument
	}
	var doc Document
	if err := json.Unmarshal([]byte(s), &doc); err != nil {
		return Document{}, fmt.Errorf("richtext: malformed document: %w", err)
	}
	if doc.Ops == nil {
		return Document{}, errors.New("richtext: document has no ops")
	}
	return doc, nil
}

// Serialize encodes the document into its wire form.
func (d Document) Serialize() string {
	b, err := json.Marshal(d)
	if err != nil {
		// Ops carry only JSON-decoded values or literals; marshaling them
		// back cannot fail in practice. Fall back to the empty form.
		return NewEmpty().Serialize()
	}
	return string(b)
}

// Equal reports structural equality: two documents are equal iff their
// operation sequences are identical. Comparison goes through canonical
// JSON so that parsed and literal-built documents compare consistently.
func (d Document) Equal(other Document) bool {
	if len(d.Ops) != len(other.Ops) {
		return false
	}
	a, errA := json.Marshal(d.Ops)
	b, errB := json.Marshal(other.Ops)
	if errA != nil || errB != nil {
		return false
	}
	return string(a) == string(b)
}

// PlainText concatenates the document's text runs, skipping embeds.
func (d Document) PlainText() string {
	var b strings.Builder
	for _, op := range d.Ops {
		if s, ok := op.Insert.(string); ok {
			b.WriteString(s)
		}
	}
	return b.String()
}

// IsEmpty reports whether the document carries no visible content:
// no ops, or only whitespace text runs and no embeds.
func (d Document) IsEmpty() bool {
	for _, op := range d.Ops {
		s, ok := op.Insert.(string)
		if !ok {
			return false // embedded object counts as content
		}
		if strings.TrimSpace(s) != "" {
			return false
		}
	}
	return true
}
