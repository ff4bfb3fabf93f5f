package richtext

// ChangeFunc receives the engine's full document after each content mutation.
type ChangeFunc func(Document)

// Engine is the narrow contract over a stateful rich-text engine instance.
// A single change listener is supported; registration replaces any previous one.
type Engine interface {
	Contents() Document
	SetContents(Document)
	OnChange(ChangeFunc)
}

// MemoryEngine is the in-process Engine implementation. It owns exactly one
// document and dispatches its change listener synchronously on every mutation.
type MemoryEngine struct {
	doc      Document
	listener ChangeFunc
	writes   int
}

// NewMemoryEngine returns an engine holding the canonical empty document.
func NewMemoryEngine() *MemoryEngine {
	return &MemoryEngine{doc: NewEmpty()}
}

// Contents returns the engine's current document.
func (e *MemoryEngine) Contents() Document {
	return e.doc
}

// SetContents replaces the engine's document and notifies the listener.
func (e *MemoryEngine) SetContents(d Document) {
	e.doc = d
	e.writes++
	e.dispatch()
}

// OnChange registers the single change listener.
func (e *MemoryEngine) OnChange(fn ChangeFunc) {
	e.listener = fn
}

// InsertText simulates a local edit: the text is appended before the
// document's trailing newline, or as a new op when there is none.
func (e *MemoryEngine) InsertText(text string) {
	if n := len(e.doc.Ops); n > 0 {
		if s, ok := e.doc.Ops[n-1].Insert.(string); ok && s == "\n" && e.doc.Ops[n-1].Attributes == nil {
			e.doc.Ops[n-1].Insert = text + "\n"
			e.dispatch()
			return
		}
	}
	e.doc.Ops = append(e.doc.Ops, Op{Insert: text})
	e.dispatch()
}

// InsertEmbed simulates inserting an embedded object (e.g. an image).
func (e *MemoryEngine) InsertEmbed(kind string, value any) {
	e.doc.Ops = append(e.doc.Ops, Op{Insert: map[string]any{kind: value}})
	e.dispatch()
}

// Writes returns how many times a full document was applied via SetContents.
func (e *MemoryEngine) Writes() int {
	return e.writes
}

func (e *MemoryEngine) dispatch() {
	if e.listener != nil {
		e.listener(e.doc)
	}
}
