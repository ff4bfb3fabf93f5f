package richtext

import (
	"log/slog"
)

// Adapter presents a plain, host-agnostic read/write surface over a stateful
// rich-text engine. It owns the engine instance for the lifetime of its
// mount point and relays the engine's change events to the host as the
// serialized wire form.
type Adapter struct {
	newEngine func() Engine
	onChange  func(serialized string)
	logger    *slog.Logger

	engine Engine
	mount  string
}

// NewAdapter creates an adapter. newEngine is the injected engine capability;
// onChange is the host callback invoked with the serialized document after
// every local content mutation. Either may be nil (nil newEngine defaults to
// the in-process engine; nil onChange disables notification).
func NewAdapter(newEngine func() Engine, onChange func(string)) *Adapter {
	if newEngine == nil {
		newEngine = func() Engine { return NewMemoryEngine() }
	}
	return &Adapter{
		newEngine: newEngine,
		onChange:  onChange,
		logger:    slog.Default(),
	}
}

// Initialize binds exactly one engine instance to the given mount point and
// registers the change listener. Calling it again while an instance is
// already bound is a no-op.
func (a *Adapter) Initialize(mount string) {
	if a.engine != nil {
		return
	}
	a.mount = mount
	a.engine = a.newEngine()
	a.engine.OnChange(func(d Document) {
		if a.onChange != nil {
			a.onChange(d.Serialize())
		}
	})
}

// Initialized reports whether an engine instance is bound.
func (a *Adapter) Initialized() bool {
	return a.engine != nil
}

// Value returns the serialized form of the engine's current document,
// or the empty form when no engine is bound yet.
func (a *Adapter) Value() string {
	if a.engine == nil {
		return NewEmpty().Serialize()
	}
	return a.engine.Contents().Serialize()
}

// SetValue accepts either an already-parsed Document or its serialized
// string form and applies it to the engine, with two guards:
//
//   - empty or absent input resets the engine to a single empty paragraph;
//   - input structurally equal to the engine's current document is skipped,
//     so echoing back just-received content never disturbs in-progress edits.
//
// Malformed input is reported as an error and logged; the engine's previous
// state is preserved.
func (a *Adapter) SetValue(value any) error {
	if a.engine == nil {
		a.Initialize(a.mount)
	}

	var target Document
	switch v := value.(type) {
	case nil:
		target = NewEmpty()
	case Document:
		if len(v.Ops) == 0 {
			target = NewEmpty()
		} else {
			target = v
		}
	case string:
		if v == "" {
			target = NewEmpty()
		} else {
			parsed, err := Parse(v)
			if err != nil {
				a.logger.Warn("rich-text deserialization failed, keeping editor state",
					slog.String("mount", a.mount),
					slog.String("error", err.Error()),
				)
				return err
			}
			target = parsed
		}
	default:
		a.logger.Warn("unsupported rich-text value type, keeping editor state",
			slog.String("mount", a.mount),
		)
		return ErrUnsupportedValue
	}

	if a.engine.Contents().Equal(target) {
		return nil
	}
	a.engine.SetContents(target)
	return nil
}

// Engine returns the bound engine instance, or nil before Initialize.
func (a *Adapter) Engine() Engine {
	return a.engine
}
