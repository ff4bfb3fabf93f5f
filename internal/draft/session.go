package draft

import (
	"context"
	"encoding/json"
	"log/slog"

	"bloghub/internal/models"
)

// State enumerates the compose session's protocol states.
type State int

const (
	// StateEmpty is the initial state: no draft loaded, blank fields.
	StateEmpty State = iota
	// StateLoadedFromDraft means a pending transient snapshot was consumed.
	StateLoadedFromDraft
	// StateLoadedFromSource means fields were seeded from the post record.
	StateLoadedFromSource
	// StateEditing is the steady state; all further mutations are local.
	StateEditing
	// StatePreviewing means the snapshot was handed off to the preview
	// destination; the session's in-memory fields are now stale.
	StatePreviewing
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoadedFromDraft:
		return "loaded-from-draft"
	case StateLoadedFromSource:
		return "loaded-from-source"
	case StateEditing:
		return "editing"
	case StatePreviewing:
		return "previewing"
	}
	return "unknown"
}

// PreviewPayload is the navigation payload handed to the preview
// destination. It is self-contained so the destination never reads
// transient storage itself.
type PreviewPayload struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	Thumbnail  string `json:"thumbnail"`
	Category   string `json:"category"`
	CategoryID uint   `json:"category_id"`
	Tags       string `json:"tags"` // JSON-encoded array of labels
	Status     string `json:"status"`
	EditTarget uint   `json:"editTarget,omitempty"`
	IsEditing  bool   `json:"isEditing,omitempty"`
}

// Session drives one compose form through the continuity protocol. The
// full-page navigation to the preview destination is a hard reset of
// in-memory state; only the Store survives it, which is why Enter always
// consults the store before the source record.
type Session struct {
	store  Store
	key    string
	state  State
	snap   Snapshot
	logger *slog.Logger
}

// NewSession creates a session bound to a store slot.
func NewSession(store Store, sessionKey string) *Session {
	return &Session{
		store:  store,
		key:    sessionKey,
		state:  StateEmpty,
		logger: slog.Default(),
	}
}

// Enter runs the mount transition. A pending transient snapshot always
// takes priority over the source record, so unsaved edits are never
// silently discarded by a stale source fetch; consuming it deletes it as
// part of the transition. A store failure degrades to the source record
// (or blank fields) instead of blocking.
func (s *Session) Enter(ctx context.Context, source *Snapshot) State {
	pending, ok, err := s.store.Take(ctx, s.key)
	if err != nil {
		s.logger.Warn("transient draft read failed, falling back to source",
			slog.String("session", s.key),
			slog.String("error", err.Error()),
		)
		ok = false
	}

	switch {
	case ok:
		s.snap = *pending
		s.state = StateLoadedFromDraft
	case source != nil:
		s.snap = *source
		s.state = StateLoadedFromSource
	default:
		s.snap = Snapshot{Status: models.PostStatusPublished}
		s.state = StateEmpty
	}
	return s.state
}

// Resume seeds the session from field values the client already holds,
// without consulting the store. The submitted form state is authoritative
// at preview time; any stale slot content is overwritten by the next Put.
func (s *Session) Resume(snap Snapshot) {
	s.snap = snap
	s.snap.Tags = append([]string(nil), snap.Tags...)
	s.state = StateEditing
}

// State returns the current protocol state.
func (s *Session) State() State {
	return s.state
}

// Snapshot returns a copy of the current field values.
func (s *Session) Snapshot() Snapshot {
	snap := s.snap
	snap.Tags = append([]string(nil), s.snap.Tags...)
	return snap
}

// editing converges the loaded states into Editing on the first mutation.
func (s *Session) editing() {
	s.state = StateEditing
}

// SetTitle mutates the title field under the input-time length rule.
func (s *Session) SetTitle(title string) error {
	if err := s.snap.SetTitle(title); err != nil {
		return err
	}
	s.editing()
	return nil
}

// SetContent replaces the serialized rich document.
func (s *Session) SetContent(serialized string) {
	s.snap.Content = serialized
	s.editing()
}

// SetCategory selects a category by id; zero clears the selection.
func (s *Session) SetCategory(id uint) {
	s.snap.CategoryID = id
	s.editing()
}

// SetThumbnail stores a data URI or pre-existing remote URL.
func (s *Session) SetThumbnail(uri string) {
	s.snap.ThumbnailDataURI = uri
	s.editing()
}

// SetStatus mutates the publication status.
func (s *Session) SetStatus(status string) error {
	if err := s.snap.SetStatus(status); err != nil {
		return err
	}
	s.editing()
	return nil
}

// AddTag inserts a tag under the normalization and dedup rules.
func (s *Session) AddTag(raw string) error {
	if err := s.snap.AddTag(raw); err != nil {
		return err
	}
	s.editing()
	return nil
}

// RemoveTag deletes a tag.
func (s *Session) RemoveTag(name string) error {
	if err := s.snap.RemoveTag(name); err != nil {
		return err
	}
	s.editing()
	return nil
}

// Preview runs the Editing -> Previewing transition: it gates on the
// required fields, writes the snapshot to transient storage, and builds
// the navigation payload with the category label resolved from the tree.
// When the gate or the store write fails, no state changes and nothing
// is written.
func (s *Session) Preview(ctx context.Context, tree []models.Category) (*PreviewPayload, error) {
	if err := s.snap.ReadyForPreview(); err != nil {
		return nil, err
	}

	if err := s.store.Put(ctx, s.key, s.snap); err != nil {
		return nil, err
	}
	s.state = StatePreviewing

	tags := s.snap.Tags
	if tags == nil {
		tags = []string{}
	}
	encoded, _ := json.Marshal(tags)

	return &PreviewPayload{
		Title:      s.snap.Title,
		Content:    s.snap.Content,
		Thumbnail:  s.snap.ThumbnailDataURI,
		Category:   models.ResolveCategoryLabel(tree, s.snap.CategoryID),
		CategoryID: s.snap.CategoryID,
		Tags:       string(encoded),
		Status:     s.snap.Status,
		EditTarget: s.snap.EditTarget,
		IsEditing:  s.snap.EditTarget != 0,
	}, nil
}
