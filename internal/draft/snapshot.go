// Package draft implements the compose-form draft snapshot and the
// continuity protocol that carries in-progress work across the full-page
// round trip to the preview destination.
package draft

import (
	"errors"
	"strings"
	"unicode/utf8"

	"bloghub/internal/models"
	"bloghub/internal/richtext"
)

// Validation errors surfaced to the user at input time.
var (
	ErrTitleTooLong = errors.New("title exceeds 100 characters")
	ErrEmptyTag     = errors.New("tag is empty")
	ErrTagTooLong   = errors.New("tag exceeds 50 characters")
	ErrDuplicateTag = errors.New("tag already added")
	ErrTagNotFound  = errors.New("tag not found")
	ErrInvalidStatus = errors.New("status must be published or draft")
	ErrPreviewNotReady = errors.New("title, content, category and thumbnail are required before preview")
)

// Snapshot is the bundle of compose-form field values exchanged between the
// compose form, transient storage, and the preview destination.
//
// ThumbnailDataURI holds either a base64 data URI (freshly chosen image,
// pre-upload) or a pre-existing remote URL when editing a post that already
// has a thumbnail. EditTarget of zero signals a new post.
type Snapshot struct {
	Title            string   `json:"title"`
	Content          string   `json:"content"`
	ThumbnailDataURI string   `json:"thumbnail,omitempty"`
	CategoryID       uint     `json:"category_id,omitempty"`
	Tags             []string `json:"tags"`
	Status           string   `json:"status"`
	EditTarget       uint     `json:"edit_target,omitempty"`
}

// SetTitle enforces the 100-rune limit at input time: longer input is
// rejected outright, never truncated into the snapshot.
func (s *Snapshot) SetTitle(title string) error {
	if utf8.RuneCountInString(title) > models.MaxTitleLen {
		return ErrTitleTooLong
	}
	s.Title = title
	return nil
}

// SetStatus accepts only the published/draft enumeration.
func (s *Snapshot) SetStatus(status string) error {
	if !models.IsValidPostStatus(status) {
		return ErrInvalidStatus
	}
	s.Status = status
	return nil
}

// NormalizeTag strips leading '#' characters, trims surrounding whitespace
// and collapses inner runs to a single space, then applies the emptiness
// and length checks.
func NormalizeTag(raw string) (string, error) {
	tag := strings.TrimSpace(raw)
	tag = strings.TrimLeft(tag, "#")
	tag = strings.Join(strings.Fields(tag), " ")
	if tag == "" {
		return "", ErrEmptyTag
	}
	if utf8.RuneCountInString(tag) > models.MaxTagLen {
		return "", ErrTagTooLong
	}
	return tag, nil
}

// AddTag inserts a normalized tag. Duplicates under case-insensitive
// comparison are rejected; the first spelling wins.
func (s *Snapshot) AddTag(raw string) error {
	tag, err := NormalizeTag(raw)
	if err != nil {
		return err
	}
	for _, existing := range s.Tags {
		if strings.EqualFold(existing, tag) {
			return ErrDuplicateTag
		}
	}
	s.Tags = append(s.Tags, tag)
	return nil
}

// RemoveTag deletes a tag by case-insensitive match.
func (s *Snapshot) RemoveTag(name string) error {
	for i, existing := range s.Tags {
		if strings.EqualFold(existing, name) {
			s.Tags = append(s.Tags[:i], s.Tags[i+1:]...)
			return nil
		}
	}
	return ErrTagNotFound
}

// HasContent reports whether the serialized rich document carries visible
// content. Unparseable content counts as empty.
func (s *Snapshot) HasContent() bool {
	doc, err := richtext.Parse(s.Content)
	if err != nil {
		return false
	}
	return !doc.IsEmpty()
}

// ReadyForPreview checks the preview gate: title, content, category and a
// resolved thumbnail must all be present.
func (s *Snapshot) ReadyForPreview() error {
	if strings.TrimSpace(s.Title) == "" || !s.HasContent() ||
		s.CategoryID == 0 || s.ThumbnailDataURI == "" {
		return ErrPreviewNotReady
	}
	return nil
}
