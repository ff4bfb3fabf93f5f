// Package notifications provides real-time event delivery to connected
// readers: new publications, comments and moderation notices travel from
// the API instance that produced them through Redis pub/sub to every
// instance's websocket clients.
package notifications

import (
	"encoding/json"

	"bloghub/internal/models"
	"bloghub/internal/observability"
)

// Event types carried over the wire.
const (
	EventPostPublished = "post_published"
	EventCommentAdded  = "comment_added"
	EventAdminNotice   = "admin_notice"
)

// Event is the envelope every websocket message uses.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Encode serializes the event and records it in the event counter.
func (e Event) Encode() (string, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return "", err
	}
	observability.WebSocketEventsTotal.WithLabelValues(e.Type).Inc()
	return string(b), nil
}

// PostPublishedEvent announces a newly published post to all readers.
func PostPublishedEvent(post *models.Post) Event {
	return Event{
		Type: EventPostPublished,
		Payload: map[string]any{
			"post_id": post.ID,
			"title":   post.Title,
			"slug":    post.Slug,
		},
	}
}

// CommentAddedEvent notifies a post's author about a new comment.
func CommentAddedEvent(comment *models.Comment) Event {
	return Event{
		Type: EventCommentAdded,
		Payload: map[string]any{
			"comment_id": comment.ID,
			"post_id":    comment.PostID,
			"user_id":    comment.UserID,
		},
	}
}

// AdminNoticeEvent carries a moderation or maintenance notice.
func AdminNoticeEvent(message string) Event {
	return Event{
		Type:    EventAdminNotice,
		Payload: map[string]any{"message": message},
	}
}
