package notifications

import (
	"context"
	"fmt"
	"log"
	"runtime/debug"
	"strconv"

	"bloghub/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	userChannelPrefix = "notifications:user:"
	broadcastChannel  = "notifications:broadcast"
)

// Notifier publishes events into Redis channels so that every API
// instance's hub can deliver them to its own websocket clients.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishUser sends a notification payload to a user's channel.
func (n *Notifier) PublishUser(ctx context.Context, userID uint, payload string) error {
	if n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, UserChannel(userID), payload).Err()
}

// PublishBroadcast sends a notification payload to all connected users.
func (n *Notifier) PublishBroadcast(ctx context.Context, payload string) error {
	if n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, broadcastChannel, payload).Err()
}

// PublishPostPublished announces a publication to every connected reader.
func (n *Notifier) PublishPostPublished(ctx context.Context, post *models.Post) error {
	payload, err := PostPublishedEvent(post).Encode()
	if err != nil {
		return fmt.Errorf("encode post published event: %w", err)
	}
	return n.PublishBroadcast(ctx, payload)
}

// PublishCommentAdded notifies the post's author about a new comment.
// Self-comments are not delivered.
func (n *Notifier) PublishCommentAdded(ctx context.Context, authorID uint, comment *models.Comment) error {
	if comment.UserID == authorID {
		return nil
	}
	payload, err := CommentAddedEvent(comment).Encode()
	if err != nil {
		return fmt.Errorf("encode comment added event: %w", err)
	}
	return n.PublishUser(ctx, authorID, payload)
}

// PublishAdminNotice broadcasts a moderation or maintenance notice.
func (n *Notifier) PublishAdminNotice(ctx context.Context, message string) error {
	payload, err := AdminNoticeEvent(message).Encode()
	if err != nil {
		return fmt.Errorf("encode admin notice event: %w", err)
	}
	return n.PublishBroadcast(ctx, payload)
}

// StartPatternSubscriber subscribes to the per-user pattern and the
// broadcast channel and calls onMessage for each incoming message.
func (n *Notifier) StartPatternSubscriber(
	ctx context.Context, onMessage func(channel string, payload string),
) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, userChannelPrefix+"*", broadcastChannel)
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in PatternSubscriber: %v\n%s", r, debug.Stack())
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}

// UserChannel derives the Redis channel name for a user.
func UserChannel(userID uint) string {
	return userChannelPrefix + strconv.FormatUint(uint64(userID), 10)
}
