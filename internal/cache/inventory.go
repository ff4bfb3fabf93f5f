package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix      = "user:%d"
	PostKeyPrefix      = "post:%d"
	PostsListKey       = "posts:list"
	CategoryTreeKey    = "categories:tree"
	PageKeyPrefix      = "page:%s"
	DraftSlotKeyPrefix = "compose:draft:%s"
)

const (
	UserTTL         = 5 * time.Minute
	PostTTL         = 30 * time.Minute
	ListTTL         = 1 * time.Minute
	CategoryTreeTTL = 10 * time.Minute
	PageTTL         = 10 * time.Minute
	// DraftSlotTTL bounds how long an unconsumed draft snapshot survives;
	// normal consumption deletes it on the next compose-form mount.
	DraftSlotTTL = 30 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func PageKey(slug string) string {
	return fmt.Sprintf(PageKeyPrefix, slug)
}

func DraftSlotKey(sessionKey string) string {
	return fmt.Sprintf(DraftSlotKeyPrefix, sessionKey)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePostsList(ctx context.Context) {
	Invalidate(ctx, PostsListKey)
}

func InvalidateCategoryTree(ctx context.Context) {
	Invalidate(ctx, CategoryTreeKey)
}

func InvalidatePage(ctx context.Context, slug string) {
	Invalidate(ctx, PageKey(slug))
}
