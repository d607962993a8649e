package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix      = "user:%d"
	PostKeyPrefix      = "post:%d"
	UserPostsKeyPrefix = "user:%d:posts"
	BirdsKey           = "birds:catalog"
	FeedKey            = "feed:public"
)

const (
	UserTTL  = 5 * time.Minute
	PostTTL  = 2 * time.Minute
	FeedTTL  = 30 * time.Second
	BirdsTTL = 30 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func UserPostsKey(userID uint) string {
	return fmt.Sprintf(UserPostsKeyPrefix, userID)
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID), UserPostsKey(userID))
}

// InvalidatePost drops the post entry plus the public feed, which embeds it.
func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
	Invalidate(ctx, FeedKey)
}

func InvalidateBirds(ctx context.Context) {
	Invalidate(ctx, BirdsKey)
}
