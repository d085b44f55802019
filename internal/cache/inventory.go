package cache

import (
	"context"
	"fmt"
	"time"
)

// Post detail rows are never cached: every detail read bumps the view
// counter, so a cached row would hand back stale counts.
const (
	UserKeyPrefix     = "user:%d"
	PostListFirstPage = "posts:list:first"
)

const (
	UserTTL     = 5 * time.Minute
	PostListTTL = 30 * time.Second
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

// InvalidatePostList drops the hot first list page, which embeds post
// titles and counters.
func InvalidatePostList(ctx context.Context) {
	Invalidate(ctx, PostListFirstPage)
}
