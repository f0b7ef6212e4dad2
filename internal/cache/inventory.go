package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix       = "user:%d"
	TipKeyPrefix        = "tip:%d"
	TipDetailsKeyPrefix = "tip:%d:details"
	tipsListVersionKey  = "tips:list:ver"
	tipsListKeyPrefix   = "tips:list:v%d:p%d:l%d:valid=%t"
	CategoriesAllKey    = "categories:all"
	TermsAllKey         = "terms:all"
)

const (
	UserTTL       = 5 * time.Minute
	TipTTL        = 30 * time.Minute
	ListTTL       = 2 * time.Minute
	CategoriesTTL = 10 * time.Minute
	TermsTTL      = 10 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func TipKey(tipID uint) string {
	return fmt.Sprintf(TipKeyPrefix, tipID)
}

func TipDetailsKey(tipID uint) string {
	return fmt.Sprintf(TipDetailsKeyPrefix, tipID)
}

// TipsListKey builds a versioned key for a page of the tips listing.
// Bumping the version on writes invalidates every cached page at once.
func TipsListKey(ctx context.Context, page, limit int, validOnly bool) string {
	return fmt.Sprintf(tipsListKeyPrefix, tipsListVersion(ctx), page, limit, validOnly)
}

func tipsListVersion(ctx context.Context) int64 {
	if client == nil {
		return 0
	}
	v, err := client.Get(ctx, tipsListVersionKey).Int64()
	if err != nil {
		return 0
	}
	return v
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateTip(ctx context.Context, tipID uint) {
	Invalidate(ctx, TipKey(tipID))
	Invalidate(ctx, TipDetailsKey(tipID))
}

func InvalidateTipsList(ctx context.Context) {
	if client != nil {
		client.Incr(ctx, tipsListVersionKey)
	}
}

func InvalidateCategories(ctx context.Context) {
	Invalidate(ctx, CategoriesAllKey)
}

func InvalidateTerms(ctx context.Context) {
	Invalidate(ctx, TermsAllKey)
}
