package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/ze-news/internal/models"
)

const (
	latestGenerationKey = "articles:latest:gen"
	latestArticlesTTL   = 2 * time.Minute
)

// LatestArticles 最新文章流缓存
// 失效时递增代数，旧代数的键随 TTL 自然过期。
type LatestArticles struct {
	store *Store
	ttl   time.Duration
}

// NewLatestArticles 创建最新文章流缓存
func NewLatestArticles(store *Store) *LatestArticles {
	return &LatestArticles{store: store, ttl: latestArticlesTTL}
}

// GetLatest 读取缓存
func (c *LatestArticles) GetLatest(ctx context.Context, limit, offset int) ([]models.Article, bool, error) {
	if !c.store.Enabled() {
		return nil, false, nil
	}
	key, err := c.pageKey(ctx, limit, offset)
	if err != nil {
		return nil, false, err
	}
	var articles []models.Article
	hit, err := c.store.GetJSON(ctx, key, &articles)
	if err != nil || !hit {
		return nil, false, err
	}
	return articles, true, nil
}

// SetLatest 写入缓存
func (c *LatestArticles) SetLatest(ctx context.Context, limit, offset int, articles []models.Article) error {
	if !c.store.Enabled() {
		return nil
	}
	key, err := c.pageKey(ctx, limit, offset)
	if err != nil {
		return err
	}
	return c.store.SetJSON(ctx, key, articles, c.ttl)
}

// Invalidate 使全部分页失效
func (c *LatestArticles) Invalidate(ctx context.Context) error {
	_, err := c.store.Incr(ctx, latestGenerationKey)
	return err
}

func (c *LatestArticles) pageKey(ctx context.Context, limit, offset int) (string, error) {
	gen, err := c.store.GetInt64(ctx, latestGenerationKey)
	if err != nil {
		return "", err
	}
	return latestPageKey(gen, limit, offset), nil
}

func latestPageKey(gen int64, limit, offset int) string {
	return fmt.Sprintf("articles:latest:v%d:%d:%d", gen, limit, offset)
}
