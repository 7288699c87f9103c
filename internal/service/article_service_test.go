package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ze-news/internal/constants"
	"github.com/ze-news/internal/models"
	"github.com/ze-news/internal/repository"
)

type fakeLatestCache struct {
	items       map[[2]int][]models.Article
	reads       int
	invalidated int
}

func newFakeLatestCache() *fakeLatestCache {
	return &fakeLatestCache{items: map[[2]int][]models.Article{}}
}

func (c *fakeLatestCache) GetLatest(_ context.Context, limit, offset int) ([]models.Article, bool, error) {
	c.reads++
	items, ok := c.items[[2]int{limit, offset}]
	return items, ok, nil
}

func (c *fakeLatestCache) SetLatest(_ context.Context, limit, offset int, articles []models.Article) error {
	c.items[[2]int{limit, offset}] = articles
	return nil
}

func (c *fakeLatestCache) Invalidate(context.Context) error {
	c.invalidated++
	c.items = map[[2]int][]models.Article{}
	return nil
}

type steppingClock struct {
	t time.Time
}

func (c *steppingClock) Now() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

func setupArticleService(t *testing.T) (*ArticleService, *fakeLatestCache, *steppingClock) {
	t.Helper()
	db := setupServiceTestDB(t)
	categories := repository.NewCategoryRepository(db)
	for _, slug := range []string{"politics", "world"} {
		if err := categories.Create(&models.Category{Name: slug, Slug: slug}); err != nil {
			t.Fatalf("create category failed: %v", err)
		}
	}
	cache := newFakeLatestCache()
	svc := NewArticleService(repository.NewArticleRepository(db), categories, cache, nopLogger())
	clock := &steppingClock{t: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)}
	svc.now = clock.Now
	return svc, cache, clock
}

func strPtr(s string) *string { return &s }

func TestComputePublishedAt(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	existing := now.Add(-24 * time.Hour)
	supplied := now.Add(-48 * time.Hour)
	published := constants.ArticleStatusPublished
	draft := constants.ArticleStatusDraft
	archived := constants.ArticleStatusArchived

	cases := []struct {
		name    string
		current string
		stored  *time.Time
		patch   ArticlePatch
		want    *time.Time
	}{
		{"draft to published sets now", draft, nil, ArticlePatch{Status: &published}, &now},
		{"published to draft clears", published, &existing, ArticlePatch{Status: &draft}, nil},
		{"published to published keeps", published, &existing, ArticlePatch{Status: &published, PublishedAt: SetTime(supplied)}, &existing},
		{"archived to published sets now", archived, nil, ArticlePatch{Status: &published}, &now},
		{"other combination passes patch through", published, &existing, ArticlePatch{Status: &archived, PublishedAt: SetTime(supplied)}, &supplied},
		{"explicit null passes through", published, &existing, ArticlePatch{PublishedAt: ClearTime()}, nil},
		{"absent keeps stored", published, &existing, ArticlePatch{}, &existing},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := computePublishedAt(tc.current, tc.stored, tc.patch, now)
			switch {
			case tc.want == nil && got != nil:
				t.Fatalf("expected nil, got %v", got)
			case tc.want != nil && (got == nil || !got.Equal(*tc.want)):
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestPublishTwiceKeepsPublishedAt(t *testing.T) {
	svc, _, _ := setupArticleService(t)
	ctx := context.Background()
	article, err := svc.Create(ctx, CreateArticleInput{Title: "Election night", Content: "<p>x</p>", Categories: []string{"politics"}})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if article.PublishedAt != nil {
		t.Fatalf("draft should not have published_at")
	}

	published := constants.ArticleStatusPublished
	first, err := svc.Update(ctx, article.ID, ArticlePatch{Status: &published})
	if err != nil {
		t.Fatalf("first publish failed: %v", err)
	}
	if first.PublishedAt == nil {
		t.Fatalf("expected published_at after publish")
	}
	firstAt := *first.PublishedAt

	second, err := svc.Update(ctx, article.ID, ArticlePatch{Status: &published, Title: strPtr("Election night (updated)")})
	if err != nil {
		t.Fatalf("second publish failed: %v", err)
	}
	if second.PublishedAt == nil || !second.PublishedAt.Equal(firstAt) {
		t.Fatalf("re-publish must keep published_at: first=%v second=%v", firstAt, second.PublishedAt)
	}
}

func TestUnpublishThenRepublish(t *testing.T) {
	svc, _, _ := setupArticleService(t)
	ctx := context.Background()
	article, err := svc.Create(ctx, CreateArticleInput{
		Title:      "Budget",
		Status:     constants.ArticleStatusPublished,
		Categories: []string{"politics"},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if article.PublishedAt == nil {
		t.Fatalf("published article needs published_at")
	}
	original := *article.PublishedAt

	draft := constants.ArticleStatusDraft
	unpublished, err := svc.Update(ctx, article.ID, ArticlePatch{Status: &draft})
	if err != nil {
		t.Fatalf("unpublish failed: %v", err)
	}
	if unpublished.PublishedAt != nil {
		t.Fatalf("unpublish must clear published_at, got %v", unpublished.PublishedAt)
	}

	published := constants.ArticleStatusPublished
	republished, err := svc.Update(ctx, article.ID, ArticlePatch{Status: &published})
	if err != nil {
		t.Fatalf("republish failed: %v", err)
	}
	if republished.PublishedAt == nil || !republished.PublishedAt.After(original) {
		t.Fatalf("republish must set a new published_at, original=%v got=%v", original, republished.PublishedAt)
	}
}

func TestDraftCannotCarryPublishedAt(t *testing.T) {
	svc, _, _ := setupArticleService(t)
	ctx := context.Background()
	article, err := svc.Create(ctx, CreateArticleInput{Title: "Draft"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	updated, err := svc.Update(ctx, article.ID, ArticlePatch{PublishedAt: SetTime(time.Now())})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.PublishedAt != nil {
		t.Fatalf("draft must not have published_at")
	}
}

func TestCreateSlugRules(t *testing.T) {
	svc, _, _ := setupArticleService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateArticleInput{Title: "Hello, World!"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if first.Slug != "hello-world" {
		t.Fatalf("unexpected slug: %s", first.Slug)
	}

	second, err := svc.Create(ctx, CreateArticleInput{Title: "Hello World"})
	if err != nil {
		t.Fatalf("create with generated conflict failed: %v", err)
	}
	if second.Slug != "hello-world-2" {
		t.Fatalf("generated conflict should get numeric suffix, got %s", second.Slug)
	}

	if _, err := svc.Create(ctx, CreateArticleInput{Title: "Other", Slug: "hello-world"}); !errors.Is(err, ErrSlugExists) {
		t.Fatalf("explicit conflicting slug should fail with ErrSlugExists, got %v", err)
	}

	cjk, err := svc.Create(ctx, CreateArticleInput{Title: "选举结果"})
	if err != nil {
		t.Fatalf("create cjk failed: %v", err)
	}
	if !strings.HasPrefix(cjk.Slug, "article-") {
		t.Fatalf("empty generated slug should fall back, got %s", cjk.Slug)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _, _ := setupArticleService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateArticleInput{Title: "  "}); !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}
	if _, err := svc.Create(ctx, CreateArticleInput{Title: "x", Status: "live"}); !errors.Is(err, ErrInvalidArticleStatus) {
		t.Fatalf("expected ErrInvalidArticleStatus, got %v", err)
	}
	if _, err := svc.Create(ctx, CreateArticleInput{Title: "x", Status: constants.ArticleStatusPublished}); !errors.Is(err, ErrCategoriesRequired) {
		t.Fatalf("expected ErrCategoriesRequired, got %v", err)
	}
	_, err := svc.Create(ctx, CreateArticleInput{Title: "x", Categories: []string{"sport"}})
	if !errors.Is(err, ErrUnknownCategory) || !errors.Is(err, ErrValidation) {
		t.Fatalf("expected unknown category validation error, got %v", err)
	}
	if _, err := svc.Create(ctx, CreateArticleInput{Title: "x", MediaURL: strPtr("http://m"), MediaType: strPtr("audio")}); !errors.Is(err, ErrInvalidMediaType) {
		t.Fatalf("expected ErrInvalidMediaType, got %v", err)
	}
}

func TestCreateRendersMarkdownAndExcerpt(t *testing.T) {
	svc, _, _ := setupArticleService(t)
	article, err := svc.Create(context.Background(), CreateArticleInput{
		Title:         "Markdown",
		Content:       "# Heading\n\nBody *text*",
		ContentFormat: constants.ContentFormatMarkdown,
		Categories:    []string{" Politics ", "politics", "world"},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !strings.Contains(article.Content, "<h1>Heading</h1>") {
		t.Fatalf("markdown not rendered: %s", article.Content)
	}
	if article.Excerpt != "Heading Body text" {
		t.Fatalf("unexpected excerpt: %q", article.Excerpt)
	}
	if len(article.Categories) != 2 || article.Categories[0] != "politics" {
		t.Fatalf("categories should be normalized and deduplicated: %v", article.Categories)
	}
}

func TestUpdateRefreshesGeneratedExcerpt(t *testing.T) {
	svc, _, _ := setupArticleService(t)
	ctx := context.Background()
	article, err := svc.Create(ctx, CreateArticleInput{Title: "x", Content: "<p>old body</p>"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	updated, err := svc.Update(ctx, article.ID, ArticlePatch{Content: strPtr("<p>new body</p>")})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Excerpt != "new body" {
		t.Fatalf("generated excerpt should follow content, got %q", updated.Excerpt)
	}

	custom, err := svc.Update(ctx, article.ID, ArticlePatch{Excerpt: strPtr("hand written")})
	if err != nil {
		t.Fatalf("update excerpt failed: %v", err)
	}
	again, err := svc.Update(ctx, custom.ID, ArticlePatch{Content: strPtr("<p>newest</p>")})
	if err != nil {
		t.Fatalf("update content failed: %v", err)
	}
	if again.Excerpt != "hand written" {
		t.Fatalf("custom excerpt must be kept, got %q", again.Excerpt)
	}
}

func TestDuplicateArticle(t *testing.T) {
	svc, _, _ := setupArticleService(t)
	ctx := context.Background()
	source, err := svc.Create(ctx, CreateArticleInput{
		Title:      "Original",
		Status:     constants.ArticleStatusPublished,
		Categories: []string{"world"},
		MediaURL:   strPtr("http://cdn/a.png"),
		MediaType:  strPtr(constants.MediaTypeImage),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	clone, err := svc.Duplicate(ctx, source.ID)
	if err != nil {
		t.Fatalf("duplicate failed: %v", err)
	}
	if clone.ID == source.ID || clone.ID == "" {
		t.Fatalf("clone must get a new id")
	}
	if clone.Status != constants.ArticleStatusDraft || clone.PublishedAt != nil {
		t.Fatalf("clone must be an unpublished draft: %+v", clone)
	}
	if !strings.HasPrefix(clone.Slug, "original-copy-") {
		t.Fatalf("unexpected clone slug: %s", clone.Slug)
	}
	if clone.Title != source.Title || clone.MediaURL == nil || *clone.MediaURL != *source.MediaURL {
		t.Fatalf("clone must copy fields: %+v", clone)
	}

	if _, err := svc.Duplicate(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestArchiveClearsPublishedAt(t *testing.T) {
	svc, _, _ := setupArticleService(t)
	ctx := context.Background()
	article, err := svc.Create(ctx, CreateArticleInput{Title: "Gone", Status: constants.ArticleStatusPublished, Categories: []string{"world"}})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	archived, err := svc.Archive(ctx, article.ID)
	if err != nil {
		t.Fatalf("archive failed: %v", err)
	}
	if archived.Status != constants.ArticleStatusArchived || archived.PublishedAt != nil {
		t.Fatalf("unexpected archived article: %+v", archived)
	}
	if _, err := svc.Get(article.ID, false); !errors.Is(err, ErrArticleNotFound) {
		t.Fatalf("archived article must be hidden from public, got %v", err)
	}
	if _, err := svc.Get(article.ID, true); err != nil {
		t.Fatalf("privileged caller should still see archived article: %v", err)
	}
}

func TestLatestUsesCache(t *testing.T) {
	svc, cache, _ := setupArticleService(t)
	ctx := context.Background()
	if _, err := svc.Create(ctx, CreateArticleInput{Title: "One", Status: constants.ArticleStatusPublished, Categories: []string{"world"}}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	items, err := svc.Latest(ctx, 0, -5)
	if err != nil {
		t.Fatalf("latest failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected one article, got %d", len(items))
	}
	if _, ok := cache.items[[2]int{constants.LatestLimit, 0}]; !ok {
		t.Fatalf("expected normalized window to be cached")
	}

	invalidatedBefore := cache.invalidated
	if _, err := svc.Create(ctx, CreateArticleInput{Title: "Two"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if cache.invalidated != invalidatedBefore+1 {
		t.Fatalf("writes must invalidate the latest cache")
	}
}

func TestListHidesDraftsFromPublic(t *testing.T) {
	svc, _, _ := setupArticleService(t)
	ctx := context.Background()
	if _, err := svc.Create(ctx, CreateArticleInput{Title: "Draft"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Create(ctx, CreateArticleInput{Title: "Live", Status: constants.ArticleStatusPublished, Categories: []string{"world"}}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	public, total, err := svc.List(ArticleQuery{Status: constants.ArticleStatusDraft})
	if err != nil {
		t.Fatalf("public list failed: %v", err)
	}
	if total != 1 || public[0].Status != constants.ArticleStatusPublished {
		t.Fatalf("public list must only contain published articles: %+v", public)
	}

	drafts, total, err := svc.List(ArticleQuery{Status: constants.ArticleStatusDraft, Privileged: true})
	if err != nil {
		t.Fatalf("privileged list failed: %v", err)
	}
	if total != 1 || drafts[0].Status != constants.ArticleStatusDraft {
		t.Fatalf("privileged status filter failed: %+v", drafts)
	}
	if _, _, err := svc.List(ArticleQuery{Status: "bogus", Privileged: true}); !errors.Is(err, ErrInvalidArticleStatus) {
		t.Fatalf("expected invalid status error, got %v", err)
	}
}

// staleSlugCounter 模拟并发请求：slug 检查时尚未看到对方写入
type staleSlugCounter struct {
	repository.ArticleRepository
}

func (staleSlugCounter) CountBySlug(string, *string) (int64, error) {
	return 0, nil
}

func TestCreateWithTakenSlugRacesToConflict(t *testing.T) {
	db := setupServiceTestDB(t)
	categories := repository.NewCategoryRepository(db)
	articles := repository.NewArticleRepository(db)
	svc := NewArticleService(staleSlugCounter{articles}, categories, newFakeLatestCache(), nopLogger())
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateArticleInput{Title: "First", Slug: "breaking"}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	_, err := svc.Create(ctx, CreateArticleInput{Title: "Second", Slug: "breaking"})
	if !errors.Is(err, ErrSlugExists) {
		t.Fatalf("expected ErrSlugExists from unique index, got %v", err)
	}
}
