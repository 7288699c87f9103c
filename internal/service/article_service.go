package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ze-news/internal/constants"
	"github.com/ze-news/internal/logger"
	"github.com/ze-news/internal/models"
	"github.com/ze-news/internal/repository"

	"go.uber.org/zap"
)

// LatestArticleCache 最新文章流缓存
type LatestArticleCache interface {
	GetLatest(ctx context.Context, limit, offset int) ([]models.Article, bool, error)
	SetLatest(ctx context.Context, limit, offset int, articles []models.Article) error
	Invalidate(ctx context.Context) error
}

// ArticleService 文章业务服务
type ArticleService struct {
	repo       repository.ArticleRepository
	categories repository.CategoryRepository
	cache      LatestArticleCache
	log        *zap.SugaredLogger
	now        func() time.Time
}

// NewArticleService 创建文章服务，cache 可为空
func NewArticleService(repo repository.ArticleRepository, categories repository.CategoryRepository, cache LatestArticleCache, log *zap.SugaredLogger) *ArticleService {
	if log == nil {
		log = logger.Component("article")
	}
	return &ArticleService{
		repo:       repo,
		categories: categories,
		cache:      cache,
		log:        log,
		now:        time.Now,
	}
}

// CreateArticleInput 创建文章输入
type CreateArticleInput struct {
	Title         string
	Content       string
	ContentFormat string
	Excerpt       string
	Slug          string
	Categories    []string
	MediaURL      *string
	MediaType     *string
	Status        string
	Featured      bool
	AuthorID      string
}

// ArticlePatch 文章部分更新，nil 表示不修改
type ArticlePatch struct {
	Title         *string
	Content       *string
	ContentFormat string
	Excerpt       *string
	Slug          *string
	Categories    *[]string
	MediaURL      NullableString
	MediaType     NullableString
	Status        *string
	Featured      *bool
	PublishedAt   TimePatch
}

// ArticleQuery 列表查询参数
type ArticleQuery struct {
	Page     int
	PageSize int
	Status   string
	Category string
	Search   string
	Featured *bool
	// Privileged 为 false 时只返回已发布文章，忽略 Status
	Privileged bool
}

// List 文章列表
func (s *ArticleService) List(q ArticleQuery) ([]models.Article, int64, error) {
	filter := repository.ArticleListFilter{
		Page:     q.Page,
		PageSize: q.PageSize,
		Category: q.Category,
		Search:   q.Search,
		Featured: q.Featured,
	}
	if q.Privileged {
		if q.Status != "" && !isArticleStatus(q.Status) {
			return nil, 0, ErrInvalidArticleStatus
		}
		filter.Status = q.Status
	} else {
		filter.OnlyPublished = true
		filter.OrderBy = "published_at DESC, created_at DESC"
	}
	items, total, err := s.repo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list articles: %w", err)
	}
	return items, total, nil
}

// Latest 最新发布文章，优先读缓存
func (s *ArticleService) Latest(ctx context.Context, limit, offset int) ([]models.Article, error) {
	limit, offset = normalizeLatestWindow(limit, offset)
	if s.cache != nil {
		if cached, ok, err := s.cache.GetLatest(ctx, limit, offset); err != nil {
			s.log.Warnw("latest_articles_cache_read_failed", "error", err)
		} else if ok {
			return cached, nil
		}
	}

	items, err := s.repo.Latest(limit, offset)
	if err != nil {
		return nil, fmt.Errorf("latest articles: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.SetLatest(ctx, limit, offset, items); err != nil {
			s.log.Warnw("latest_articles_cache_write_failed", "error", err)
		}
	}
	return items, nil
}

// Get 获取文章；非特权调用方只能看到已发布文章
func (s *ArticleService) Get(id string, privileged bool) (*models.Article, error) {
	article, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if !privileged && article.Status != constants.ArticleStatusPublished {
		return nil, ErrArticleNotFound
	}
	return article, nil
}

// GetBySlug 根据 slug 获取文章
func (s *ArticleService) GetBySlug(slug string, privileged bool) (*models.Article, error) {
	article, err := s.repo.GetBySlug(strings.TrimSpace(slug), !privileged)
	if err != nil {
		return nil, fmt.Errorf("get article by slug: %w", err)
	}
	if article == nil {
		return nil, ErrArticleNotFound
	}
	return article, nil
}

// Create 创建文章
func (s *ArticleService) Create(ctx context.Context, input CreateArticleInput) (*models.Article, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = constants.ArticleStatusDraft
	}
	if status != constants.ArticleStatusDraft && status != constants.ArticleStatusPublished {
		return nil, ErrInvalidArticleStatus
	}
	content, err := renderContent(input.Content, input.ContentFormat)
	if err != nil {
		return nil, err
	}
	categories, err := s.normalizeCategories(input.Categories)
	if err != nil {
		return nil, err
	}
	if status == constants.ArticleStatusPublished && len(categories) == 0 {
		return nil, ErrCategoriesRequired
	}
	mediaURL, mediaType, err := normalizeMedia(input.MediaURL, input.MediaType)
	if err != nil {
		return nil, err
	}
	slug, err := s.resolveNewSlug(input.Slug, title)
	if err != nil {
		return nil, err
	}
	excerpt := strings.TrimSpace(input.Excerpt)
	if excerpt == "" {
		excerpt = GenerateExcerpt(content, DefaultExcerptLength)
	}

	article := &models.Article{
		Title:      title,
		Content:    content,
		Excerpt:    excerpt,
		Slug:       slug,
		Categories: categories,
		MediaURL:   mediaURL,
		MediaType:  mediaType,
		Status:     status,
		Featured:   input.Featured,
		AuthorID:   input.AuthorID,
	}
	if status == constants.ArticleStatusPublished {
		now := s.now()
		article.PublishedAt = &now
	}
	if err := s.repo.Create(article); err != nil {
		return nil, saveError("create article", err)
	}
	s.log.Infow("article_created", "article_id", article.ID, "slug", article.Slug, "status", article.Status)
	s.invalidateLatest(ctx)
	return article, nil
}

// Update 更新文章并按状态迁移规则计算 published_at
func (s *ArticleService) Update(ctx context.Context, id string, patch ArticlePatch) (*models.Article, error) {
	article, err := s.load(id)
	if err != nil {
		return nil, err
	}
	previousStatus := article.Status
	previousContent := article.Content

	if patch.Status != nil && !isArticleStatus(*patch.Status) {
		return nil, ErrInvalidArticleStatus
	}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		article.Title = title
	}
	if patch.Content != nil {
		content, err := renderContent(*patch.Content, patch.ContentFormat)
		if err != nil {
			return nil, err
		}
		article.Content = content
	}
	if patch.Excerpt != nil {
		article.Excerpt = strings.TrimSpace(*patch.Excerpt)
	}
	if patch.Excerpt == nil && patch.Content != nil && article.Excerpt == GenerateExcerpt(previousContent, DefaultExcerptLength) {
		// 摘要是自动生成的，跟随正文刷新
		article.Excerpt = ""
	}
	if article.Excerpt == "" {
		article.Excerpt = GenerateExcerpt(article.Content, DefaultExcerptLength)
	}
	if patch.Slug != nil {
		slug, err := s.resolveUpdatedSlug(*patch.Slug, article)
		if err != nil {
			return nil, err
		}
		article.Slug = slug
	}
	if patch.Categories != nil {
		categories, err := s.normalizeCategories(*patch.Categories)
		if err != nil {
			return nil, err
		}
		article.Categories = categories
	}
	if patch.MediaURL.Present || patch.MediaType.Present {
		mediaURL, mediaType := article.MediaURL, article.MediaType
		if patch.MediaURL.Present {
			mediaURL = patch.MediaURL.Value
		}
		if patch.MediaType.Present {
			mediaType = patch.MediaType.Value
		}
		mediaURL, mediaType, err = normalizeMedia(mediaURL, mediaType)
		if err != nil {
			return nil, err
		}
		article.MediaURL, article.MediaType = mediaURL, mediaType
	}
	if patch.Featured != nil {
		article.Featured = *patch.Featured
	}
	if patch.Status != nil {
		article.Status = *patch.Status
	}
	if article.Status == constants.ArticleStatusPublished && len(article.Categories) == 0 {
		return nil, ErrCategoriesRequired
	}

	article.PublishedAt = enforcePublishedInvariant(
		article.Status,
		article.PublishedAt,
		computePublishedAt(previousStatus, article.PublishedAt, patch, s.now()),
		s.now,
	)

	if err := s.repo.Update(article); err != nil {
		return nil, saveError("update article", err)
	}
	if previousStatus != article.Status {
		s.log.Infow("article_status_changed",
			"article_id", article.ID,
			"from", previousStatus,
			"to", article.Status,
		)
	}
	s.invalidateLatest(ctx)
	return article, nil
}

// Archive 删除策略：软删除为 archived，并清空 published_at
func (s *ArticleService) Archive(ctx context.Context, id string) (*models.Article, error) {
	status := constants.ArticleStatusArchived
	return s.Update(ctx, id, ArticlePatch{Status: &status, PublishedAt: ClearTime()})
}

// Duplicate 复制文章为新的草稿
func (s *ArticleService) Duplicate(ctx context.Context, id string) (*models.Article, error) {
	source, err := s.load(id)
	if err != nil {
		return nil, err
	}

	base := fmt.Sprintf("%s-copy-%d", source.Slug, s.now().UnixMilli())
	slug, err := s.uniqueSlug(base)
	if err != nil {
		return nil, err
	}
	categories := make(models.StringArray, len(source.Categories))
	copy(categories, source.Categories)

	clone := &models.Article{
		Title:      source.Title,
		Content:    source.Content,
		Excerpt:    source.Excerpt,
		Slug:       slug,
		Categories: categories,
		MediaURL:   cloneString(source.MediaURL),
		MediaType:  cloneString(source.MediaType),
		Status:     constants.ArticleStatusDraft,
		Featured:   source.Featured,
		AuthorID:   source.AuthorID,
	}
	if err := s.repo.Create(clone); err != nil {
		return nil, saveError("duplicate article", err)
	}
	s.log.Infow("article_duplicated", "source_id", source.ID, "article_id", clone.ID, "slug", clone.Slug)
	s.invalidateLatest(ctx)
	return clone, nil
}

// computePublishedAt 状态迁移规则：
//   - 草稿/归档 -> published：now
//   - published -> draft：nil
//   - published -> published：保持原值
//   - 其它：补丁中的 published_at 原样透传，未提供则保持原值
func computePublishedAt(currentStatus string, current *time.Time, patch ArticlePatch, now time.Time) *time.Time {
	if patch.Status != nil {
		next := *patch.Status
		switch {
		case next == constants.ArticleStatusPublished && currentStatus != constants.ArticleStatusPublished:
			return &now
		case next == constants.ArticleStatusDraft && currentStatus == constants.ArticleStatusPublished:
			return nil
		case next == constants.ArticleStatusPublished && currentStatus == constants.ArticleStatusPublished:
			return current
		}
	}
	if patch.PublishedAt.Present {
		return patch.PublishedAt.Time
	}
	return current
}

// enforcePublishedInvariant published_at 非空当且仅当状态为 published
func enforcePublishedInvariant(status string, previous, computed *time.Time, now func() time.Time) *time.Time {
	if status != constants.ArticleStatusPublished {
		return nil
	}
	if computed != nil {
		return computed
	}
	if previous != nil {
		return previous
	}
	t := now()
	return &t
}

func (s *ArticleService) load(id string) (*models.Article, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrArticleNotFound
	}
	article, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	if article == nil {
		return nil, ErrArticleNotFound
	}
	return article, nil
}

func (s *ArticleService) resolveNewSlug(explicit, title string) (string, error) {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		slug := GenerateSlug(explicit)
		if slug == "" {
			return "", ErrValidation
		}
		count, err := s.repo.CountBySlug(slug, nil)
		if err != nil {
			return "", fmt.Errorf("check slug: %w", err)
		}
		if count > 0 {
			return "", ErrSlugExists
		}
		return slug, nil
	}
	base := GenerateSlug(title)
	if base == "" {
		base = fmt.Sprintf("article-%d", s.now().UnixMilli())
	}
	return s.uniqueSlug(base)
}

func (s *ArticleService) resolveUpdatedSlug(raw string, article *models.Article) (string, error) {
	slug := GenerateSlug(raw)
	if strings.TrimSpace(raw) == "" {
		slug = GenerateSlug(article.Title)
	}
	if slug == "" {
		return "", ErrValidation
	}
	if slug == article.Slug {
		return slug, nil
	}
	id := article.ID
	count, err := s.repo.CountBySlug(slug, &id)
	if err != nil {
		return "", fmt.Errorf("check slug: %w", err)
	}
	if count > 0 {
		return "", ErrSlugExists
	}
	return slug, nil
}

// uniqueSlug 生成的 slug 冲突时追加数字后缀
func (s *ArticleService) uniqueSlug(base string) (string, error) {
	candidate := base
	for i := 2; i < 1000; i++ {
		count, err := s.repo.CountBySlug(candidate, nil)
		if err != nil {
			return "", fmt.Errorf("check slug: %w", err)
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return "", ErrSlugExists
}

func (s *ArticleService) normalizeCategories(raw []string) (models.StringArray, error) {
	seen := make(map[string]struct{}, len(raw))
	out := make(models.StringArray, 0, len(raw))
	for _, item := range raw {
		slug := strings.ToLower(strings.TrimSpace(item))
		if slug == "" {
			continue
		}
		if _, ok := seen[slug]; ok {
			continue
		}
		seen[slug] = struct{}{}
		out = append(out, slug)
	}
	if len(out) == 0 || s.categories == nil {
		return out, nil
	}
	existing, err := s.categories.FindExistingSlugs(out)
	if err != nil {
		return nil, fmt.Errorf("check categories: %w", err)
	}
	known := make(map[string]struct{}, len(existing))
	for _, slug := range existing {
		known[slug] = struct{}{}
	}
	for _, slug := range out {
		if _, ok := known[slug]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, slug)
		}
	}
	return out, nil
}

func (s *ArticleService) invalidateLatest(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warnw("latest_articles_cache_invalidate_failed", "error", err)
	}
}

func renderContent(content, format string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", constants.ContentFormatHTML:
		return content, nil
	case constants.ContentFormatMarkdown:
		html, err := RenderMarkdown(content)
		if err != nil {
			return "", fmt.Errorf("render markdown: %w", err)
		}
		return html, nil
	default:
		return "", ErrInvalidContentFormat
	}
}

func normalizeMedia(mediaURL, mediaType *string) (*string, *string, error) {
	url := trimmedOrNil(mediaURL)
	kind := trimmedOrNil(mediaType)
	if kind != nil && *kind != constants.MediaTypeImage && *kind != constants.MediaTypeVideo {
		return nil, nil, ErrInvalidMediaType
	}
	if url == nil {
		return nil, nil, nil
	}
	return url, kind, nil
}

func normalizeLatestWindow(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = constants.LatestLimit
	}
	if limit > constants.MaxLatestLimit {
		limit = constants.MaxLatestLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func isArticleStatus(status string) bool {
	switch status {
	case constants.ArticleStatusDraft, constants.ArticleStatusPublished, constants.ArticleStatusArchived:
		return true
	default:
		return false
	}
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}
