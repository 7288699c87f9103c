package admin

import (
	handlershared "github.com/ze-news/internal/http/handlers/shared"
	"github.com/ze-news/internal/http/response"
	"github.com/ze-news/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateArticleRequest 创建文章请求
type CreateArticleRequest struct {
	Title         string   `json:"title" binding:"required"`
	Content       string   `json:"content"`
	ContentFormat string   `json:"content_format"`
	Excerpt       string   `json:"excerpt"`
	Slug          string   `json:"slug"`
	Categories    []string `json:"categories"`
	MediaURL      *string  `json:"media_url"`
	MediaType     *string  `json:"media_type"`
	Status        string   `json:"status"`
	Featured      bool     `json:"featured"`
}

// ArticlePatchRequest 更新文章请求，缺省字段保持不变
type ArticlePatchRequest struct {
	Title         *string                `json:"title"`
	Content       *string                `json:"content"`
	ContentFormat string                 `json:"content_format"`
	Excerpt       *string                `json:"excerpt"`
	Slug          *string                `json:"slug"`
	Categories    *[]string              `json:"categories"`
	MediaURL      service.NullableString `json:"media_url"`
	MediaType     service.NullableString `json:"media_type"`
	Status        *string                `json:"status"`
	Featured      *bool                  `json:"featured"`
	PublishedAt   service.TimePatch      `json:"published_at"`
}

func (r ArticlePatchRequest) toPatch() service.ArticlePatch {
	return service.ArticlePatch{
		Title:         r.Title,
		Content:       r.Content,
		ContentFormat: r.ContentFormat,
		Excerpt:       r.Excerpt,
		Slug:          r.Slug,
		Categories:    r.Categories,
		MediaURL:      r.MediaURL,
		MediaType:     r.MediaType,
		Status:        r.Status,
		Featured:      r.Featured,
		PublishedAt:   r.PublishedAt,
	}
}

var articleWriteErrorRules = []handlershared.MappedError{
	{Target: service.ErrArticleNotFound, Code: response.CodeNotFound, Key: "error.article_not_found"},
	{Target: service.ErrSlugExists, Code: response.CodeConflict, Key: "error.slug_exists"},
	{Target: service.ErrInvalidArticleStatus, Code: response.CodeBadRequest, Key: "error.article_status_invalid"},
	{Target: service.ErrInvalidMediaType, Code: response.CodeBadRequest, Key: "error.media_type_invalid"},
	{Target: service.ErrTitleRequired, Code: response.CodeBadRequest, Key: "error.title_required"},
	{Target: service.ErrCategoriesRequired, Code: response.CodeBadRequest, Key: "error.article_categories_required"},
	{Target: service.ErrUnknownCategory, Code: response.CodeBadRequest, Key: "error.category_unknown"},
	{Target: service.ErrInvalidContentFormat, Code: response.CodeBadRequest, Key: "error.content_format_invalid"},
}

// CreateArticle 创建文章
func (h *Handler) CreateArticle(c *gin.Context) {
	identity, ok := requirePrivileged(c)
	if !ok {
		return
	}
	var req CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	article, err := h.ArticleService.Create(c.Request.Context(), service.CreateArticleInput{
		Title:         req.Title,
		Content:       req.Content,
		ContentFormat: req.ContentFormat,
		Excerpt:       req.Excerpt,
		Slug:          req.Slug,
		Categories:    req.Categories,
		MediaURL:      req.MediaURL,
		MediaType:     req.MediaType,
		Status:        req.Status,
		Featured:      req.Featured,
		AuthorID:      identity.ProfileID,
	})
	if err != nil {
		respondMapped(c, err, articleWriteErrorRules, "error.article_save_failed")
		return
	}
	response.Success(c, article)
}

// ReplaceArticle PUT 更新，要求提供标题与正文
func (h *Handler) ReplaceArticle(c *gin.Context) {
	if _, ok := requirePrivileged(c); !ok {
		return
	}
	var req ArticlePatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if req.Title == nil || req.Content == nil {
		respondError(c, response.CodeBadRequest, "error.article_replace_incomplete", nil)
		return
	}
	h.applyArticlePatch(c, req)
}

// PatchArticle PATCH 部分更新
func (h *Handler) PatchArticle(c *gin.Context) {
	if _, ok := requirePrivileged(c); !ok {
		return
	}
	var req ArticlePatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	h.applyArticlePatch(c, req)
}

func (h *Handler) applyArticlePatch(c *gin.Context, req ArticlePatchRequest) {
	article, err := h.ArticleService.Update(c.Request.Context(), c.Param("id"), req.toPatch())
	if err != nil {
		respondMapped(c, err, articleWriteErrorRules, "error.article_save_failed")
		return
	}
	response.Success(c, article)
}

// DeleteArticle 删除即归档
func (h *Handler) DeleteArticle(c *gin.Context) {
	if _, ok := requirePrivileged(c); !ok {
		return
	}
	article, err := h.ArticleService.Archive(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondMapped(c, err, articleWriteErrorRules, "error.article_delete_failed")
		return
	}
	response.Success(c, article)
}

// DuplicateArticle 复制为草稿
func (h *Handler) DuplicateArticle(c *gin.Context) {
	if _, ok := requirePrivileged(c); !ok {
		return
	}
	article, err := h.ArticleService.Duplicate(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondMapped(c, err, articleWriteErrorRules, "error.article_save_failed")
		return
	}
	response.Success(c, article)
}
