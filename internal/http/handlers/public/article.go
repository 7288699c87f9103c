package public

import (
	"strings"

	handlershared "github.com/ze-news/internal/http/handlers/shared"
	"github.com/ze-news/internal/http/response"
	"github.com/ze-news/internal/service"

	"github.com/gin-gonic/gin"
)

var articleReadErrorRules = []handlershared.MappedError{
	{Target: service.ErrArticleNotFound, Code: response.CodeNotFound, Key: "error.article_not_found"},
	{Target: service.ErrInvalidArticleStatus, Code: response.CodeBadRequest, Key: "error.article_status_invalid"},
}

// ListArticles 文章列表，匿名仅返回已发布，特权角色可按状态过滤
func (h *Handler) ListArticles(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	items, total, err := h.ArticleService.List(service.ArticleQuery{
		Page:       page,
		PageSize:   pageSize,
		Status:     strings.TrimSpace(c.Query("status")),
		Category:   strings.TrimSpace(c.Query("category")),
		Search:     strings.TrimSpace(c.Query("search")),
		Featured:   handlershared.QueryBool(c, "featured"),
		Privileged: handlershared.IsPrivileged(c),
	})
	if err != nil {
		respondMapped(c, err, articleReadErrorRules, "error.article_fetch_failed")
		return
	}
	response.SuccessWithPage(c, items, response.NewPagination(page, pageSize, total))
}

// LatestArticles 最新发布文章流
func (h *Handler) LatestArticles(c *gin.Context) {
	limit := handlershared.QueryInt(c, "limit", 0)
	offset := handlershared.QueryInt(c, "offset", 0)
	items, err := h.ArticleService.Latest(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, response.CodeInternal, "error.article_fetch_failed", err)
		return
	}
	response.Success(c, items)
}

// GetArticle 按 ID 获取文章
func (h *Handler) GetArticle(c *gin.Context) {
	article, err := h.ArticleService.Get(c.Param("id"), handlershared.IsPrivileged(c))
	if err != nil {
		respondMapped(c, err, articleReadErrorRules, "error.article_fetch_failed")
		return
	}
	response.Success(c, article)
}

// GetArticleBySlug 按 slug 获取文章
func (h *Handler) GetArticleBySlug(c *gin.Context) {
	article, err := h.ArticleService.GetBySlug(c.Param("slug"), handlershared.IsPrivileged(c))
	if err != nil {
		respondMapped(c, err, articleReadErrorRules, "error.article_fetch_failed")
		return
	}
	response.Success(c, article)
}
