package admin

import (
	"strings"
	"time"

	handlershared "github.com/ze-news/internal/http/handlers/shared"
	"github.com/ze-news/internal/http/response"
	"github.com/ze-news/internal/i18n"
	"github.com/ze-news/internal/service"

	"github.com/gin-gonic/gin"
)

// ReviewFactCheckRequest 审核请求
type ReviewFactCheckRequest struct {
	Status      string                 `json:"status" binding:"required"`
	VerdictNote service.NullableString `json:"verdict_note"`
	Locale      string                 `json:"locale"`
}

var factCheckErrorRules = []handlershared.MappedError{
	{Target: service.ErrFactCheckNotFound, Code: response.CodeNotFound, Key: "error.fact_check_not_found"},
	{Target: service.ErrInvalidFactCheckStatus, Code: response.CodeBadRequest, Key: "error.fact_check_status_invalid"},
	{Target: service.ErrFactCheckFinalized, Code: response.CodeConflict, Key: "error.fact_check_finalized"},
	{Target: service.ErrInvalidStatusChange, Code: response.CodeConflict, Key: "error.fact_check_transition_invalid"},
}

// ListFactChecks 核查列表
func (h *Handler) ListFactChecks(c *gin.Context) {
	if _, ok := requirePrivileged(c); !ok {
		return
	}
	page, pageSize := handlershared.ParsePagination(c)
	createdFrom, err := parseQueryTime(c.Query("created_from"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	createdTo, err := parseQueryTime(c.Query("created_to"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	items, total, err := h.FactCheckService.List(service.FactCheckQuery{
		Page:        page,
		PageSize:    pageSize,
		Status:      strings.TrimSpace(c.Query("status")),
		ArticleID:   strings.TrimSpace(c.Query("article_id")),
		Search:      strings.TrimSpace(c.Query("search")),
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	})
	if err != nil {
		respondMapped(c, err, factCheckErrorRules, "error.fact_check_fetch_failed")
		return
	}
	response.SuccessWithPage(c, items, response.NewPagination(page, pageSize, total))
}

// GetFactCheck 核查详情
func (h *Handler) GetFactCheck(c *gin.Context) {
	if _, ok := requirePrivileged(c); !ok {
		return
	}
	item, err := h.FactCheckService.Get(c.Param("id"))
	if err != nil {
		respondMapped(c, err, factCheckErrorRules, "error.fact_check_fetch_failed")
		return
	}
	response.Success(c, item)
}

// ReviewFactCheck 推进核查状态或给出结论
func (h *Handler) ReviewFactCheck(c *gin.Context) {
	identity, ok := requirePrivileged(c)
	if !ok {
		return
	}
	var req ReviewFactCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	locale := strings.TrimSpace(req.Locale)
	if locale == "" {
		locale = i18n.ResolveLocale(c)
	}
	item, err := h.FactCheckService.Review(c.Request.Context(), identity, c.Param("id"), service.ReviewFactCheckInput{
		Status:      req.Status,
		VerdictNote: req.VerdictNote,
		Locale:      locale,
	})
	if err != nil {
		respondMapped(c, err, factCheckErrorRules, "error.fact_check_review_failed")
		return
	}
	response.Success(c, item)
}

// parseQueryTime 支持 RFC3339 与 YYYY-MM-DD
func parseQueryTime(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
