package admin

import (
	handlershared "github.com/ze-news/internal/http/handlers/shared"
	"github.com/ze-news/internal/http/response"
	"github.com/ze-news/internal/service"

	"github.com/gin-gonic/gin"
)

// CategoryRequest 分类创建/更新请求
type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
}

func (r CategoryRequest) toInput() service.CategoryInput {
	return service.CategoryInput{
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		SortOrder:   r.SortOrder,
	}
}

var categoryErrorRules = []handlershared.MappedError{
	{Target: service.ErrCategoryNotFound, Code: response.CodeNotFound, Key: "error.category_not_found"},
	{Target: service.ErrCategoryInUse, Code: response.CodeConflict, Key: "error.category_in_use"},
	{Target: service.ErrSlugExists, Code: response.CodeConflict, Key: "error.slug_exists"},
}

// CreateCategory 创建分类
func (h *Handler) CreateCategory(c *gin.Context) {
	if _, ok := requirePrivileged(c); !ok {
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	category, err := h.CategoryService.Create(req.toInput())
	if err != nil {
		respondMapped(c, err, categoryErrorRules, "error.category_save_failed")
		return
	}
	response.Success(c, category)
}

// UpdateCategory 更新分类
func (h *Handler) UpdateCategory(c *gin.Context) {
	if _, ok := requirePrivileged(c); !ok {
		return
	}
	id, ok := parseUintParam(c, "id", "error.category_id_invalid")
	if !ok {
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	category, err := h.CategoryService.Update(id, req.toInput())
	if err != nil {
		respondMapped(c, err, categoryErrorRules, "error.category_save_failed")
		return
	}
	response.Success(c, category)
}

// DeleteCategory 删除未被引用的分类
func (h *Handler) DeleteCategory(c *gin.Context) {
	if _, ok := requirePrivileged(c); !ok {
		return
	}
	id, ok := parseUintParam(c, "id", "error.category_id_invalid")
	if !ok {
		return
	}
	if err := h.CategoryService.Delete(c.Request.Context(), id); err != nil {
		respondMapped(c, err, categoryErrorRules, "error.category_delete_failed")
		return
	}
	response.Success(c, gin.H{"id": id, "deleted": true})
}
