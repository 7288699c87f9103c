package admin

import (
	"strings"

	handlershared "github.com/ze-news/internal/http/handlers/shared"
	"github.com/ze-news/internal/http/response"
	"github.com/ze-news/internal/service"

	"github.com/gin-gonic/gin"
)

// ChangeRoleRequest 角色变更请求
type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

var profileErrorRules = []handlershared.MappedError{
	{Target: service.ErrProfileNotFound, Code: response.CodeNotFound, Key: "error.profile_not_found"},
	{Target: service.ErrInvalidRole, Code: response.CodeBadRequest, Key: "error.role_invalid"},
	{Target: service.ErrCannotDemoteSelf, Code: response.CodeBadRequest, Key: "error.role_change_self"},
}

// ListProfiles 用户列表
func (h *Handler) ListProfiles(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	page, pageSize := handlershared.ParsePagination(c)
	items, total, err := h.ProfileService.List(service.ProfileQuery{
		Page:     page,
		PageSize: pageSize,
		Keyword:  strings.TrimSpace(c.Query("keyword")),
		Role:     strings.TrimSpace(c.Query("role")),
	})
	if err != nil {
		respondMapped(c, err, profileErrorRules, "error.profile_fetch_failed")
		return
	}
	response.SuccessWithPage(c, items, response.NewPagination(page, pageSize, total))
}

// ChangeProfileRole 修改用户角色
func (h *Handler) ChangeProfileRole(c *gin.Context) {
	operator, ok := requireAdmin(c)
	if !ok {
		return
	}
	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	profile, err := h.ProfileService.ChangeRole(c.Request.Context(), operator, c.Param("id"), req.Role, c.GetString(response.RequestIDKey))
	if err != nil {
		respondMapped(c, err, profileErrorRules, "error.role_change_failed")
		return
	}
	requestLog(c).Infow("admin_profile_role_changed", "operator_id", operator.ProfileID, "profile_id", profile.ID, "role", profile.Role)
	response.Success(c, profile)
}
