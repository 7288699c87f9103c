package public

import (
	"errors"

	handlershared "github.com/ze-news/internal/http/handlers/shared"
	"github.com/ze-news/internal/http/response"
	"github.com/ze-news/internal/i18n"
	"github.com/ze-news/internal/service"

	"github.com/gin-gonic/gin"
)

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateMeRequest 更新个人资料请求
type UpdateMeRequest struct {
	FullName  service.NullableString `json:"full_name"`
	AvatarURL service.NullableString `json:"avatar_url"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

var authErrorRules = []handlershared.MappedError{
	{Target: service.ErrInvalidCredentials, Code: response.CodeUnauthorized, Key: "error.login_invalid"},
	{Target: service.ErrInvalidPassword, Code: response.CodeBadRequest, Key: "error.password_old_invalid"},
	{Target: service.ErrEmailExists, Code: response.CodeConflict, Key: "error.email_exists"},
	{Target: service.ErrInvalidEmail, Code: response.CodeBadRequest, Key: "error.email_invalid"},
	{Target: service.ErrProfileNotFound, Code: response.CodeNotFound, Key: "error.profile_not_found"},
}

// Register 注册账号，默认角色为 user
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	session, err := h.AuthService.Register(c.Request.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		if respondPasswordPolicy(c, err) {
			return
		}
		respondMapped(c, err, authErrorRules, "error.register_failed")
		return
	}
	response.Success(c, session)
}

// Login 邮箱密码登录
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	session, err := h.AuthService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondMapped(c, err, authErrorRules, "error.login_failed")
		return
	}
	response.Success(c, session)
}

// GetMe 当前登录用户资料
func (h *Handler) GetMe(c *gin.Context) {
	id, ok := handlershared.RequireAuthenticated(c)
	if !ok {
		return
	}
	profile, err := h.AuthService.Me(id.ProfileID)
	if err != nil {
		respondMapped(c, err, authErrorRules, "error.profile_fetch_failed")
		return
	}
	response.Success(c, profile)
}

// UpdateMe 更新个人资料
func (h *Handler) UpdateMe(c *gin.Context) {
	id, ok := handlershared.RequireAuthenticated(c)
	if !ok {
		return
	}
	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	profile, err := h.AuthService.UpdateMe(c.Request.Context(), id.ProfileID, service.UpdateProfileInput{
		FullName:  req.FullName,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		respondMapped(c, err, authErrorRules, "error.profile_update_failed")
		return
	}
	response.Success(c, profile)
}

// ChangePassword 修改密码，成功后旧会话全部失效
func (h *Handler) ChangePassword(c *gin.Context) {
	id, ok := handlershared.RequireAuthenticated(c)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.AuthService.ChangePassword(c.Request.Context(), id.ProfileID, req.OldPassword, req.NewPassword); err != nil {
		if respondPasswordPolicy(c, err) {
			return
		}
		respondMapped(c, err, authErrorRules, "error.password_change_failed")
		return
	}
	locale := i18n.ResolveLocale(c)
	response.SuccessWithMsg(c, i18n.T(locale, "auth.password_changed"), gin.H{"relogin": true})
}

// respondPasswordPolicy 密码策略错误带具体规则提示
func respondPasswordPolicy(c *gin.Context, err error) bool {
	if !errors.Is(err, service.ErrWeakPassword) {
		return false
	}
	locale := i18n.ResolveLocale(c)
	if perr, ok := err.(interface {
		Key() string
		Args() []interface{}
	}); ok {
		msg := i18n.Sprintf(locale, perr.Key(), perr.Args()...)
		handlershared.RespondErrorWithMsg(c, response.CodeBadRequest, perr.Key(), msg, nil)
		return true
	}
	respondError(c, response.CodeBadRequest, "error.password_weak", nil)
	return true
}
