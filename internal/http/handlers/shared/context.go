package shared

import (
	"errors"

	"github.com/ze-news/internal/authguard"
	"github.com/ze-news/internal/http/response"

	"github.com/gin-gonic/gin"
)

// IdentityKey 会话中间件写入的身份上下文键
const IdentityKey = "identity"

// SetIdentity 写入请求身份
func SetIdentity(c *gin.Context, id authguard.Identity) {
	c.Set(IdentityKey, id)
}

// CurrentIdentity 读取请求身份，缺失时为匿名
func CurrentIdentity(c *gin.Context) authguard.Identity {
	if c == nil {
		return authguard.Anonymous()
	}
	if value, ok := c.Get(IdentityKey); ok {
		if id, ok := value.(authguard.Identity); ok {
			return id
		}
	}
	return authguard.Anonymous()
}

// IsPrivileged 当前请求是否具备特权角色
func IsPrivileged(c *gin.Context) bool {
	return authguard.Require(CurrentIdentity(c)) == nil
}

// RequirePrivileged 处理器内的二次校验，失败时已写出 401/403
func RequirePrivileged(c *gin.Context) (authguard.Identity, bool) {
	id := CurrentIdentity(c)
	if err := authguard.Require(id); err != nil {
		RespondGuardError(c, err)
		return id, false
	}
	return id, true
}

// RequireAuthenticated 仅要求已登录，失败时已写出 401
func RequireAuthenticated(c *gin.Context) (authguard.Identity, bool) {
	id := CurrentIdentity(c)
	if err := authguard.RequireAuthenticated(id); err != nil {
		RespondGuardError(c, err)
		return id, false
	}
	return id, true
}

// RequireRole 要求属于给定角色之一，失败时已写出 401/403
func RequireRole(c *gin.Context, roles ...string) (authguard.Identity, bool) {
	id := CurrentIdentity(c)
	if err := authguard.RequireRole(id, roles...); err != nil {
		RespondGuardError(c, err)
		return id, false
	}
	return id, true
}

// RespondGuardError 将守卫错误映射为 401/403
func RespondGuardError(c *gin.Context, err error) {
	code, key := GuardErrorCode(err)
	RespondError(c, code, key, nil)
}

// GuardErrorCode 守卫错误对应的状态码与消息键
func GuardErrorCode(err error) (int, string) {
	if errors.Is(err, authguard.ErrInsufficientRole) {
		return response.CodeForbidden, "error.forbidden"
	}
	return response.CodeUnauthorized, "error.unauthorized"
}
