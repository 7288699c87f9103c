package admin

import (
	"github.com/ze-news/internal/authguard"
	"github.com/ze-news/internal/constants"
	handlershared "github.com/ze-news/internal/http/handlers/shared"
	"github.com/ze-news/internal/http/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondMapped(c *gin.Context, err error, rules []handlershared.MappedError, fallbackKey string) {
	handlershared.RespondMapped(c, err, handlershared.ConcatMappedErrors(rules, handlershared.CommonErrorRules), response.CodeInternal, fallbackKey)
}

// requirePrivileged 路由已校验一次，处理器内使用同一判定再校验
func requirePrivileged(c *gin.Context) (authguard.Identity, bool) {
	return handlershared.RequirePrivileged(c)
}

// requireAdmin 账号管理仅限管理员
func requireAdmin(c *gin.Context) (authguard.Identity, bool) {
	return handlershared.RequireRole(c, constants.RoleAdmin)
}

func parseUintParam(c *gin.Context, name, invalidKey string) (uint, bool) {
	id, ok := handlershared.ParseUintParam(c, name)
	if !ok {
		respondError(c, response.CodeBadRequest, invalidKey, nil)
	}
	return id, ok
}
