package router

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/ze-news/internal/authguard"
	"github.com/ze-news/internal/authz"
	"github.com/ze-news/internal/config"
	handlershared "github.com/ze-news/internal/http/handlers/shared"
	"github.com/ze-news/internal/http/response"
	"github.com/ze-news/internal/i18n"
	"github.com/ze-news/internal/logger"
	"github.com/ze-news/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

// SessionResolver 将 Bearer Token 解析为请求身份
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (authguard.Identity, error)
}

// PolicyEnforcer 按角色判定路由授权
type PolicyEnforcer interface {
	EnforceRole(role, obj, act string) (bool, error)
}

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{
			"Content-Type",
			"Content-Length",
			"Accept-Language",
			"Authorization",
			"X-Request-ID",
		}
	}
	methodsHeader := strings.Join(allowedMethods, ", ")
	headersHeader := strings.Join(allowedHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowedOrigin := resolveAllowedOrigin(origin, allowedOrigins, cfg.AllowCredentials)
		if allowedOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			if allowedOrigin != "*" {
				c.Writer.Header().Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", headersHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", methodsHeader)
		if cfg.MaxAge > 0 {
			c.Writer.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	if len(allowedOrigins) == 0 {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware 请求 ID 中间件
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" || len(requestID) > 128 {
			requestID = uuid.NewString()
		}
		c.Set(response.RequestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// LocaleMiddleware 解析一次请求语言并写入上下文
func LocaleMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(i18n.ContextKey, i18n.ResolveLocale(c))
		c.Next()
	}
}

// LoggerMiddleware 结构化请求日志中间件
func LoggerMiddleware(log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.L()
	}
	sugar := log.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := sugar.With(
			"request_id", c.GetString(response.RequestIDKey),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		if id := handlershared.CurrentIdentity(c); id.Authenticated {
			entry = entry.With("profile_id", id.ProfileID)
		}
		switch {
		case len(c.Errors) > 0:
			entry.Errorw("request", "errors", c.Errors.String())
		case c.Writer.Status() >= 500:
			entry.Warnw("request")
		default:
			entry.Infow("request")
		}
	}
}

// SessionMiddleware 可选会话：无 Authorization 头视为匿名，Token 无效时返回 401
func SessionMiddleware(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" || resolver == nil {
			handlershared.SetIdentity(c, authguard.Anonymous())
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			abortWithKey(c, response.CodeUnauthorized, "error.auth_header_invalid")
			return
		}

		identity, err := resolver.ResolveSession(c.Request.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			switch {
			case errors.Is(err, service.ErrTokenRevoked):
				abortWithKey(c, response.CodeUnauthorized, "error.token_revoked")
			case service.IsAuthFailure(err):
				abortWithKey(c, response.CodeUnauthorized, "error.token_invalid")
			default:
				logger.Errorw("session_resolve_failed", "request_id", c.GetString(response.RequestIDKey), "error", err)
				abortWithKey(c, response.CodeInternal, "error.internal")
			}
			return
		}
		handlershared.SetIdentity(c, identity)
		c.Next()
	}
}

// RequirePrivilegedMiddleware 边缘校验：admin / editor 才可继续
func RequirePrivilegedMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := authguard.Require(handlershared.CurrentIdentity(c)); err != nil {
			code, key := handlershared.GuardErrorCode(err)
			abortWithKey(c, code, key)
			return
		}
		c.Next()
	}
}

// RequireAuthenticatedMiddleware 仅要求已登录
func RequireAuthenticatedMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := authguard.RequireAuthenticated(handlershared.CurrentIdentity(c)); err != nil {
			code, key := handlershared.GuardErrorCode(err)
			abortWithKey(c, code, key)
			return
		}
		c.Next()
	}
}

// RequirePolicyMiddleware casbin 路由授权，须位于会话中间件之后
func RequirePolicyMiddleware(enforcer PolicyEnforcer) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := handlershared.CurrentIdentity(c)
		if err := authguard.RequireAuthenticated(identity); err != nil {
			abortWithKey(c, response.CodeUnauthorized, "error.unauthorized")
			return
		}
		if enforcer == nil {
			logger.Errorw("authz_service_unavailable")
			abortWithKey(c, response.CodeForbidden, "error.forbidden")
			return
		}

		resource := c.FullPath()
		if strings.TrimSpace(resource) == "" {
			resource = c.Request.URL.Path
		}
		allowed, err := enforcer.EnforceRole(identity.Role, resource, c.Request.Method)
		if err != nil {
			logger.Errorw("authz_enforce_failed",
				"profile_id", identity.ProfileID,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err,
			)
			abortWithKey(c, response.CodeForbidden, "error.forbidden")
			return
		}
		if !allowed {
			logger.Warnw("authz_permission_denied",
				"profile_id", identity.ProfileID,
				"role", identity.Role,
				"method", c.Request.Method,
				"resource", authz.NormalizeObject(resource),
			)
			abortWithKey(c, response.CodeForbidden, "error.forbidden")
			return
		}
		c.Next()
	}
}

func abortWithKey(c *gin.Context, code int, key string) {
	response.Abort(c, code, key, i18n.T(i18n.ResolveLocale(c), key))
}
