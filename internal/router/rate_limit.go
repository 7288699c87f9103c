package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/ze-news/internal/http/response"
	"github.com/ze-news/internal/i18n"
	"github.com/ze-news/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitKeyFunc 从请求中提取限流主体
type RateLimitKeyFunc func(*gin.Context) string

// RateLimitRule 限流规则
type RateLimitRule struct {
	Prefix        string
	WindowSeconds int
	MaxRequests   int
	MessageKey    string
}

// 返回 {当前计数, 剩余秒数}
var fixedWindowScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return {n, redis.call("TTL", KEYS[1])}
`)

var errShortWindowReply = errors.New("fixed window script returned a short reply")

func (r RateLimitRule) active() bool {
	return r.WindowSeconds > 0 && r.MaxRequests > 0
}

func (r RateLimitRule) bucket(c *gin.Context, keyFunc RateLimitKeyFunc) string {
	subject := ""
	if keyFunc != nil {
		subject = strings.TrimSpace(keyFunc(c))
	}
	if subject == "" {
		subject = c.ClientIP()
	}
	if r.Prefix == "" {
		return subject
	}
	return r.Prefix + ":" + subject
}

func (r RateLimitRule) messageKey() string {
	if key := strings.TrimSpace(r.MessageKey); key != "" {
		return key
	}
	return "error.rate_limited"
}

// windowUsage 一次计数后的窗口状态
type windowUsage struct {
	count int64
	ttl   int64
}

func hitWindow(ctx context.Context, client *redis.Client, bucket string, windowSeconds int) (windowUsage, error) {
	reply, err := fixedWindowScript.Run(ctx, client, []string{bucket}, windowSeconds).Int64Slice()
	if err != nil {
		return windowUsage{}, err
	}
	if len(reply) < 2 {
		return windowUsage{}, errShortWindowReply
	}
	return windowUsage{count: reply[0], ttl: reply[1]}, nil
}

// remaining 窗口内剩余次数，不小于 0
func (u windowUsage) remaining(limit int) int64 {
	if left := int64(limit) - u.count; left > 0 {
		return left
	}
	return 0
}

// retryAfter TTL 缺失时退回整个窗口
func (u windowUsage) retryAfter(windowSeconds int) int {
	switch {
	case u.ttl > 0:
		return int(u.ttl)
	case windowSeconds > 0:
		return windowSeconds
	default:
		return 1
	}
}

// RateLimitMiddleware Redis 固定窗口限流，client 为空时放行
func RateLimitMiddleware(client *redis.Client, rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || !rule.active() {
			c.Next()
			return
		}

		bucket := rule.bucket(c, keyFunc)
		usage, err := hitWindow(c.Request.Context(), client, bucket, rule.WindowSeconds)
		if err != nil {
			logger.Warnw("rate_limit_script_failed", "key", bucket, "error", err)
			abortWithKey(c, response.CodeServiceUnavailable, "error.rate_limit_unavailable")
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rule.MaxRequests))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(usage.remaining(rule.MaxRequests), 10))
		if usage.count <= int64(rule.MaxRequests) {
			c.Next()
			return
		}

		wait := usage.retryAfter(rule.WindowSeconds)
		key := rule.messageKey()
		logger.Debugw("rate_limited", "key", bucket, "count", usage.count, "retry_after", wait)
		c.Header("Retry-After", strconv.Itoa(wait))
		response.Abort(c, response.CodeTooManyRequests, key, i18n.Sprintf(i18n.ResolveLocale(c), key, wait))
	}
}

// KeyByIP 按客户端 IP 限流
func KeyByIP(c *gin.Context) string {
	return c.ClientIP()
}

// KeyByIPAndJSONField 按请求体字段（小写）与 IP 组合限流，字段缺失时只用 IP
func KeyByIPAndJSONField(field string) RateLimitKeyFunc {
	return func(c *gin.Context) string {
		value := strings.ToLower(strings.TrimSpace(jsonStringField(c, field)))
		if value == "" {
			return c.ClientIP()
		}
		return value + "|" + c.ClientIP()
	}
}

// jsonStringField 读取顶层字符串字段，读完后还原请求体
func jsonStringField(c *gin.Context, field string) string {
	if c.Request == nil || c.Request.Body == nil {
		return ""
	}
	body, err := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil || len(body) == 0 {
		return ""
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return ""
	}
	raw, ok := fields[field]
	if !ok {
		return ""
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return ""
	}
	return value
}
