package public

import (
	handlershared "github.com/ze-news/internal/http/handlers/shared"
	"github.com/ze-news/internal/http/response"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

// respondMapped 资源规则优先，其后为通用规则，未命中按 500 处理
func respondMapped(c *gin.Context, err error, rules []handlershared.MappedError, fallbackKey string) {
	handlershared.RespondMapped(c, err, handlershared.ConcatMappedErrors(rules, handlershared.CommonErrorRules), response.CodeInternal, fallbackKey)
}
