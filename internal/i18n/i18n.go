package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

const (
	LocaleZhCN = "zh-CN"
	LocaleEnUS = "en-US"

	// DefaultLocale 未命中任何语言时使用
	DefaultLocale = LocaleEnUS

	// ContextKey 中间件写入的语言上下文键
	ContextKey = "locale"
)

var (
	supported = []language.Tag{
		language.AmericanEnglish,
		language.SimplifiedChinese,
	}
	matcher = language.NewMatcher(supported)
)

// ResolveLocale 解析请求语言：上下文 > ?lang= > Accept-Language
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale
	}
	if v, ok := c.Get(ContextKey); ok {
		if locale, ok := v.(string); ok && locale != "" {
			return locale
		}
	}
	if lang := strings.TrimSpace(c.Query("lang")); lang != "" {
		return Match(lang)
	}
	if c.Request == nil {
		return DefaultLocale
	}
	return Match(c.GetHeader("Accept-Language"))
}

// Match 将任意语言标识匹配到已支持的语言
func Match(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(raw)
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return DefaultLocale
	}
	if supported[idx] == language.SimplifiedChinese {
		return LocaleZhCN
	}
	return LocaleEnUS
}

// T 翻译消息键，缺失时退回默认语言，再缺失返回键本身
func T(locale, key string) string {
	if msg, ok := lookup(locale, key); ok {
		return msg
	}
	if msg, ok := lookup(DefaultLocale, key); ok {
		return msg
	}
	return key
}

// Sprintf 翻译并格式化
func Sprintf(locale, key string, args ...interface{}) string {
	format := T(locale, key)
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

func lookup(locale, key string) (string, bool) {
	table, ok := catalog[locale]
	if !ok {
		return "", false
	}
	msg, ok := table[key]
	return msg, ok
}
