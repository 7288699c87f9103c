package shared

import (
	"errors"

	"github.com/ze-news/internal/http/response"
	"github.com/ze-news/internal/i18n"
	"github.com/ze-news/internal/logger"
	"github.com/ze-news/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if id := c.GetString(response.RequestIDKey); id != "" {
		return logger.SW("request_id", id)
	}
	return logger.S()
}

// RespondError 返回国际化错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, key string, err error) {
	locale := i18n.ResolveLocale(c)
	appErr := response.WrapError(code, key, i18n.T(locale, key), err)
	if err != nil {
		logHandlerError(c, appErr)
	}
	response.ErrorWithKey(c, appErr.Code, appErr.Key, appErr.Message)
}

// RespondErrorWithMsg 返回自定义消息错误响应，并在有原始错误时记录日志。
func RespondErrorWithMsg(c *gin.Context, code int, key, msg string, err error) {
	appErr := response.WrapError(code, key, msg, err)
	if err != nil {
		logHandlerError(c, appErr)
	}
	response.ErrorWithKey(c, appErr.Code, appErr.Key, appErr.Message)
}

func logHandlerError(c *gin.Context, appErr *response.AppError) {
	log := RequestLog(c)
	if appErr.Code >= 500 {
		log.Errorw("handler_error", "code", appErr.Code, "key", appErr.Key, "error", appErr.Err)
		return
	}
	log.Warnw("handler_error", "code", appErr.Code, "key", appErr.Key, "error", appErr.Err)
}

// MappedError 定义业务错误到接口错误响应的映射关系。
type MappedError struct {
	Target error
	Code   int
	Key    string
}

// RespondMapped 按规则顺序匹配，未命中时使用兜底
func RespondMapped(c *gin.Context, err error, rules []MappedError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.Target) {
			RespondError(c, rule.Code, rule.Key, nil)
			return
		}
	}
	RespondError(c, fallbackCode, fallbackKey, err)
}

// ConcatMappedErrors 合并多组映射规则
func ConcatMappedErrors(groups ...[]MappedError) []MappedError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]MappedError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

// CommonErrorRules 通用兜底规则，置于各资源规则之后
var CommonErrorRules = []MappedError{
	{Target: service.ErrSlugExists, Code: response.CodeConflict, Key: "error.slug_exists"},
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.not_found"},
	{Target: service.ErrValidation, Code: response.CodeBadRequest, Key: "error.bad_request"},
}

// CourseErrorRules 课程相关错误映射，公开与后台处理器共用
var CourseErrorRules = []MappedError{
	{Target: service.ErrCourseNotFound, Code: response.CodeNotFound, Key: "error.course_not_found"},
	{Target: service.ErrModuleNotFound, Code: response.CodeNotFound, Key: "error.module_not_found"},
	{Target: service.ErrVideoNotFound, Code: response.CodeNotFound, Key: "error.video_not_found"},
	{Target: service.ErrMaterialNotFound, Code: response.CodeNotFound, Key: "error.material_not_found"},
	{Target: service.ErrInvalidCourseStatus, Code: response.CodeBadRequest, Key: "error.course_status_invalid"},
	{Target: service.ErrInvalidStatusChange, Code: response.CodeConflict, Key: "error.course_purge_requires_archive"},
	{Target: service.ErrTitleRequired, Code: response.CodeBadRequest, Key: "error.title_required"},
}
