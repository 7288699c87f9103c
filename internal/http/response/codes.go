package response

import "net/http"

// 业务状态码与 HTTP 状态一致，成功为 0
const (
	CodeOK                 = 0
	CodeBadRequest         = http.StatusBadRequest
	CodeUnauthorized       = http.StatusUnauthorized
	CodeForbidden          = http.StatusForbidden
	CodeNotFound           = http.StatusNotFound
	CodeConflict           = http.StatusConflict
	CodeRequestTooLarge    = http.StatusRequestEntityTooLarge
	CodeUnsupportedMedia   = http.StatusUnsupportedMediaType
	CodeTooManyRequests    = http.StatusTooManyRequests
	CodeInternal           = http.StatusInternalServerError
	CodeBadGateway         = http.StatusBadGateway
	CodeServiceUnavailable = http.StatusServiceUnavailable
)
