package admin

import (
	"errors"
	"fmt"

	handlershared "github.com/ze-news/internal/http/handlers/shared"
	"github.com/ze-news/internal/http/response"
	"github.com/ze-news/internal/i18n"
	"github.com/ze-news/internal/service"
	"github.com/ze-news/internal/storage"

	"github.com/gin-gonic/gin"
)

// UploadMedia 上传图片或视频，返回公开地址
func (h *Handler) UploadMedia(c *gin.Context) {
	if _, ok := requirePrivileged(c); !ok {
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.upload_file_missing", err)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.upload_file_missing", err)
		return
	}
	defer file.Close()

	result, err := h.UploadService.Upload(c.Request.Context(), service.UploadFile{
		Filename: fileHeader.Filename,
		Size:     fileHeader.Size,
		Body:     file,
	})
	if err != nil {
		respondUploadError(c, err)
		return
	}
	response.Success(c, gin.H{
		"url":        result.URL,
		"filename":   result.Filename,
		"size":       result.Size,
		"type":       result.ContentType,
		"media_type": result.MediaType,
		"attempts":   result.Attempts,
	})
}

func respondUploadError(c *gin.Context, err error) {
	var limitErr *service.UploadLimitError
	switch {
	case errors.As(err, &limitErr):
		msg := i18n.Sprintf(i18n.ResolveLocale(c), "error.file_too_large", limitErr.LimitMB())
		handlershared.RespondErrorWithMsg(c, response.CodeRequestTooLarge, "error.file_too_large", msg, nil)
	case errors.Is(err, service.ErrFileTypeNotAllowed):
		respondError(c, response.CodeUnsupportedMedia, "error.file_type_not_allowed", nil)
	case errors.Is(err, service.ErrEmptyFile):
		respondError(c, response.CodeBadRequest, "error.upload_file_empty", nil)
	case errors.Is(err, service.ErrStoreCredentialExpired):
		respondStoreError(c, "error.storage_credentials_expired", err)
	case errors.Is(err, service.ErrPermanentStore):
		respondStoreError(c, "error.storage_rejected", err)
	case errors.Is(err, service.ErrTransientStore):
		respondError(c, response.CodeServiceUnavailable, "error.storage_unavailable", err)
	default:
		respondError(c, response.CodeInternal, "error.upload_failed", err)
	}
}

// respondStoreError 不可重试的存储错误，消息附带存储端说明
func respondStoreError(c *gin.Context, key string, err error) {
	msg := i18n.T(i18n.ResolveLocale(c), key)
	if detail := storage.Detail(err); detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, detail)
	}
	handlershared.RespondErrorWithMsg(c, response.CodeBadGateway, key, msg, err)
}
