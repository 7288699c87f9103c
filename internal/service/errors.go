package service

import (
	"errors"
	"fmt"

	"github.com/ze-news/internal/repository"
)

// 通用错误
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("resource not found")
	ErrSlugExists = errors.New("slug already exists")
)

// 资源不存在（均 Is ErrNotFound）
var (
	ErrArticleNotFound   = notFound("article")
	ErrCategoryNotFound  = notFound("category")
	ErrProfileNotFound   = notFound("profile")
	ErrFactCheckNotFound = notFound("fact check")
	ErrCourseNotFound    = notFound("course")
	ErrModuleNotFound    = notFound("course module")
	ErrVideoNotFound     = notFound("video")
	ErrMaterialNotFound  = notFound("material")
)

// 校验错误（均 Is ErrValidation）
var (
	ErrInvalidArticleStatus   = invalid("invalid article status")
	ErrInvalidMediaType       = invalid("invalid media type")
	ErrTitleRequired          = invalid("title is required")
	ErrCategoriesRequired     = invalid("published article requires at least one category")
	ErrUnknownCategory        = invalid("unknown category")
	ErrInvalidContentFormat   = invalid("invalid content format")
	ErrCategoryInUse          = invalid("category is referenced by articles")
	ErrInvalidCourseStatus    = invalid("invalid course status")
	ErrInvalidFactCheckStatus = invalid("invalid fact check status")
	ErrFactCheckFinalized     = invalid("fact check already has a final verdict")
	ErrInvalidStatusChange    = invalid("status change not allowed")
	ErrInvalidSourceURL       = invalid("invalid source url")
	ErrClaimRequired          = invalid("claim is required")
	ErrInvalidRole            = invalid("invalid role")
	ErrCannotDemoteSelf       = invalid("cannot change own role")
	ErrFileTooLarge           = invalid("file too large")
	ErrFileTypeNotAllowed     = invalid("file type not allowed")
	ErrEmptyFile              = invalid("file is empty")
	ErrInvalidEmail           = invalid("invalid email")
	ErrEmailExists            = invalid("email already registered")
	ErrWeakPassword           = invalid("password does not satisfy policy")
	ErrCaptchaRequired        = invalid("captcha required")
	ErrCaptchaInvalid         = invalid("captcha invalid")
)

// ErrSourceAddressBlocked 来源地址解析到内网、回环或链路本地地址
var ErrSourceAddressBlocked = fmt.Errorf("%w: address not allowed", ErrInvalidSourceURL)

// 认证错误
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidPassword    = errors.New("current password is incorrect")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrSecretMissing      = errors.New("jwt secret missing")
)

// 存储错误
var (
	ErrTransientStore         = errors.New("object storage temporarily unavailable")
	ErrPermanentStore         = errors.New("object storage rejected the request")
	ErrStoreCredentialExpired = fmt.Errorf("%w: credentials expired", ErrPermanentStore)
)

// 其它
var (
	ErrEmailServiceDisabled      = errors.New("email service disabled")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrEmailRecipientRejected    = errors.New("email recipient rejected")
	ErrQueueUnavailable          = errors.New("queue unavailable")
	ErrCaptchaDisabled           = errors.New("captcha disabled")
)

type kindError struct {
	msg  string
	kind error
}

func (e *kindError) Error() string        { return e.msg }
func (e *kindError) Is(target error) bool { return target == e.kind }

func notFound(resource string) error {
	return &kindError{msg: resource + " not found", kind: ErrNotFound}
}

func invalid(msg string) error {
	return &kindError{msg: msg, kind: ErrValidation}
}

// saveError 唯一索引冲突映射为 ErrSlugExists，其余错误带上操作名
func saveError(op string, err error) error {
	if errors.Is(err, repository.ErrDuplicateKey) {
		return ErrSlugExists
	}
	return fmt.Errorf("%s: %w", op, err)
}
