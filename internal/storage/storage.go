// Package storage 对象存储抽象：本地磁盘与 HTTP 存储桶两种实现。
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"unicode"

	"github.com/ze-news/internal/config"
	"github.com/ze-news/internal/constants"
)

// ObjectStore 对象存储
type ObjectStore interface {
	// Put 写入对象，失败时返回 *StoreError
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	// PublicURL 返回对象的公开访问地址
	PublicURL(key string) string
}

// ErrorKind 存储错误分类
type ErrorKind int

const (
	// KindTransient 网络抖动或服务端 5xx，可重试
	KindTransient ErrorKind = iota
	// KindPermission 访问被拒绝或配置错误，不可重试
	KindPermission
	// KindCredentialExpired 凭证过期，不可重试
	KindCredentialExpired
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindPermission:
		return "permission"
	case KindCredentialExpired:
		return "credential_expired"
	default:
		return "unknown"
	}
}

// StoreError 对象存储错误
type StoreError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("storage %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("storage %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Retryable 仅瞬时错误可重试，非 StoreError 视为瞬时
func Retryable(err error) bool {
	return err != nil && KindOf(err) == KindTransient
}

const maxDetailRunes = 200

// Detail 可返回给调用方的错误说明：去掉本地路径与控制字符并截断
func Detail(err error) string {
	if err == nil {
		return ""
	}
	cause := err
	var storeErr *StoreError
	if errors.As(err, &storeErr) && storeErr.Err != nil {
		cause = storeErr.Err
	}
	var pathErr *fs.PathError
	if errors.As(cause, &pathErr) {
		cause = pathErr.Err
	}
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, cause.Error())
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	if runes := []rune(cleaned); len(runes) > maxDetailRunes {
		cleaned = string(runes[:maxDetailRunes]) + "…"
	}
	return cleaned
}

// KindOf 提取错误分类，非 StoreError 按瞬时错误处理
func KindOf(err error) ErrorKind {
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return storeErr.Kind
	}
	return KindTransient
}

// New 根据配置创建对象存储
func New(cfg config.StorageConfig) (ObjectStore, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", constants.StorageDriverLocal:
		return NewLocalStore(cfg.LocalDir, cfg.PublicBaseURL), nil
	case constants.StorageDriverHTTP:
		if strings.TrimSpace(cfg.Endpoint) == "" {
			return nil, errors.New("storage endpoint is required for http driver")
		}
		client := &http.Client{Timeout: cfg.Timeout()}
		return NewHTTPStore(client, cfg.Endpoint, cfg.Bucket, cfg.APIKey, cfg.PublicBaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}

func joinURL(base string, parts ...string) string {
	out := strings.TrimRight(base, "/")
	for _, part := range parts {
		part = strings.Trim(part, "/")
		if part == "" {
			continue
		}
		out += "/" + part
	}
	return out
}
