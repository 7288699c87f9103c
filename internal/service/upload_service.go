package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/ze-news/internal/config"
	"github.com/ze-news/internal/constants"
	"github.com/ze-news/internal/logger"
	"github.com/ze-news/internal/storage"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultUploadAttempts  = 3
	defaultUploadBaseDelay = time.Second
)

// Sleeper 重试等待，需响应 ctx 取消
type Sleeper func(ctx context.Context, d time.Duration) error

// URLVerifier 公开地址可达性探测
type URLVerifier func(ctx context.Context, url string) error

// UploadFile 待上传文件
type UploadFile struct {
	Filename string
	Size     int64
	Body     io.ReadSeeker
}

// UploadResult 上传结果
type UploadResult struct {
	State       string        `json:"state"`
	Trace       []string      `json:"-"`
	Attempts    int           `json:"attempts"`
	TotalWait   time.Duration `json:"-"`
	Key         string        `json:"key"`
	URL         string        `json:"url"`
	Filename    string        `json:"filename"`
	Size        int64         `json:"size"`
	ContentType string        `json:"type"`
	MediaType   string        `json:"media_type"`
	Verified    bool          `json:"verified"`
}

func (r *UploadResult) enter(state string) {
	r.State = state
	r.Trace = append(r.Trace, state)
}

// UploadLimitError 文件超出大小上限
type UploadLimitError struct {
	MediaType  string
	Size       int64
	LimitBytes int64
}

func (e *UploadLimitError) Error() string {
	return fmt.Sprintf("file too large: %d bytes exceeds %d bytes limit for %s", e.Size, e.LimitBytes, e.MediaType)
}

// Is 同时匹配 ErrFileTooLarge 与 ErrValidation
func (e *UploadLimitError) Is(target error) bool {
	return target == ErrFileTooLarge || target == ErrValidation
}

// LimitMB 上限（MB）
func (e *UploadLimitError) LimitMB() int64 {
	return e.LimitBytes / 1024 / 1024
}

// UploadService 媒体上传服务：校验、带退避的有限重试、公开地址解析
type UploadService struct {
	cfg    config.UploadConfig
	store  storage.ObjectStore
	sleep  Sleeper
	verify URLVerifier
	log    *zap.SugaredLogger
	now    func() time.Time
}

// NewUploadService 创建上传服务
func NewUploadService(cfg config.UploadConfig, store storage.ObjectStore, log *zap.SugaredLogger) *UploadService {
	if log == nil {
		log = logger.Component("upload")
	}
	client := &http.Client{}
	return &UploadService{
		cfg:   cfg,
		store: store,
		sleep: contextSleep,
		verify: func(ctx context.Context, url string) error {
			return storage.CheckReachable(ctx, client, url)
		},
		log: log,
		now: time.Now,
	}
}

// WithSleeper 替换重试等待实现
func (s *UploadService) WithSleeper(sleep Sleeper) *UploadService {
	if sleep != nil {
		s.sleep = sleep
	}
	return s
}

// WithVerifier 替换公开地址探测实现
func (s *UploadService) WithVerifier(verify URLVerifier) *UploadService {
	if verify != nil {
		s.verify = verify
	}
	return s
}

// Upload 执行上传状态机：idle → validating → (rejected | uploading) → (retry_wait → uploading)* → (succeeded | failed)
func (s *UploadService) Upload(ctx context.Context, file UploadFile) (*UploadResult, error) {
	result := &UploadResult{Filename: filepath.Base(file.Filename), Size: file.Size}
	result.enter(constants.UploadStateIdle)
	result.enter(constants.UploadStateValidating)

	contentType, mediaType, err := s.validate(file)
	if err != nil {
		result.enter(constants.UploadStateRejected)
		s.log.Infow("upload_rejected", "filename", result.Filename, "size", file.Size, "reason", err.Error())
		return result, err
	}
	result.ContentType = contentType
	result.MediaType = mediaType
	result.Key = s.objectKey(mediaType, file.Filename)

	maxAttempts := s.cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultUploadAttempts
	}
	baseDelay := s.cfg.RetryBaseDelay()
	if baseDelay <= 0 {
		baseDelay = defaultUploadBaseDelay
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result.Attempts = attempt
		result.enter(constants.UploadStateUploading)

		if _, err := file.Body.Seek(0, io.SeekStart); err != nil {
			result.enter(constants.UploadStateFailed)
			return result, fmt.Errorf("rewind upload body: %w", err)
		}
		lastErr = s.store.Put(ctx, result.Key, file.Body, file.Size, contentType)
		if lastErr == nil {
			break
		}

		kind := storage.KindOf(lastErr)
		s.log.Warnw("upload_attempt_failed",
			"key", result.Key,
			"attempt", attempt,
			"max_attempts", maxAttempts,
			"kind", kind.String(),
			"error", lastErr,
		)
		if ctxErr := ctx.Err(); ctxErr != nil {
			result.enter(constants.UploadStateFailed)
			return result, ctxErr
		}
		if !storage.Retryable(lastErr) || attempt == maxAttempts {
			result.enter(constants.UploadStateFailed)
			return result, classifyStoreError(lastErr)
		}

		wait := baseDelay << (attempt - 1)
		result.enter(constants.UploadStateRetryWait)
		if err := s.sleep(ctx, wait); err != nil {
			result.enter(constants.UploadStateFailed)
			return result, err
		}
		result.TotalWait += wait
	}

	result.enter(constants.UploadStateSucceeded)
	result.URL = s.store.PublicURL(result.Key)
	result.Verified = s.verifyPublicURL(ctx, result.URL)
	s.log.Infow("upload_succeeded",
		"key", result.Key,
		"attempts", result.Attempts,
		"total_wait_ms", result.TotalWait.Milliseconds(),
		"verified", result.Verified,
	)
	return result, nil
}

// validate 校验大小、扩展名与嗅探出的 MIME，不访问存储
func (s *UploadService) validate(file UploadFile) (string, string, error) {
	if file.Body == nil || file.Size == 0 {
		return "", "", ErrEmptyFile
	}
	maxImage, maxVideo := s.cfg.MaxImageSize, s.cfg.MaxVideoSize
	if largest := maxInt64(maxImage, maxVideo); largest > 0 && file.Size > largest {
		return "", "", &UploadLimitError{MediaType: mediaTypeForExt(file.Filename), Size: file.Size, LimitBytes: largest}
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext == "" || !isAllowedExtension(ext, s.cfg.AllowedExtensions) {
		return "", "", fmt.Errorf("%w: extension %q", ErrFileTypeNotAllowed, ext)
	}

	detected, err := mimetype.DetectReader(file.Body)
	if err != nil {
		return "", "", fmt.Errorf("sniff content type: %w", err)
	}
	if _, err := file.Body.Seek(0, io.SeekStart); err != nil {
		return "", "", fmt.Errorf("rewind upload body: %w", err)
	}

	var mediaType, contentType string
	switch {
	case matchesAny(detected, s.cfg.AllowedImageTypes):
		mediaType = constants.MediaTypeImage
	case matchesAny(detected, s.cfg.AllowedVideoTypes):
		mediaType = constants.MediaTypeVideo
	default:
		return "", "", fmt.Errorf("%w: %s", ErrFileTypeNotAllowed, detected.String())
	}
	if !extensionMatches(detected, ext) {
		return "", "", fmt.Errorf("%w: extension %q does not match %s", ErrFileTypeNotAllowed, ext, detected.String())
	}
	contentType = strings.TrimSpace(strings.SplitN(detected.String(), ";", 2)[0])

	limit := maxImage
	if mediaType == constants.MediaTypeVideo {
		limit = maxVideo
	}
	if limit > 0 && file.Size > limit {
		return "", "", &UploadLimitError{MediaType: mediaType, Size: file.Size, LimitBytes: limit}
	}
	return contentType, mediaType, nil
}

func (s *UploadService) objectKey(mediaType, filename string) string {
	return fmt.Sprintf("%ss/%s/%s%s",
		mediaType,
		s.now().UTC().Format("2006/01"),
		uuid.NewString(),
		strings.ToLower(filepath.Ext(filename)),
	)
}

// verifyPublicURL 尽力探测，失败只记录日志
func (s *UploadService) verifyPublicURL(ctx context.Context, url string) bool {
	if !s.cfg.VerifyPublicURL || s.verify == nil {
		return false
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return false
	}
	timeout := s.cfg.VerifyTimeout()
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	verifyCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := s.verify(verifyCtx, url); err != nil {
		s.log.Warnw("upload_verify_failed", "url", url, "error", err)
		return false
	}
	return true
}

func classifyStoreError(err error) error {
	switch storage.KindOf(err) {
	case storage.KindCredentialExpired:
		return fmt.Errorf("%w: %w", ErrStoreCredentialExpired, err)
	case storage.KindPermission:
		return fmt.Errorf("%w: %w", ErrPermanentStore, err)
	default:
		return fmt.Errorf("%w: %w", ErrTransientStore, err)
	}
}

func contextSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func matchesAny(detected *mimetype.MIME, allowed []string) bool {
	for _, item := range allowed {
		item = strings.TrimSpace(item)
		if item != "" && detected.Is(item) {
			return true
		}
	}
	return false
}

// extensionAliases 同一格式的常见扩展名写法
var extensionAliases = map[string][]string{
	".jpg": {".jpeg", ".jpe"},
	".mov": {".qt"},
	".mp4": {".m4v"},
}

// extensionMatches 扩展名须与嗅探结果（或其父类型）一致
func extensionMatches(detected *mimetype.MIME, ext string) bool {
	for m := detected; m != nil; m = m.Parent() {
		canonical := strings.ToLower(m.Extension())
		if canonical == "" {
			continue
		}
		if canonical == ext {
			return true
		}
		for _, alias := range extensionAliases[canonical] {
			if alias == ext {
				return true
			}
		}
	}
	return false
}

func isAllowedExtension(ext string, allowed []string) bool {
	for _, item := range allowed {
		normalized := strings.ToLower(strings.TrimSpace(item))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if ext == normalized {
			return true
		}
	}
	return false
}

func mediaTypeForExt(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".mp4", ".webm", ".mov":
		return constants.MediaTypeVideo
	default:
		return constants.MediaTypeImage
	}
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

// IsUploadRejection 是否为校验拒绝（客户端错误）
func IsUploadRejection(err error) bool {
	return errors.Is(err, ErrFileTooLarge) || errors.Is(err, ErrFileTypeNotAllowed) || errors.Is(err, ErrEmptyFile)
}
