package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// HTTPStore 通过 REST 接口写入托管存储桶（PUT {endpoint}/object/{bucket}/{key}）
type HTTPStore struct {
	client        *http.Client
	endpoint      string
	bucket        string
	apiKey        string
	publicBaseURL string
}

// NewHTTPStore 创建 HTTP 存储
func NewHTTPStore(client *http.Client, endpoint, bucket, apiKey, publicBaseURL string) *HTTPStore {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPStore{
		client:        client,
		endpoint:      strings.TrimRight(endpoint, "/"),
		bucket:        bucket,
		apiKey:        apiKey,
		publicBaseURL: publicBaseURL,
	}
}

// Put 上传对象
func (s *HTTPStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, joinURL(s.endpoint, "object", s.bucket, key), body)
	if err != nil {
		return &StoreError{Kind: KindPermission, Op: "put", Err: err}
	}
	if size >= 0 {
		req.ContentLength = size
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}
	req.Header.Set("x-upsert", "true")

	resp, err := s.client.Do(req)
	if err != nil {
		return &StoreError{Kind: KindTransient, Op: "put", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &StoreError{
		Kind: classifyStatus(resp.StatusCode),
		Op:   "put",
		Err:  fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail))),
	}
}

// PublicURL 公开地址
func (s *HTTPStore) PublicURL(key string) string {
	if s.publicBaseURL != "" {
		return joinURL(s.publicBaseURL, key)
	}
	return joinURL(s.endpoint, "object", "public", s.bucket, key)
}

func classifyStatus(status int) ErrorKind {
	switch {
	case status == http.StatusUnauthorized:
		return KindCredentialExpired
	case status == http.StatusRequestTimeout, status == http.StatusTooManyRequests, status >= 500:
		return KindTransient
	default:
		return KindPermission
	}
}

// CheckReachable 对公开地址发 HEAD 请求确认可访问
func CheckReachable(ctx context.Context, client *http.Client, url string) error {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= 400 {
		return errors.New("public url answered " + resp.Status)
	}
	return nil
}
