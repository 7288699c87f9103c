package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore 本地磁盘存储，由 HTTP 服务以静态目录暴露
type LocalStore struct {
	dir     string
	baseURL string
}

// NewLocalStore 创建本地存储
func NewLocalStore(dir, baseURL string) *LocalStore {
	if strings.TrimSpace(dir) == "" {
		dir = "uploads"
	}
	return &LocalStore{dir: dir, baseURL: baseURL}
}

// Dir 存储根目录
func (s *LocalStore) Dir() string {
	return s.dir
}

// Put 写入文件；先写临时文件再重命名，失败时不留下半截对象
func (s *LocalStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if err := ctx.Err(); err != nil {
		return &StoreError{Kind: KindTransient, Op: "put", Err: err}
	}
	target, err := s.resolve(key)
	if err != nil {
		return &StoreError{Kind: KindPermission, Op: "put", Err: err}
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return classifyFSError("mkdir", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return classifyFSError("create", err)
	}
	tmpName := tmp.Name()
	_, copyErr := io.Copy(tmp, body)
	closeErr := tmp.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(tmpName)
		if copyErr != nil {
			return classifyFSError("write", copyErr)
		}
		return classifyFSError("close", closeErr)
	}
	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return classifyFSError("rename", err)
	}
	return nil
}

// PublicURL 公开地址
func (s *LocalStore) PublicURL(key string) string {
	base := s.baseURL
	if base == "" {
		base = "/uploads"
	}
	return joinURL(base, key)
}

func (s *LocalStore) resolve(key string) (string, error) {
	clean := filepath.Clean("/" + strings.TrimSpace(key))
	if clean == "/" {
		return "", errors.New("empty object key")
	}
	return filepath.Join(s.dir, filepath.FromSlash(clean)), nil
}

func classifyFSError(op string, err error) error {
	if errors.Is(err, fs.ErrPermission) {
		return &StoreError{Kind: KindPermission, Op: op, Err: err}
	}
	return &StoreError{Kind: KindTransient, Op: op, Err: err}
}
