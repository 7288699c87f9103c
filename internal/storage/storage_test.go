package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/ze-news/internal/config"
)

func TestLocalStorePutAndPublicURL(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir, "http://cdn.local/uploads/")

	if err := store.Put(context.Background(), "images/2026/a.png", strings.NewReader("png-bytes"), 9, "image/png"); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	content, err := os.ReadFile(filepath.Join(dir, "images", "2026", "a.png"))
	if err != nil {
		t.Fatalf("read stored file failed: %v", err)
	}
	if string(content) != "png-bytes" {
		t.Fatalf("unexpected stored content: %s", content)
	}
	if got := store.PublicURL("images/2026/a.png"); got != "http://cdn.local/uploads/images/2026/a.png" {
		t.Fatalf("unexpected public url: %s", got)
	}
}

func TestLocalStoreKeyCannotEscapeRoot(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(filepath.Join(dir, "root"), "")
	if err := store.Put(context.Background(), "../../escape.txt", strings.NewReader("x"), 1, "text/plain"); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "root", "escape.txt")); err != nil {
		t.Fatalf("expected key to be confined under root: %v", err)
	}
}

func TestLocalStorePermissionDenied(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for this user")
	}
	dir := t.TempDir()
	if err := os.Chmod(dir, 0o500); err != nil {
		t.Fatalf("chmod failed: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	err := NewLocalStore(dir, "").Put(context.Background(), "a/b.png", strings.NewReader("x"), 1, "image/png")
	if KindOf(err) != KindPermission {
		t.Fatalf("expected permission error, got %v", err)
	}
}

func TestHTTPStoreClassifiesStatus(t *testing.T) {
	cases := []struct {
		status int
		want   ErrorKind
	}{
		{http.StatusUnauthorized, KindCredentialExpired},
		{http.StatusForbidden, KindPermission},
		{http.StatusNotFound, KindPermission},
		{http.StatusTooManyRequests, KindTransient},
		{http.StatusBadGateway, KindTransient},
	}
	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer srv.Close()

			store := NewHTTPStore(srv.Client(), srv.URL, "media", "key", "")
			err := store.Put(context.Background(), "a.png", strings.NewReader("x"), 1, "image/png")
			var storeErr *StoreError
			if !errors.As(err, &storeErr) {
				t.Fatalf("expected StoreError, got %v", err)
			}
			if storeErr.Kind != tc.want {
				t.Fatalf("status %d classified as %s, want %s", tc.status, storeErr.Kind, tc.want)
			}
		})
	}
}

func TestHTTPStoreSendsObject(t *testing.T) {
	var gotPath, gotAuth, gotType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store := NewHTTPStore(srv.Client(), srv.URL+"/storage/v1/", "media", "secret", "")
	if err := store.Put(context.Background(), "videos/clip.mp4", strings.NewReader("mp4"), 3, "video/mp4"); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if gotPath != "/storage/v1/object/media/videos/clip.mp4" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotAuth != "Bearer secret" || gotType != "video/mp4" || gotBody != "mp4" {
		t.Fatalf("unexpected request: auth=%s type=%s body=%s", gotAuth, gotType, gotBody)
	}
	if url := store.PublicURL("videos/clip.mp4"); url != srv.URL+"/storage/v1/object/public/media/videos/clip.mp4" {
		t.Fatalf("unexpected public url: %s", url)
	}
}

func TestHTTPStoreNetworkErrorIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := NewHTTPStore(nil, url, "media", "", "").Put(context.Background(), "a", strings.NewReader("x"), 1, "")
	if KindOf(err) != KindTransient {
		t.Fatalf("expected transient error, got %v", err)
	}
}

func TestCheckReachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("expected HEAD, got %s", r.Method)
		}
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	if err := CheckReachable(context.Background(), srv.Client(), srv.URL+"/ok"); err != nil {
		t.Fatalf("reachable url failed: %v", err)
	}
	if err := CheckReachable(context.Background(), srv.Client(), srv.URL+"/missing"); err == nil {
		t.Fatalf("expected error for 404")
	}
}

func TestNewSelectsDriver(t *testing.T) {
	store, err := New(config.StorageConfig{Driver: "local", LocalDir: t.TempDir()})
	if err != nil {
		t.Fatalf("new local failed: %v", err)
	}
	if _, ok := store.(*LocalStore); !ok {
		t.Fatalf("expected local store, got %T", store)
	}
	if _, err := New(config.StorageConfig{Driver: "http"}); err == nil {
		t.Fatalf("expected error for http driver without endpoint")
	}
	if _, err := New(config.StorageConfig{Driver: "ftp"}); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestRetryable(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{&StoreError{Kind: KindTransient, Op: "put"}, true},
		{&StoreError{Kind: KindPermission, Op: "put"}, false},
		{&StoreError{Kind: KindCredentialExpired, Op: "put"}, false},
		{errors.New("connection reset"), true},
	}
	for _, tc := range cases {
		if got := Retryable(tc.err); got != tc.want {
			t.Fatalf("Retryable(%v)=%v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestDetail(t *testing.T) {
	httpErr := &StoreError{Kind: KindPermission, Op: "put", Err: errors.New("status 403:\n bucket policy denies")}
	if got := Detail(httpErr); got != "status 403: bucket policy denies" {
		t.Fatalf("unexpected detail: %q", got)
	}

	pathErr := &StoreError{Kind: KindPermission, Op: "mkdir", Err: &os.PathError{Op: "mkdir", Path: "/srv/uploads/images", Err: os.ErrPermission}}
	got := Detail(pathErr)
	if strings.Contains(got, "/srv/uploads") || got != os.ErrPermission.Error() {
		t.Fatalf("local path must not leak: %q", got)
	}

	long := &StoreError{Kind: KindPermission, Op: "put", Err: errors.New(strings.Repeat("x", 500))}
	if n := len([]rune(Detail(long))); n != maxDetailRunes+1 {
		t.Fatalf("expected truncated detail, got %d runes", n)
	}
	if Detail(nil) != "" {
		t.Fatalf("expected empty detail for nil")
	}
}
