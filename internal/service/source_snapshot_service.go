package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/ze-news/internal/logger"
	"github.com/ze-news/internal/repository"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"go.uber.org/zap"
)

const (
	defaultSnapshotTimeout      = 15 * time.Second
	defaultSnapshotExcerptRunes = 600
	maxSnapshotBodyBytes        = 5 << 20
	snapshotUserAgent           = "ZENews-FactCheck/1.0"
	maxSnapshotRedirects        = 5
)

// SourceSnapshotService 抓取核查来源页面并保存正文摘录
type SourceSnapshotService struct {
	repo         repository.FactCheckRepository
	client       *http.Client
	excerptRunes int
	log          *zap.SugaredLogger
}

// NewSourceSnapshotService 创建来源快照服务
func NewSourceSnapshotService(repo repository.FactCheckRepository, timeout time.Duration, excerptRunes int, log *zap.SugaredLogger) *SourceSnapshotService {
	if timeout <= 0 {
		timeout = defaultSnapshotTimeout
	}
	if excerptRunes <= 0 {
		excerptRunes = defaultSnapshotExcerptRunes
	}
	if log == nil {
		log = logger.Component("source_snapshot")
	}
	return &SourceSnapshotService{
		repo:         repo,
		client:       newSnapshotClient(timeout, false),
		excerptRunes: excerptRunes,
		log:          log,
	}
}

// WithPrivateNetworks 是否允许抓取内网地址，默认拒绝
func (s *SourceSnapshotService) WithPrivateNetworks(allow bool) *SourceSnapshotService {
	if s == nil {
		return s
	}
	s.client = newSnapshotClient(s.client.Timeout, allow)
	return s
}

func newSnapshotClient(timeout time.Duration, allowPrivate bool) *http.Client {
	dialer := &net.Dialer{Timeout: timeout}
	if !allowPrivate {
		dialer.Control = func(network, address string, _ syscall.RawConn) error {
			host, _, err := net.SplitHostPort(address)
			if err != nil {
				return err
			}
			return checkSourceIP(net.ParseIP(host))
		}
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			// 直连目标，拨号校验作用于实际目标地址
			Proxy:                 nil,
			DialContext:           dialer.DialContext,
			TLSHandshakeTimeout:   timeout,
			ResponseHeaderTimeout: timeout,
			MaxIdleConns:          10,
			IdleConnTimeout:       30 * time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxSnapshotRedirects {
				return http.ErrUseLastResponse
			}
			scheme := strings.ToLower(req.URL.Scheme)
			if scheme != "http" && scheme != "https" {
				return ErrInvalidSourceURL
			}
			if allowPrivate {
				return nil
			}
			if ip := net.ParseIP(req.URL.Hostname()); ip != nil {
				return checkSourceIP(ip)
			}
			return nil
		},
	}
}

// checkSourceIP 拒绝回环、私网、链路本地与未指定地址
func checkSourceIP(ip net.IP) error {
	if ip == nil {
		return ErrSourceAddressBlocked
	}
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() ||
		ip.IsUnspecified() || ip.IsMulticast() || ip.IsInterfaceLocalMulticast() {
		return ErrSourceAddressBlocked
	}
	if v4 := ip.To4(); v4 != nil && v4[0] == 100 && v4[1]&0xc0 == 64 {
		// 100.64.0.0/10 运营商级 NAT
		return ErrSourceAddressBlocked
	}
	return nil
}

// SourceSnapshot 抓取结果
type SourceSnapshot struct {
	Title   string
	Excerpt string
}

// Capture 抓取并保存快照
func (s *SourceSnapshotService) Capture(ctx context.Context, factCheckID, sourceURL string) (*SourceSnapshot, error) {
	item, err := s.repo.GetByID(factCheckID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrFactCheckNotFound
	}
	snapshot, err := s.Fetch(ctx, sourceURL)
	if err != nil {
		s.log.Warnw("source_snapshot_fetch_failed", "fact_check_id", factCheckID, "url", sourceURL, "error", err)
		return nil, err
	}
	if err := s.repo.SaveSnapshot(factCheckID, snapshot.Title, snapshot.Excerpt); err != nil {
		return nil, err
	}
	s.log.Infow("source_snapshot_saved", "fact_check_id", factCheckID, "title", snapshot.Title)
	return snapshot, nil
}

// Fetch 抓取页面并提取标题与正文
func (s *SourceSnapshotService) Fetch(ctx context.Context, sourceURL string) (*SourceSnapshot, error) {
	normalized, err := normalizeSourceURL(sourceURL)
	if err != nil {
		return nil, err
	}
	if normalized == nil {
		return nil, ErrInvalidSourceURL
	}
	parsedURL, _ := url.Parse(*normalized)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, *normalized, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", snapshotUserAgent)
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("fetch source: unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSnapshotBodyBytes))
	if err != nil {
		return nil, err
	}

	snapshot := &SourceSnapshot{Title: pageTitle(body)}
	article, err := readability.FromReader(bytes.NewReader(body), parsedURL)
	if err == nil {
		if title := strings.TrimSpace(article.Title); title != "" {
			snapshot.Title = title
		}
		snapshot.Excerpt = truncateRunes(collapseWhitespace(article.TextContent), s.excerptRunes)
	}
	if snapshot.Excerpt == "" {
		snapshot.Excerpt = GenerateExcerpt(string(body), s.excerptRunes)
	}
	return snapshot, nil
}

func pageTitle(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	return collapseWhitespace(doc.Find("title").First().Text())
}

func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func truncateRunes(text string, max int) string {
	runes := []rune(text)
	if max <= 0 || len(runes) <= max {
		return text
	}
	return strings.TrimSpace(string(runes[:max])) + "…"
}
