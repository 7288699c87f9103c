package service

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/ze-news/internal/authguard"
	"github.com/ze-news/internal/constants"
	"github.com/ze-news/internal/logger"
	"github.com/ze-news/internal/models"
	"github.com/ze-news/internal/queue"
	"github.com/ze-news/internal/repository"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// FactCheckJobs 事实核查相关异步任务
type FactCheckJobs interface {
	EnqueueFactCheckStatusEmail(payload queue.FactCheckStatusEmailPayload, opts ...asynq.Option) error
	EnqueueFactCheckSourceSnapshot(payload queue.FactCheckSourceSnapshotPayload, opts ...asynq.Option) error
}

// FactCheckService 事实核查业务服务
// 状态流转：pending -> reviewing -> verified|false|misleading|rejected，结论状态不可再变更。
type FactCheckService struct {
	repo            repository.FactCheckRepository
	articles        repository.ArticleRepository
	jobs            FactCheckJobs
	snapshotEnabled bool
	log             *zap.SugaredLogger
	now             func() time.Time
}

// NewFactCheckService 创建事实核查服务
func NewFactCheckService(repo repository.FactCheckRepository, articles repository.ArticleRepository, jobs FactCheckJobs, snapshotEnabled bool, log *zap.SugaredLogger) *FactCheckService {
	if log == nil {
		log = logger.Component("fact_check")
	}
	return &FactCheckService{
		repo:            repo,
		articles:        articles,
		jobs:            jobs,
		snapshotEnabled: snapshotEnabled,
		log:             log,
		now:             time.Now,
	}
}

// SubmitFactCheckInput 公开提交参数
type SubmitFactCheckInput struct {
	ArticleID      string
	Claim          string
	SourceURL      string
	SubmitterName  string
	SubmitterEmail string
}

// ReviewFactCheckInput 审核参数
type ReviewFactCheckInput struct {
	Status      string
	VerdictNote NullableString
	Locale      string
}

// FactCheckQuery 列表查询
type FactCheckQuery struct {
	Page        int
	PageSize    int
	Status      string
	ArticleID   string
	Search      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// Submit 提交核查申请
func (s *FactCheckService) Submit(ctx context.Context, in SubmitFactCheckInput) (*models.FactCheck, error) {
	claim := strings.TrimSpace(in.Claim)
	if claim == "" {
		return nil, ErrClaimRequired
	}
	sourceURL, err := normalizeSourceURL(in.SourceURL)
	if err != nil {
		return nil, err
	}
	email := ""
	if strings.TrimSpace(in.SubmitterEmail) != "" {
		if email, err = normalizeEmail(in.SubmitterEmail); err != nil {
			return nil, err
		}
	}
	articleID, err := s.resolveArticle(in.ArticleID)
	if err != nil {
		return nil, err
	}

	item := &models.FactCheck{
		ArticleID:      articleID,
		Claim:          claim,
		SourceURL:      sourceURL,
		SubmitterName:  strings.TrimSpace(in.SubmitterName),
		SubmitterEmail: email,
		Status:         constants.FactCheckStatusPending,
	}
	if err := s.repo.Create(item); err != nil {
		return nil, err
	}
	s.log.Infow("fact_check_submitted", "fact_check_id", item.ID, "has_source", sourceURL != nil)

	if sourceURL != nil && s.snapshotEnabled && s.jobs != nil {
		if err := s.jobs.EnqueueFactCheckSourceSnapshot(queue.FactCheckSourceSnapshotPayload{
			FactCheckID: item.ID,
			SourceURL:   *sourceURL,
		}); err != nil {
			s.log.Warnw("fact_check_snapshot_enqueue_failed", "fact_check_id", item.ID, "error", err)
		}
	}
	return item, nil
}

// Get 核查详情
func (s *FactCheckService) Get(id string) (*models.FactCheck, error) {
	item, err := s.repo.GetByID(strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrFactCheckNotFound
	}
	return item, nil
}

// List 核查列表
func (s *FactCheckService) List(q FactCheckQuery) ([]models.FactCheck, int64, error) {
	status := strings.ToLower(strings.TrimSpace(q.Status))
	if status != "" && !isFactCheckStatus(status) {
		return nil, 0, ErrInvalidFactCheckStatus
	}
	return s.repo.List(repository.FactCheckListFilter{
		Page:        q.Page,
		PageSize:    q.PageSize,
		Status:      status,
		ArticleID:   strings.TrimSpace(q.ArticleID),
		Search:      strings.TrimSpace(q.Search),
		CreatedFrom: q.CreatedFrom,
		CreatedTo:   q.CreatedTo,
	})
}

// Review 审核：推进状态或补充说明
func (s *FactCheckService) Review(ctx context.Context, reviewer authguard.Identity, id string, in ReviewFactCheckInput) (*models.FactCheck, error) {
	item, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if isFinalFactCheckStatus(item.Status) {
		return nil, ErrFactCheckFinalized
	}

	previous := item.Status
	next := strings.ToLower(strings.TrimSpace(in.Status))
	if next != "" && next != previous {
		if !isFactCheckStatus(next) {
			return nil, ErrInvalidFactCheckStatus
		}
		if !canTransitFactCheck(previous, next) {
			return nil, ErrInvalidStatusChange
		}
		item.Status = next
	}
	if in.VerdictNote.Present {
		note := ""
		if in.VerdictNote.Value != nil {
			note = strings.TrimSpace(*in.VerdictNote.Value)
		}
		item.VerdictNote = note
	}
	if reviewer.ProfileID != "" {
		reviewerID := reviewer.ProfileID
		item.ReviewerID = &reviewerID
	}
	if isFinalFactCheckStatus(item.Status) {
		now := s.now()
		item.ReviewedAt = &now
	}
	if err := s.repo.Update(item); err != nil {
		return nil, err
	}

	if item.Status != previous {
		s.log.Infow("fact_check_status_changed",
			"fact_check_id", item.ID,
			"from", previous,
			"to", item.Status,
			"reviewer_id", reviewer.ProfileID,
		)
		s.notifyStatus(item, in.Locale)
	}
	return item, nil
}

func (s *FactCheckService) notifyStatus(item *models.FactCheck, locale string) {
	if s.jobs == nil || item.SubmitterEmail == "" {
		return
	}
	if err := s.jobs.EnqueueFactCheckStatusEmail(queue.FactCheckStatusEmailPayload{
		FactCheckID: item.ID,
		Status:      item.Status,
		Locale:      locale,
	}); err != nil {
		s.log.Warnw("fact_check_status_email_enqueue_failed", "fact_check_id", item.ID, "error", err)
	}
}

func (s *FactCheckService) resolveArticle(raw string) (*string, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return nil, nil
	}
	article, err := s.articles.GetByID(id)
	if err != nil {
		return nil, err
	}
	if article == nil || article.Status != constants.ArticleStatusPublished {
		return nil, ErrArticleNotFound
	}
	return &id, nil
}

func normalizeSourceURL(raw string) (*string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Host == "" {
		return nil, ErrInvalidSourceURL
	}
	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil, ErrInvalidSourceURL
	}
	normalized := parsed.String()
	return &normalized, nil
}

func isFactCheckStatus(status string) bool {
	switch status {
	case constants.FactCheckStatusPending, constants.FactCheckStatusReviewing:
		return true
	default:
		return isFinalFactCheckStatus(status)
	}
}

func isFinalFactCheckStatus(status string) bool {
	switch status {
	case constants.FactCheckStatusVerified,
		constants.FactCheckStatusFalse,
		constants.FactCheckStatusMisleading,
		constants.FactCheckStatusRejected:
		return true
	default:
		return false
	}
}

func canTransitFactCheck(from, to string) bool {
	switch from {
	case constants.FactCheckStatusPending:
		return to == constants.FactCheckStatusReviewing || isFinalFactCheckStatus(to)
	case constants.FactCheckStatusReviewing:
		return isFinalFactCheckStatus(to)
	default:
		return false
	}
}
