package service

import (
	"context"
	"strings"

	"github.com/ze-news/internal/authguard"
	"github.com/ze-news/internal/logger"
	"github.com/ze-news/internal/models"
	"github.com/ze-news/internal/repository"

	"go.uber.org/zap"
)

// ProfileService 后台用户资料管理
type ProfileService struct {
	repo   repository.ProfileRepository
	states AuthStateCache
	log    *zap.SugaredLogger
}

// NewProfileService 创建用户资料管理服务
func NewProfileService(repo repository.ProfileRepository, states AuthStateCache, log *zap.SugaredLogger) *ProfileService {
	if log == nil {
		log = logger.Component("profile")
	}
	return &ProfileService{repo: repo, states: states, log: log}
}

// ProfileQuery 列表查询
type ProfileQuery struct {
	Page     int
	PageSize int
	Keyword  string
	Role     string
}

// List 用户资料列表
func (s *ProfileService) List(q ProfileQuery) ([]models.Profile, int64, error) {
	role := strings.ToLower(strings.TrimSpace(q.Role))
	if role != "" && !authguard.IsValidRole(role) {
		return nil, 0, ErrInvalidRole
	}
	return s.repo.List(repository.ProfileListFilter{
		Page:     q.Page,
		PageSize: q.PageSize,
		Keyword:  strings.TrimSpace(q.Keyword),
		Role:     role,
	})
}

// ChangeRole 变更角色并写审计日志，目标用户已有会话随之失效
func (s *ProfileService) ChangeRole(ctx context.Context, operator authguard.Identity, targetID, role, requestID string) (*models.Profile, error) {
	role = strings.ToLower(strings.TrimSpace(role))
	if !authguard.IsValidRole(role) {
		return nil, ErrInvalidRole
	}
	if operator.ProfileID == targetID {
		return nil, ErrCannotDemoteSelf
	}
	profile, err := s.repo.GetByID(targetID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	if profile.Role == role {
		return profile, nil
	}

	audit := &models.RoleAuditLog{
		OperatorID: operator.ProfileID,
		TargetID:   profile.ID,
		FromRole:   profile.Role,
		ToRole:     role,
		RequestID:  requestID,
	}
	if err := s.repo.ChangeRole(profile, role, audit); err != nil {
		return nil, err
	}
	if s.states != nil {
		if err := s.states.DelAuthState(ctx, profile.ID); err != nil {
			s.log.Warnw("auth_state_cache_delete_failed", "profile_id", profile.ID, "error", err)
		}
	}
	s.log.Infow("profile_role_changed",
		"operator_id", operator.ProfileID,
		"target_id", profile.ID,
		"from", audit.FromRole,
		"to", role,
		"request_id", requestID,
	)
	return profile, nil
}
