package cache

import (
	"context"
	"strings"
	"time"

	"github.com/ze-news/internal/models"
)

const authStateCacheTTL = 10 * time.Minute

// ProfileAuthState 用户鉴权快照
// token_invalid_before 为 Unix 秒时间戳，0 表示未设置
type ProfileAuthState struct {
	ProfileID          string `json:"profile_id"`
	Email              string `json:"email"`
	Role               string `json:"role"`
	TokenVersion       uint64 `json:"token_version"`
	TokenInvalidBefore int64  `json:"token_invalid_before"`
	UpdatedAt          int64  `json:"updated_at"`
}

func authStateKey(profileID string) string {
	return "auth:profile:" + profileID
}

// BuildProfileAuthState 从用户资料构建鉴权快照
func BuildProfileAuthState(profile *models.Profile) *ProfileAuthState {
	if profile == nil {
		return nil
	}
	state := &ProfileAuthState{
		ProfileID:    profile.ID,
		Email:        profile.Email,
		Role:         profile.Role,
		TokenVersion: profile.TokenVersion,
		UpdatedAt:    time.Now().Unix(),
	}
	if profile.TokenInvalidBefore != nil {
		state.TokenInvalidBefore = profile.TokenInvalidBefore.Unix()
	}
	return state
}

// GetAuthState 获取鉴权快照
func (s *Store) GetAuthState(ctx context.Context, profileID string) (*ProfileAuthState, bool, error) {
	profileID = strings.TrimSpace(profileID)
	if profileID == "" {
		return nil, false, nil
	}
	var state ProfileAuthState
	hit, err := s.GetJSON(ctx, authStateKey(profileID), &state)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &state, true, nil
}

// SetAuthState 写入鉴权快照
func (s *Store) SetAuthState(ctx context.Context, state *ProfileAuthState) error {
	if state == nil || strings.TrimSpace(state.ProfileID) == "" {
		return nil
	}
	return s.SetJSON(ctx, authStateKey(state.ProfileID), state, authStateCacheTTL)
}

// DelAuthState 删除鉴权快照
func (s *Store) DelAuthState(ctx context.Context, profileID string) error {
	profileID = strings.TrimSpace(profileID)
	if profileID == "" {
		return nil
	}
	return s.Del(ctx, authStateKey(profileID))
}
