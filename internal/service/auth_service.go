package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/ze-news/internal/authguard"
	"github.com/ze-news/internal/cache"
	"github.com/ze-news/internal/config"
	"github.com/ze-news/internal/constants"
	"github.com/ze-news/internal/logger"
	"github.com/ze-news/internal/models"
	"github.com/ze-news/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const defaultJWTExpireHours = 24

// AuthStateCache 鉴权快照缓存
type AuthStateCache interface {
	GetAuthState(ctx context.Context, profileID string) (*cache.ProfileAuthState, bool, error)
	SetAuthState(ctx context.Context, state *cache.ProfileAuthState) error
	DelAuthState(ctx context.Context, profileID string) error
}

// AuthService 账号认证服务
type AuthService struct {
	cfg      *config.Config
	profiles repository.ProfileRepository
	states   AuthStateCache
	log      *zap.SugaredLogger
	now      func() time.Time
}

// NewAuthService 创建认证服务
func NewAuthService(cfg *config.Config, profiles repository.ProfileRepository, states AuthStateCache, log *zap.SugaredLogger) *AuthService {
	if log == nil {
		log = logger.Component("auth")
	}
	return &AuthService{
		cfg:      cfg,
		profiles: profiles,
		states:   states,
		log:      log,
		now:      time.Now,
	}
}

// JWTClaims JWT 声明
type JWTClaims struct {
	ProfileID    string `json:"profile_id"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// RegisterInput 注册参数
type RegisterInput struct {
	Email    string
	Password string
	FullName string
}

// UpdateProfileInput 个人资料更新参数
type UpdateProfileInput struct {
	FullName  NullableString
	AvatarURL NullableString
}

// Session 登录结果
type Session struct {
	Profile   *models.Profile `json:"profile"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// HashPassword 密码哈希
func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// VerifyPassword 验证密码
func (s *AuthService) VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// ValidatePassword 按密码策略校验
func (s *AuthService) ValidatePassword(password string) error {
	return validatePassword(s.cfg.Security.PasswordPolicy, password)
}

// GenerateJWT 生成 JWT Token
func (s *AuthService) GenerateJWT(profile *models.Profile) (string, time.Time, error) {
	secret := strings.TrimSpace(s.cfg.JWT.SecretKey)
	if secret == "" {
		return "", time.Time{}, ErrSecretMissing
	}
	hours := s.cfg.JWT.ExpireHours
	if hours <= 0 {
		hours = defaultJWTExpireHours
	}
	now := s.now()
	expiresAt := now.Add(time.Duration(hours) * time.Hour)
	claims := JWTClaims{
		ProfileID:    profile.ID,
		Email:        profile.Email,
		Role:         profile.Role,
		TokenVersion: profile.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profile.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseJWT 解析 JWT Token
func (s *AuthService) ParseJWT(tokenString string) (*JWTClaims, error) {
	secret := strings.TrimSpace(s.cfg.JWT.SecretKey)
	if secret == "" {
		return nil, ErrSecretMissing
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	claims := &JWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !token.Valid || strings.TrimSpace(claims.ProfileID) == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Register 注册普通用户并签发会话
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if err := s.ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	existing, err := s.profiles.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailExists
	}
	hashed, err := s.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	now := s.now()
	profile := &models.Profile{
		Email:        email,
		FullName:     trimmedOrNil(&in.FullName),
		Role:         constants.RoleUser,
		PasswordHash: hashed,
		LastLoginAt:  &now,
	}
	if err := s.profiles.Create(profile); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	s.log.Infow("profile_registered", "profile_id", profile.ID)
	return s.issue(ctx, profile)
}

// Login 邮箱密码登录
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	profile, err := s.profiles.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrInvalidCredentials
	}
	if err := s.VerifyPassword(profile.PasswordHash, password); err != nil {
		s.log.Infow("login_failed", "profile_id", profile.ID)
		return nil, ErrInvalidCredentials
	}
	now := s.now()
	profile.LastLoginAt = &now
	if err := s.profiles.Update(profile); err != nil {
		return nil, err
	}
	return s.issue(ctx, profile)
}

// ResolveSession 校验 Token 并返回当前身份
// token_version 或 token_invalid_before 不匹配时视为已吊销。
func (s *AuthService) ResolveSession(ctx context.Context, tokenString string) (authguard.Identity, error) {
	claims, err := s.ParseJWT(tokenString)
	if err != nil {
		return authguard.Anonymous(), err
	}
	state, err := s.authState(ctx, claims.ProfileID)
	if err != nil {
		return authguard.Anonymous(), err
	}
	if state == nil {
		return authguard.Anonymous(), ErrInvalidToken
	}
	if claims.TokenVersion != state.TokenVersion {
		return authguard.Anonymous(), ErrTokenRevoked
	}
	if !issuedAfter(claims.IssuedAt, state.TokenInvalidBefore) {
		return authguard.Anonymous(), ErrTokenRevoked
	}
	return authguard.Identity{
		Authenticated: true,
		ProfileID:     state.ProfileID,
		Email:         state.Email,
		Role:          state.Role,
	}, nil
}

// Me 获取当前用户资料
func (s *AuthService) Me(profileID string) (*models.Profile, error) {
	profile, err := s.profiles.GetByID(profileID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

// UpdateMe 更新当前用户资料
func (s *AuthService) UpdateMe(ctx context.Context, profileID string, in UpdateProfileInput) (*models.Profile, error) {
	profile, err := s.Me(profileID)
	if err != nil {
		return nil, err
	}
	if in.FullName.Present {
		profile.FullName = trimmedOrNil(in.FullName.Value)
	}
	if in.AvatarURL.Present {
		profile.AvatarURL = trimmedOrNil(in.AvatarURL.Value)
	}
	if err := s.profiles.Update(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// ChangePassword 修改密码并吊销既有会话
func (s *AuthService) ChangePassword(ctx context.Context, profileID, oldPassword, newPassword string) error {
	profile, err := s.Me(profileID)
	if err != nil {
		return err
	}
	if err := s.VerifyPassword(profile.PasswordHash, oldPassword); err != nil {
		return ErrInvalidPassword
	}
	if err := s.ValidatePassword(newPassword); err != nil {
		return err
	}
	hashed, err := s.HashPassword(newPassword)
	if err != nil {
		return err
	}
	now := s.now()
	profile.PasswordHash = hashed
	profile.TokenVersion++
	profile.TokenInvalidBefore = &now
	if err := s.profiles.Update(profile); err != nil {
		return err
	}
	s.storeAuthState(ctx, profile)
	s.log.Infow("password_changed", "profile_id", profile.ID)
	return nil
}

// ForgetAuthState 删除鉴权快照，下次请求回源数据库
func (s *AuthService) ForgetAuthState(ctx context.Context, profileID string) {
	if s.states == nil {
		return
	}
	if err := s.states.DelAuthState(ctx, profileID); err != nil {
		s.log.Warnw("auth_state_cache_delete_failed", "profile_id", profileID, "error", err)
	}
}

func (s *AuthService) issue(ctx context.Context, profile *models.Profile) (*Session, error) {
	token, expiresAt, err := s.GenerateJWT(profile)
	if err != nil {
		return nil, err
	}
	s.storeAuthState(ctx, profile)
	return &Session{Profile: profile, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) authState(ctx context.Context, profileID string) (*cache.ProfileAuthState, error) {
	if s.states != nil {
		state, hit, err := s.states.GetAuthState(ctx, profileID)
		if err != nil {
			s.log.Warnw("auth_state_cache_read_failed", "profile_id", profileID, "error", err)
		} else if hit && state != nil {
			return state, nil
		}
	}
	profile, err := s.profiles.GetByID(profileID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, nil
	}
	s.storeAuthState(ctx, profile)
	return cache.BuildProfileAuthState(profile), nil
}

func (s *AuthService) storeAuthState(ctx context.Context, profile *models.Profile) {
	if s.states == nil {
		return
	}
	if err := s.states.SetAuthState(ctx, cache.BuildProfileAuthState(profile)); err != nil {
		s.log.Warnw("auth_state_cache_write_failed", "profile_id", profile.ID, "error", err)
	}
}

func issuedAfter(issuedAt *jwt.NumericDate, invalidBeforeUnix int64) bool {
	if invalidBeforeUnix <= 0 {
		return true
	}
	if issuedAt == nil {
		return false
	}
	return issuedAt.Time.Unix() >= invalidBeforeUnix
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}

// IsAuthFailure 判断是否为需要重新登录的认证错误
func IsAuthFailure(err error) bool {
	return errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrTokenRevoked) || errors.Is(err, ErrSecretMissing)
}
