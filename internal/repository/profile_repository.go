package repository

import (
	"errors"
	"strings"

	"github.com/ze-news/internal/models"

	"gorm.io/gorm"
)

// ProfileRepository 用户资料数据访问接口
type ProfileRepository interface {
	GetByID(id string) (*models.Profile, error)
	GetByEmail(email string) (*models.Profile, error)
	List(filter ProfileListFilter) ([]models.Profile, int64, error)
	Create(profile *models.Profile) error
	Update(profile *models.Profile) error
	ChangeRole(profile *models.Profile, role string, audit *models.RoleAuditLog) error
}

// GormProfileRepository GORM 实现
type GormProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository 创建用户资料仓库
func NewProfileRepository(db *gorm.DB) *GormProfileRepository {
	return &GormProfileRepository{db: db}
}

// GetByID 根据 ID 获取
func (r *GormProfileRepository) GetByID(id string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.Where("id = ?", id).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// GetByEmail 根据邮箱获取（邮箱统一小写存储）
func (r *GormProfileRepository) GetByEmail(email string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// List 用户资料列表
func (r *GormProfileRepository) List(filter ProfileListFilter) ([]models.Profile, int64, error) {
	query := r.db.Model(&models.Profile{})
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		condition, args := buildLikeCondition(r.db, keyword, "email", "full_name")
		query = query.Where(condition, args...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var profiles []models.Profile
	if err := applyPagination(query, filter.Page, filter.PageSize).Order("created_at DESC").Find(&profiles).Error; err != nil {
		return nil, 0, err
	}
	return profiles, total, nil
}

// Create 创建用户资料
func (r *GormProfileRepository) Create(profile *models.Profile) error {
	return translateWriteError(r.db.Create(profile).Error)
}

// Update 更新用户资料
func (r *GormProfileRepository) Update(profile *models.Profile) error {
	return translateWriteError(r.db.Save(profile).Error)
}

// ChangeRole 在同一事务内更新角色并写入审计日志，同时递增 token 版本使旧会话失效
func (r *GormProfileRepository) ChangeRole(profile *models.Profile, role string, audit *models.RoleAuditLog) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Profile{}).
			Where("id = ?", profile.ID).
			Updates(map[string]interface{}{
				"role":          role,
				"token_version": gorm.Expr("token_version + 1"),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if audit != nil {
			if err := tx.Create(audit).Error; err != nil {
				return err
			}
		}
		return tx.Where("id = ?", profile.ID).First(profile).Error
	})
}
