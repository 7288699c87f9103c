package repository

import (
	"errors"
	"strings"

	"github.com/ze-news/internal/models"

	"gorm.io/gorm"
)

// FactCheckRepository 事实核查数据访问接口
type FactCheckRepository interface {
	List(filter FactCheckListFilter) ([]models.FactCheck, int64, error)
	GetByID(id string) (*models.FactCheck, error)
	Create(item *models.FactCheck) error
	Update(item *models.FactCheck) error
	SaveSnapshot(id string, title, excerpt string) error
}

// GormFactCheckRepository GORM 实现
type GormFactCheckRepository struct {
	db *gorm.DB
}

// NewFactCheckRepository 创建事实核查仓库
func NewFactCheckRepository(db *gorm.DB) *GormFactCheckRepository {
	return &GormFactCheckRepository{db: db}
}

// List 核查列表
func (r *GormFactCheckRepository) List(filter FactCheckListFilter) ([]models.FactCheck, int64, error) {
	query := r.db.Model(&models.FactCheck{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.ArticleID != "" {
		query = query.Where("article_id = ?", filter.ArticleID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		condition, args := buildLikeCondition(r.db, search, "claim", "submitter_email", "submitter_name")
		query = query.Where(condition, args...)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []models.FactCheck
	if err := applyPagination(query, filter.Page, filter.PageSize).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// GetByID 根据 ID 获取
func (r *GormFactCheckRepository) GetByID(id string) (*models.FactCheck, error) {
	var item models.FactCheck
	if err := r.db.Where("id = ?", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// Create 创建核查申请
func (r *GormFactCheckRepository) Create(item *models.FactCheck) error {
	return r.db.Create(item).Error
}

// Update 更新核查申请
func (r *GormFactCheckRepository) Update(item *models.FactCheck) error {
	return r.db.Save(item).Error
}

// SaveSnapshot 仅写入来源快照字段，避免覆盖并发的审核更新
func (r *GormFactCheckRepository) SaveSnapshot(id string, title, excerpt string) error {
	return r.db.Model(&models.FactCheck{}).Where("id = ?", id).Updates(map[string]interface{}{
		"source_title":   title,
		"source_excerpt": excerpt,
	}).Error
}
