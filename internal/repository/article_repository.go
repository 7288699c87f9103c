package repository

import (
	"errors"
	"strings"

	"github.com/ze-news/internal/constants"
	"github.com/ze-news/internal/models"

	"gorm.io/gorm"
)

// ArticleRepository 文章数据访问接口
type ArticleRepository interface {
	List(filter ArticleListFilter) ([]models.Article, int64, error)
	Latest(limit, offset int) ([]models.Article, error)
	GetByID(id string) (*models.Article, error)
	GetBySlug(slug string, onlyPublished bool) (*models.Article, error)
	Create(article *models.Article) error
	Update(article *models.Article) error
	CountBySlug(slug string, excludeID *string) (int64, error)
	CountByCategory(slug string) (int64, error)
}

// GormArticleRepository GORM 实现
type GormArticleRepository struct {
	db *gorm.DB
}

// NewArticleRepository 创建文章仓库
func NewArticleRepository(db *gorm.DB) *GormArticleRepository {
	return &GormArticleRepository{db: db}
}

// List 文章列表
func (r *GormArticleRepository) List(filter ArticleListFilter) ([]models.Article, int64, error) {
	query := r.db.Model(&models.Article{})

	if filter.OnlyPublished {
		query = query.Where("status = ?", constants.ArticleStatusPublished)
	} else if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.AuthorID != "" {
		query = query.Where("author_id = ?", filter.AuthorID)
	}
	if filter.Featured != nil {
		query = query.Where("featured = ?", *filter.Featured)
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		expr, arg := jsonArrayContains(r.db, "articles.categories", category)
		query = query.Where(expr, arg)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		condition, args := buildLikeCondition(r.db, search, "title", "slug", "excerpt")
		query = query.Where(condition, args...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "created_at DESC"
	}
	var articles []models.Article
	if err := applyPagination(query, filter.Page, filter.PageSize).Order(orderBy).Find(&articles).Error; err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

// Latest 最新发布文章，按发布时间倒序
func (r *GormArticleRepository) Latest(limit, offset int) ([]models.Article, error) {
	query := r.db.Model(&models.Article{}).
		Where("status = ?", constants.ArticleStatusPublished).
		Order("published_at DESC").
		Order("created_at DESC")

	var articles []models.Article
	if err := applyWindow(query, limit, offset).Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

// GetByID 根据 ID 获取文章
func (r *GormArticleRepository) GetByID(id string) (*models.Article, error) {
	var article models.Article
	if err := r.db.Where("id = ?", id).First(&article).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &article, nil
}

// GetBySlug 根据 slug 获取文章
func (r *GormArticleRepository) GetBySlug(slug string, onlyPublished bool) (*models.Article, error) {
	query := r.db.Where("slug = ?", slug)
	if onlyPublished {
		query = query.Where("status = ?", constants.ArticleStatusPublished)
	}
	var article models.Article
	if err := query.First(&article).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &article, nil
}

// Create 创建文章
func (r *GormArticleRepository) Create(article *models.Article) error {
	return translateWriteError(r.db.Create(article).Error)
}

// Update 整行保存文章（published_at 为空时写入 NULL）
func (r *GormArticleRepository) Update(article *models.Article) error {
	return translateWriteError(r.db.Save(article).Error)
}

// CountBySlug 统计 slug 数量
func (r *GormArticleRepository) CountBySlug(slug string, excludeID *string) (int64, error) {
	var count int64
	query := r.db.Model(&models.Article{}).Where("slug = ?", slug)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByCategory 统计引用某分类的文章数（不含已归档）
func (r *GormArticleRepository) CountByCategory(slug string) (int64, error) {
	expr, arg := jsonArrayContains(r.db, "articles.categories", slug)
	var count int64
	err := r.db.Model(&models.Article{}).
		Where("status <> ?", constants.ArticleStatusArchived).
		Where(expr, arg).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
