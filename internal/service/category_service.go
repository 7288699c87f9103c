package service

import (
	"context"
	"strings"

	"github.com/ze-news/internal/models"
	"github.com/ze-news/internal/repository"
)

// CategoryService 分类业务服务
type CategoryService struct {
	repo     repository.CategoryRepository
	articles repository.ArticleRepository
	cache    LatestArticleCache
}

// NewCategoryService 创建分类服务
func NewCategoryService(repo repository.CategoryRepository, articles repository.ArticleRepository, cache LatestArticleCache) *CategoryService {
	return &CategoryService{repo: repo, articles: articles, cache: cache}
}

// CategoryInput 创建/更新分类输入
type CategoryInput struct {
	Name        string
	Slug        string
	Description string
	SortOrder   int
}

// List 获取分类列表
func (s *CategoryService) List() ([]models.Category, error) {
	return s.repo.List()
}

// Create 创建分类
func (s *CategoryService) Create(input CategoryInput) (*models.Category, error) {
	name, slug, err := normalizeCategoryInput(input)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.CountBySlug(slug, nil)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugExists
	}

	category := models.Category{
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(input.Description),
		SortOrder:   input.SortOrder,
	}
	if err := s.repo.Create(&category); err != nil {
		return nil, saveError("create category", err)
	}
	return &category, nil
}

// Update 更新分类
// 已被文章引用的分类不允许修改 slug。
func (s *CategoryService) Update(id uint, input CategoryInput) (*models.Category, error) {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	name, slug, err := normalizeCategoryInput(input)
	if err != nil {
		return nil, err
	}

	if slug != category.Slug {
		count, err := s.repo.CountBySlug(slug, &id)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrSlugExists
		}
		used, err := s.articles.CountByCategory(category.Slug)
		if err != nil {
			return nil, err
		}
		if used > 0 {
			return nil, ErrCategoryInUse
		}
	}

	category.Name = name
	category.Slug = slug
	category.Description = strings.TrimSpace(input.Description)
	category.SortOrder = input.SortOrder
	if err := s.repo.Update(category); err != nil {
		return nil, saveError("update category", err)
	}
	return category, nil
}

// Delete 删除分类，仍被文章引用时拒绝
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}
	used, err := s.articles.CountByCategory(category.Slug)
	if err != nil {
		return err
	}
	if used > 0 {
		return ErrCategoryInUse
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx)
	}
	return nil
}

func normalizeCategoryInput(input CategoryInput) (string, string, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return "", "", ErrTitleRequired
	}
	slug := strings.ToLower(strings.TrimSpace(input.Slug))
	if slug == "" {
		slug = GenerateSlug(name)
	} else {
		slug = GenerateSlug(slug)
	}
	if slug == "" {
		return "", "", ErrValidation
	}
	return name, slug, nil
}
