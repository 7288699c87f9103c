package repository

import (
	"errors"
	"strings"

	"github.com/ze-news/internal/constants"
	"github.com/ze-news/internal/models"

	"gorm.io/gorm"
)

// CourseRepository 课程及其章节、视频、资料的数据访问接口
type CourseRepository interface {
	List(filter CourseListFilter) ([]models.Course, int64, error)
	GetByID(id uint, withTree bool) (*models.Course, error)
	Create(course *models.Course) error
	Update(course *models.Course) error
	Delete(id uint) error
	CountBySlug(slug string, excludeID *uint) (int64, error)

	ListModules(courseID uint) ([]models.CourseModule, error)
	GetModule(courseID, moduleID uint) (*models.CourseModule, error)
	CreateModule(module *models.CourseModule) error
	UpdateModule(module *models.CourseModule) error
	DeleteModule(moduleID uint) error

	ListVideos(moduleID uint) ([]models.Video, error)
	GetVideo(moduleID, videoID uint) (*models.Video, error)
	CreateVideo(video *models.Video) error
	UpdateVideo(video *models.Video) error
	DeleteVideo(videoID uint) error

	ListMaterials(moduleID uint) ([]models.Material, error)
	GetMaterial(moduleID, materialID uint) (*models.Material, error)
	CreateMaterial(material *models.Material) error
	UpdateMaterial(material *models.Material) error
	DeleteMaterial(materialID uint) error
}

// GormCourseRepository GORM 实现
type GormCourseRepository struct {
	db *gorm.DB
}

// NewCourseRepository 创建课程仓库
func NewCourseRepository(db *gorm.DB) *GormCourseRepository {
	return &GormCourseRepository{db: db}
}

// List 课程列表
func (r *GormCourseRepository) List(filter CourseListFilter) ([]models.Course, int64, error) {
	query := r.db.Model(&models.Course{})
	if filter.OnlyPublished {
		query = query.Where("status = ?", constants.CourseStatusPublished)
	} else if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		condition, args := buildLikeCondition(r.db, search, "title", "slug")
		query = query.Where(condition, args...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var courses []models.Course
	if err := applyPagination(query, filter.Page, filter.PageSize).Order("created_at DESC").Find(&courses).Error; err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

// GetByID 获取课程，withTree 时预加载章节及其视频、资料
func (r *GormCourseRepository) GetByID(id uint, withTree bool) (*models.Course, error) {
	query := r.db
	if withTree {
		query = query.
			Preload("Modules", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC, id ASC") }).
			Preload("Modules.Videos", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC, id ASC") }).
			Preload("Modules.Materials", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC, id ASC") })
	}
	var course models.Course
	if err := query.First(&course, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &course, nil
}

// Create 创建课程
func (r *GormCourseRepository) Create(course *models.Course) error {
	return translateWriteError(r.db.Omit("Modules").Create(course).Error)
}

// Update 更新课程
func (r *GormCourseRepository) Update(course *models.Course) error {
	return translateWriteError(r.db.Omit("Modules").Save(course).Error)
}

// Delete 删除课程及其全部章节内容
func (r *GormCourseRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		moduleIDs := tx.Model(&models.CourseModule{}).Select("id").Where("course_id = ?", id)
		if err := tx.Where("module_id IN (?)", moduleIDs).Delete(&models.Video{}).Error; err != nil {
			return err
		}
		if err := tx.Where("module_id IN (?)", moduleIDs).Delete(&models.Material{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&models.CourseModule{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Course{}, id).Error
	})
}

// CountBySlug 统计 slug 数量
func (r *GormCourseRepository) CountBySlug(slug string, excludeID *uint) (int64, error) {
	var count int64
	query := r.db.Model(&models.Course{}).Where("slug = ?", slug)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListModules 章节列表
func (r *GormCourseRepository) ListModules(courseID uint) ([]models.CourseModule, error) {
	var modules []models.CourseModule
	if err := r.db.Where("course_id = ?", courseID).Order("sort_order ASC, id ASC").Find(&modules).Error; err != nil {
		return nil, err
	}
	return modules, nil
}

// GetModule 获取课程下的章节
func (r *GormCourseRepository) GetModule(courseID, moduleID uint) (*models.CourseModule, error) {
	var module models.CourseModule
	if err := r.db.Where("id = ? AND course_id = ?", moduleID, courseID).First(&module).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &module, nil
}

// CreateModule 创建章节
func (r *GormCourseRepository) CreateModule(module *models.CourseModule) error {
	return r.db.Omit("Videos", "Materials").Create(module).Error
}

// UpdateModule 更新章节
func (r *GormCourseRepository) UpdateModule(module *models.CourseModule) error {
	return r.db.Omit("Videos", "Materials").Save(module).Error
}

// DeleteModule 删除章节及其视频、资料
func (r *GormCourseRepository) DeleteModule(moduleID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("module_id = ?", moduleID).Delete(&models.Video{}).Error; err != nil {
			return err
		}
		if err := tx.Where("module_id = ?", moduleID).Delete(&models.Material{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.CourseModule{}, moduleID).Error
	})
}

// ListVideos 视频列表
func (r *GormCourseRepository) ListVideos(moduleID uint) ([]models.Video, error) {
	var videos []models.Video
	if err := r.db.Where("module_id = ?", moduleID).Order("sort_order ASC, id ASC").Find(&videos).Error; err != nil {
		return nil, err
	}
	return videos, nil
}

// GetVideo 获取章节下的视频
func (r *GormCourseRepository) GetVideo(moduleID, videoID uint) (*models.Video, error) {
	var video models.Video
	if err := r.db.Where("id = ? AND module_id = ?", videoID, moduleID).First(&video).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &video, nil
}

// CreateVideo 创建视频
func (r *GormCourseRepository) CreateVideo(video *models.Video) error {
	return r.db.Create(video).Error
}

// UpdateVideo 更新视频
func (r *GormCourseRepository) UpdateVideo(video *models.Video) error {
	return r.db.Save(video).Error
}

// DeleteVideo 删除视频
func (r *GormCourseRepository) DeleteVideo(videoID uint) error {
	return r.db.Delete(&models.Video{}, videoID).Error
}

// ListMaterials 资料列表
func (r *GormCourseRepository) ListMaterials(moduleID uint) ([]models.Material, error) {
	var materials []models.Material
	if err := r.db.Where("module_id = ?", moduleID).Order("sort_order ASC, id ASC").Find(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

// GetMaterial 获取章节下的资料
func (r *GormCourseRepository) GetMaterial(moduleID, materialID uint) (*models.Material, error) {
	var material models.Material
	if err := r.db.Where("id = ? AND module_id = ?", materialID, moduleID).First(&material).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &material, nil
}

// CreateMaterial 创建资料
func (r *GormCourseRepository) CreateMaterial(material *models.Material) error {
	return r.db.Create(material).Error
}

// UpdateMaterial 更新资料
func (r *GormCourseRepository) UpdateMaterial(material *models.Material) error {
	return r.db.Save(material).Error
}

// DeleteMaterial 删除资料
func (r *GormCourseRepository) DeleteMaterial(materialID uint) error {
	return r.db.Delete(&models.Material{}, materialID).Error
}
