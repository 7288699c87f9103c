package service

import (
	"strings"

	"github.com/ze-news/internal/constants"
	"github.com/ze-news/internal/logger"
	"github.com/ze-news/internal/models"
	"github.com/ze-news/internal/repository"

	"go.uber.org/zap"
)

// CourseService 课程业务服务
type CourseService struct {
	repo repository.CourseRepository
	log  *zap.SugaredLogger
}

// NewCourseService 创建课程服务
func NewCourseService(repo repository.CourseRepository, log *zap.SugaredLogger) *CourseService {
	if log == nil {
		log = logger.Component("course")
	}
	return &CourseService{repo: repo, log: log}
}

// CourseInput 课程创建/更新参数
type CourseInput struct {
	Title        string
	Slug         string
	Description  string
	ThumbnailURL string
	Status       string
}

// ModuleInput 章节参数
type ModuleInput struct {
	Title       string
	Description string
	SortOrder   int
}

// VideoInput 视频参数
type VideoInput struct {
	Title           string
	VideoURL        string
	DurationSeconds int
	SortOrder       int
}

// MaterialInput 资料参数
type MaterialInput struct {
	Title     string
	FileURL   string
	FileType  string
	SortOrder int
}

// CourseQuery 课程列表查询
type CourseQuery struct {
	Page       int
	PageSize   int
	Status     string
	Search     string
	Privileged bool
}

// List 课程列表，非特权调用只返回已发布课程
func (s *CourseService) List(q CourseQuery) ([]models.Course, int64, error) {
	filter := repository.CourseListFilter{
		Page:     q.Page,
		PageSize: q.PageSize,
		Search:   q.Search,
	}
	if q.Privileged {
		filter.Status = strings.TrimSpace(q.Status)
	} else {
		filter.OnlyPublished = true
	}
	return s.repo.List(filter)
}

// Get 课程详情（含章节树）
func (s *CourseService) Get(id uint, privileged bool) (*models.Course, error) {
	course, err := s.repo.GetByID(id, true)
	if err != nil {
		return nil, err
	}
	if course == nil || (!privileged && course.Status != constants.CourseStatusPublished) {
		return nil, ErrCourseNotFound
	}
	return course, nil
}

// Create 创建课程
func (s *CourseService) Create(authorID string, in CourseInput) (*models.Course, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	status, err := normalizeCourseStatus(in.Status, constants.CourseStatusDraft)
	if err != nil {
		return nil, err
	}
	slug, err := s.courseSlug(in.Slug, title, nil)
	if err != nil {
		return nil, err
	}
	course := &models.Course{
		Title:        title,
		Slug:         slug,
		Description:  strings.TrimSpace(in.Description),
		ThumbnailURL: strings.TrimSpace(in.ThumbnailURL),
		Status:       status,
		AuthorID:     authorID,
	}
	if err := s.repo.Create(course); err != nil {
		return nil, saveError("create course", err)
	}
	s.log.Infow("course_created", "course_id", course.ID, "slug", course.Slug)
	return course, nil
}

// Update 更新课程
func (s *CourseService) Update(id uint, in CourseInput) (*models.Course, error) {
	course, err := s.load(id)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	status, err := normalizeCourseStatus(in.Status, course.Status)
	if err != nil {
		return nil, err
	}
	slug := course.Slug
	if strings.TrimSpace(in.Slug) != "" && GenerateSlug(in.Slug) != course.Slug {
		if slug, err = s.courseSlug(in.Slug, title, &id); err != nil {
			return nil, err
		}
	}
	course.Title = title
	course.Slug = slug
	course.Description = strings.TrimSpace(in.Description)
	course.ThumbnailURL = strings.TrimSpace(in.ThumbnailURL)
	course.Status = status
	if err := s.repo.Update(course); err != nil {
		return nil, saveError("update course", err)
	}
	return course, nil
}

// Archive 软删除：置为 archived
func (s *CourseService) Archive(id uint) (*models.Course, error) {
	course, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if course.Status == constants.CourseStatusArchived {
		return course, nil
	}
	course.Status = constants.CourseStatusArchived
	if err := s.repo.Update(course); err != nil {
		return nil, err
	}
	s.log.Infow("course_archived", "course_id", course.ID)
	return course, nil
}

// Purge 物理删除已归档课程及其章节内容
func (s *CourseService) Purge(id uint) error {
	course, err := s.load(id)
	if err != nil {
		return err
	}
	if course.Status != constants.CourseStatusArchived {
		return ErrInvalidStatusChange
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.log.Infow("course_purged", "course_id", id)
	return nil
}

// ListModules 章节列表
func (s *CourseService) ListModules(courseID uint, privileged bool) ([]models.CourseModule, error) {
	if _, err := s.Get(courseID, privileged); err != nil {
		return nil, err
	}
	return s.repo.ListModules(courseID)
}

// CreateModule 创建章节
func (s *CourseService) CreateModule(courseID uint, in ModuleInput) (*models.CourseModule, error) {
	if _, err := s.load(courseID); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	module := &models.CourseModule{
		CourseID:    courseID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		SortOrder:   in.SortOrder,
	}
	if err := s.repo.CreateModule(module); err != nil {
		return nil, err
	}
	return module, nil
}

// UpdateModule 更新章节
func (s *CourseService) UpdateModule(courseID, moduleID uint, in ModuleInput) (*models.CourseModule, error) {
	module, err := s.loadModule(courseID, moduleID)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	module.Title = title
	module.Description = strings.TrimSpace(in.Description)
	module.SortOrder = in.SortOrder
	if err := s.repo.UpdateModule(module); err != nil {
		return nil, err
	}
	return module, nil
}

// DeleteModule 删除章节及其视频与资料
func (s *CourseService) DeleteModule(courseID, moduleID uint) error {
	if _, err := s.loadModule(courseID, moduleID); err != nil {
		return err
	}
	return s.repo.DeleteModule(moduleID)
}

// ListVideos 视频列表
func (s *CourseService) ListVideos(courseID, moduleID uint, privileged bool) ([]models.Video, error) {
	if _, err := s.Get(courseID, privileged); err != nil {
		return nil, err
	}
	if _, err := s.loadModule(courseID, moduleID); err != nil {
		return nil, err
	}
	return s.repo.ListVideos(moduleID)
}

// CreateVideo 添加视频
func (s *CourseService) CreateVideo(courseID, moduleID uint, in VideoInput) (*models.Video, error) {
	if _, err := s.loadModule(courseID, moduleID); err != nil {
		return nil, err
	}
	video := &models.Video{ModuleID: moduleID}
	if err := applyVideoInput(video, in); err != nil {
		return nil, err
	}
	if err := s.repo.CreateVideo(video); err != nil {
		return nil, err
	}
	return video, nil
}

// UpdateVideo 更新视频
func (s *CourseService) UpdateVideo(courseID, moduleID, videoID uint, in VideoInput) (*models.Video, error) {
	video, err := s.loadVideo(courseID, moduleID, videoID)
	if err != nil {
		return nil, err
	}
	if err := applyVideoInput(video, in); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateVideo(video); err != nil {
		return nil, err
	}
	return video, nil
}

// DeleteVideo 删除视频
func (s *CourseService) DeleteVideo(courseID, moduleID, videoID uint) error {
	if _, err := s.loadVideo(courseID, moduleID, videoID); err != nil {
		return err
	}
	return s.repo.DeleteVideo(videoID)
}

// ListMaterials 资料列表
func (s *CourseService) ListMaterials(courseID, moduleID uint, privileged bool) ([]models.Material, error) {
	if _, err := s.Get(courseID, privileged); err != nil {
		return nil, err
	}
	if _, err := s.loadModule(courseID, moduleID); err != nil {
		return nil, err
	}
	return s.repo.ListMaterials(moduleID)
}

// CreateMaterial 添加资料
func (s *CourseService) CreateMaterial(courseID, moduleID uint, in MaterialInput) (*models.Material, error) {
	if _, err := s.loadModule(courseID, moduleID); err != nil {
		return nil, err
	}
	material := &models.Material{ModuleID: moduleID}
	if err := applyMaterialInput(material, in); err != nil {
		return nil, err
	}
	if err := s.repo.CreateMaterial(material); err != nil {
		return nil, err
	}
	return material, nil
}

// UpdateMaterial 更新资料
func (s *CourseService) UpdateMaterial(courseID, moduleID, materialID uint, in MaterialInput) (*models.Material, error) {
	material, err := s.loadMaterial(courseID, moduleID, materialID)
	if err != nil {
		return nil, err
	}
	if err := applyMaterialInput(material, in); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateMaterial(material); err != nil {
		return nil, err
	}
	return material, nil
}

// DeleteMaterial 删除资料
func (s *CourseService) DeleteMaterial(courseID, moduleID, materialID uint) error {
	if _, err := s.loadMaterial(courseID, moduleID, materialID); err != nil {
		return err
	}
	return s.repo.DeleteMaterial(materialID)
}

func (s *CourseService) load(id uint) (*models.Course, error) {
	course, err := s.repo.GetByID(id, false)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}
	return course, nil
}

func (s *CourseService) loadModule(courseID, moduleID uint) (*models.CourseModule, error) {
	module, err := s.repo.GetModule(courseID, moduleID)
	if err != nil {
		return nil, err
	}
	if module == nil {
		return nil, ErrModuleNotFound
	}
	return module, nil
}

func (s *CourseService) loadVideo(courseID, moduleID, videoID uint) (*models.Video, error) {
	if _, err := s.loadModule(courseID, moduleID); err != nil {
		return nil, err
	}
	video, err := s.repo.GetVideo(moduleID, videoID)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, ErrVideoNotFound
	}
	return video, nil
}

func (s *CourseService) loadMaterial(courseID, moduleID, materialID uint) (*models.Material, error) {
	if _, err := s.loadModule(courseID, moduleID); err != nil {
		return nil, err
	}
	material, err := s.repo.GetMaterial(moduleID, materialID)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, ErrMaterialNotFound
	}
	return material, nil
}

func (s *CourseService) courseSlug(raw, title string, excludeID *uint) (string, error) {
	slug := GenerateSlug(raw)
	explicit := slug != ""
	if !explicit {
		slug = GenerateSlug(title)
	}
	if slug == "" {
		return "", ErrValidation
	}
	count, err := s.repo.CountBySlug(slug, excludeID)
	if err != nil {
		return "", err
	}
	if count > 0 {
		return "", ErrSlugExists
	}
	return slug, nil
}

func normalizeCourseStatus(raw, fallback string) (string, error) {
	status := strings.ToLower(strings.TrimSpace(raw))
	if status == "" {
		return fallback, nil
	}
	switch status {
	case constants.CourseStatusDraft, constants.CourseStatusPublished, constants.CourseStatusArchived:
		return status, nil
	default:
		return "", ErrInvalidCourseStatus
	}
}

func applyVideoInput(video *models.Video, in VideoInput) error {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return ErrTitleRequired
	}
	url := strings.TrimSpace(in.VideoURL)
	if url == "" {
		return ErrValidation
	}
	if in.DurationSeconds < 0 {
		return ErrValidation
	}
	video.Title = title
	video.VideoURL = url
	video.DurationSeconds = in.DurationSeconds
	video.SortOrder = in.SortOrder
	return nil
}

func applyMaterialInput(material *models.Material, in MaterialInput) error {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return ErrTitleRequired
	}
	url := strings.TrimSpace(in.FileURL)
	if url == "" {
		return ErrValidation
	}
	material.Title = title
	material.FileURL = url
	material.FileType = strings.ToLower(strings.TrimSpace(in.FileType))
	material.SortOrder = in.SortOrder
	return nil
}
