package admin

import (
	"strconv"

	handlershared "github.com/ze-news/internal/http/handlers/shared"
	"github.com/ze-news/internal/http/response"
	"github.com/ze-news/internal/service"

	"github.com/gin-gonic/gin"
)

// CourseRequest 课程创建/更新请求
type CourseRequest struct {
	Title        string `json:"title" binding:"required"`
	Slug         string `json:"slug"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnail_url"`
	Status       string `json:"status"`
}

// ModuleRequest 模块请求
type ModuleRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
}

// VideoRequest 视频请求
type VideoRequest struct {
	Title           string `json:"title" binding:"required"`
	VideoURL        string `json:"video_url"`
	DurationSeconds int    `json:"duration_seconds"`
	SortOrder       int    `json:"sort_order"`
}

// MaterialRequest 资料请求
type MaterialRequest struct {
	Title     string `json:"title" binding:"required"`
	FileURL   string `json:"file_url"`
	FileType  string `json:"file_type"`
	SortOrder int    `json:"sort_order"`
}

func (r CourseRequest) toInput() service.CourseInput {
	return service.CourseInput{
		Title:        r.Title,
		Slug:         r.Slug,
		Description:  r.Description,
		ThumbnailURL: r.ThumbnailURL,
		Status:       r.Status,
	}
}

// CreateCourse 创建课程
func (h *Handler) CreateCourse(c *gin.Context) {
	identity, ok := requirePrivileged(c)
	if !ok {
		return
	}
	var req CourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	course, err := h.CourseService.Create(identity.ProfileID, req.toInput())
	if err != nil {
		respondMapped(c, err, handlershared.CourseErrorRules, "error.course_save_failed")
		return
	}
	response.Success(c, course)
}

// UpdateCourse 更新课程
func (h *Handler) UpdateCourse(c *gin.Context) {
	if _, ok := requirePrivileged(c); !ok {
		return
	}
	courseID, ok := parseUintParam(c, "id", "error.course_id_invalid")
	if !ok {
		return
	}
	var req CourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	course, err := h.CourseService.Update(courseID, req.toInput())
	if err != nil {
		respondMapped(c, err, handlershared.CourseErrorRules, "error.course_save_failed")
		return
	}
	response.Success(c, course)
}

// DeleteCourse 默认归档；?purge=true 物理删除已归档课程
func (h *Handler) DeleteCourse(c *gin.Context) {
	if _, ok := requirePrivileged(c); !ok {
		return
	}
	courseID, ok := parseUintParam(c, "id", "error.course_id_invalid")
	if !ok {
		return
	}
	if purge, _ := strconv.ParseBool(c.DefaultQuery("purge", "false")); purge {
		if err := h.CourseService.Purge(courseID); err != nil {
			respondMapped(c, err, handlershared.CourseErrorRules, "error.course_delete_failed")
			return
		}
		requestLog(c).Infow("admin_course_purged", "course_id", courseID)
		response.Success(c, gin.H{"id": courseID, "deleted": true})
		return
	}
	course, err := h.CourseService.Archive(courseID)
	if err != nil {
		respondMapped(c, err, handlershared.CourseErrorRules, "error.course_delete_failed")
		return
	}
	response.Success(c, course)
}

// CreateModule 创建模块
func (h *Handler) CreateModule(c *gin.Context) {
	if _, ok := requirePrivileged(c); !ok {
		return
	}
	courseID, ok := parseUintParam(c, "id", "error.course_id_invalid")
	if !ok {
		return
	}
	var req ModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	module, err := h.CourseService.CreateModule(courseID, service.ModuleInput(req))
	if err != nil {
		respondMapped(c, err, handlershared.CourseErrorRules, "error.course_save_failed")
		return
	}
	response.Success(c, module)
}

// UpdateModule 更新模块
func (h *Handler) UpdateModule(c *gin.Context) {
	if _, ok := requirePrivileged(c); !ok {
		return
	}
	courseID, moduleID, ok := parseModulePath(c)
	if !ok {
		return
	}
	var req ModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	module, err := h.CourseService.UpdateModule(courseID, moduleID, service.ModuleInput(req))
	if err != nil {
		respondMapped(c, err, handlershared.CourseErrorRules, "error.course_save_failed")
		return
	}
	response.Success(c, module)
}

// DeleteModule 删除模块及其视频与资料
func (h *Handler) DeleteModule(c *gin.Context) {
	if _, ok := requirePrivileged(c); !ok {
		return
	}
	courseID, moduleID, ok := parseModulePath(c)
	if !ok {
		return
	}
	if err := h.CourseService.DeleteModule(courseID, moduleID); err != nil {
		respondMapped(c, err, handlershared.CourseErrorRules, "error.course_delete_failed")
		return
	}
	response.Success(c, gin.H{"id": moduleID, "deleted": true})
}

// CreateVideo 创建视频
func (h *Handler) CreateVideo(c *gin.Context) {
	if _, ok := requirePrivileged(c); !ok {
		return
	}
	courseID, moduleID, ok := parseModulePath(c)
	if !ok {
		return
	}
	var req VideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	video, err := h.CourseService.CreateVideo(courseID, moduleID, service.VideoInput(req))
	if err != nil {
		respondMapped(c, err, handlershared.CourseErrorRules, "error.course_save_failed")
		return
	}
	response.Success(c, video)
}

// UpdateVideo 更新视频
func (h *Handler) UpdateVideo(c *gin.Context) {
	if _, ok := requirePrivileged(c); !ok {
		return
	}
	courseID, moduleID, ok := parseModulePath(c)
	if !ok {
		return
	}
	itemID, ok := parseUintParam(c, "item_id", "error.item_id_invalid")
	if !ok {
		return
	}
	var req VideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	video, err := h.CourseService.UpdateVideo(courseID, moduleID, itemID, service.VideoInput(req))
	if err != nil {
		respondMapped(c, err, handlershared.CourseErrorRules, "error.course_save_failed")
		return
	}
	response.Success(c, video)
}

// DeleteVideo 删除视频
func (h *Handler) DeleteVideo(c *gin.Context) {
	if _, ok := requirePrivileged(c); !ok {
		return
	}
	courseID, moduleID, ok := parseModulePath(c)
	if !ok {
		return
	}
	itemID, ok := parseUintParam(c, "item_id", "error.item_id_invalid")
	if !ok {
		return
	}
	if err := h.CourseService.DeleteVideo(courseID, moduleID, itemID); err != nil {
		respondMapped(c, err, handlershared.CourseErrorRules, "error.course_delete_failed")
		return
	}
	response.Success(c, gin.H{"id": itemID, "deleted": true})
}

// CreateMaterial 创建资料
func (h *Handler) CreateMaterial(c *gin.Context) {
	if _, ok := requirePrivileged(c); !ok {
		return
	}
	courseID, moduleID, ok := parseModulePath(c)
	if !ok {
		return
	}
	var req MaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	material, err := h.CourseService.CreateMaterial(courseID, moduleID, service.MaterialInput(req))
	if err != nil {
		respondMapped(c, err, handlershared.CourseErrorRules, "error.course_save_failed")
		return
	}
	response.Success(c, material)
}

// UpdateMaterial 更新资料
func (h *Handler) UpdateMaterial(c *gin.Context) {
	if _, ok := requirePrivileged(c); !ok {
		return
	}
	courseID, moduleID, ok := parseModulePath(c)
	if !ok {
		return
	}
	itemID, ok := parseUintParam(c, "item_id", "error.item_id_invalid")
	if !ok {
		return
	}
	var req MaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	material, err := h.CourseService.UpdateMaterial(courseID, moduleID, itemID, service.MaterialInput(req))
	if err != nil {
		respondMapped(c, err, handlershared.CourseErrorRules, "error.course_save_failed")
		return
	}
	response.Success(c, material)
}

// DeleteMaterial 删除资料
func (h *Handler) DeleteMaterial(c *gin.Context) {
	if _, ok := requirePrivileged(c); !ok {
		return
	}
	courseID, moduleID, ok := parseModulePath(c)
	if !ok {
		return
	}
	itemID, ok := parseUintParam(c, "item_id", "error.item_id_invalid")
	if !ok {
		return
	}
	if err := h.CourseService.DeleteMaterial(courseID, moduleID, itemID); err != nil {
		respondMapped(c, err, handlershared.CourseErrorRules, "error.course_delete_failed")
		return
	}
	response.Success(c, gin.H{"id": itemID, "deleted": true})
}

func parseModulePath(c *gin.Context) (uint, uint, bool) {
	courseID, ok := parseUintParam(c, "id", "error.course_id_invalid")
	if !ok {
		return 0, 0, false
	}
	moduleID, ok := parseUintParam(c, "module_id", "error.module_id_invalid")
	if !ok {
		return 0, 0, false
	}
	return courseID, moduleID, true
}
