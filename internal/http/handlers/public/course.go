package public

import (
	"strings"

	handlershared "github.com/ze-news/internal/http/handlers/shared"
	"github.com/ze-news/internal/http/response"
	"github.com/ze-news/internal/service"

	"github.com/gin-gonic/gin"
)

// ListCourses 课程列表
func (h *Handler) ListCourses(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	items, total, err := h.CourseService.List(service.CourseQuery{
		Page:       page,
		PageSize:   pageSize,
		Status:     strings.TrimSpace(c.Query("status")),
		Search:     strings.TrimSpace(c.Query("search")),
		Privileged: handlershared.IsPrivileged(c),
	})
	if err != nil {
		respondMapped(c, err, handlershared.CourseErrorRules, "error.course_fetch_failed")
		return
	}
	response.SuccessWithPage(c, items, response.NewPagination(page, pageSize, total))
}

// GetCourse 课程详情（含模块、视频、资料）
func (h *Handler) GetCourse(c *gin.Context) {
	courseID, ok := parseCourseID(c)
	if !ok {
		return
	}
	course, err := h.CourseService.Get(courseID, handlershared.IsPrivileged(c))
	if err != nil {
		respondMapped(c, err, handlershared.CourseErrorRules, "error.course_fetch_failed")
		return
	}
	response.Success(c, course)
}

// ListModules 课程模块列表
func (h *Handler) ListModules(c *gin.Context) {
	courseID, ok := parseCourseID(c)
	if !ok {
		return
	}
	items, err := h.CourseService.ListModules(courseID, handlershared.IsPrivileged(c))
	if err != nil {
		respondMapped(c, err, handlershared.CourseErrorRules, "error.course_fetch_failed")
		return
	}
	response.Success(c, items)
}

// ListVideos 模块视频列表
func (h *Handler) ListVideos(c *gin.Context) {
	courseID, moduleID, ok := parseModulePath(c)
	if !ok {
		return
	}
	items, err := h.CourseService.ListVideos(courseID, moduleID, handlershared.IsPrivileged(c))
	if err != nil {
		respondMapped(c, err, handlershared.CourseErrorRules, "error.course_fetch_failed")
		return
	}
	response.Success(c, items)
}

// ListMaterials 模块资料列表
func (h *Handler) ListMaterials(c *gin.Context) {
	courseID, moduleID, ok := parseModulePath(c)
	if !ok {
		return
	}
	items, err := h.CourseService.ListMaterials(courseID, moduleID, handlershared.IsPrivileged(c))
	if err != nil {
		respondMapped(c, err, handlershared.CourseErrorRules, "error.course_fetch_failed")
		return
	}
	response.Success(c, items)
}

func parseCourseID(c *gin.Context) (uint, bool) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.course_id_invalid", nil)
	}
	return id, ok
}

func parseModulePath(c *gin.Context) (uint, uint, bool) {
	courseID, ok := parseCourseID(c)
	if !ok {
		return 0, 0, false
	}
	moduleID, ok := handlershared.ParseUintParam(c, "module_id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.module_id_invalid", nil)
		return 0, 0, false
	}
	return courseID, moduleID, true
}
