package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"school_management/internal/middleware"
	"school_management/internal/model"
	"school_management/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// CourseHandler serves course management, enrollment and search
type CourseHandler struct {
	responder
	service service.CourseService
}

// NewCourseHandler creates a new CourseHandler
func NewCourseHandler(s service.CourseService, exposeDetails bool) *CourseHandler {
	return &CourseHandler{responder: responder{exposeDetails: exposeDetails}, service: s}
}

func (h *CourseHandler) ListCourses(c *gin.Context) {
	courses, err := h.service.List(c.Request.Context())
	if err != nil {
		h.internalError(c, "list courses", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": courses, "courses_count": len(courses)})
}

func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req model.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if _, err := h.service.Create(c.Request.Context(), req); err != nil {
		h.courseWriteError(c, "create course", err)
		return
	}
	messageJSON(c, http.StatusOK, "add course successfully")
}

func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	var req model.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.Update(c.Request.Context(), req); err != nil {
		h.courseWriteError(c, "update course", err)
		return
	}
	messageJSON(c, http.StatusOK, "Course updated successfully")
}

func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "Invalid course id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.courseWriteError(c, "delete course", err)
		return
	}
	messageJSON(c, http.StatusOK, "Course deleted successfully")
}

// EnterCourse enrolls the caller in the course named in the body
func (h *CourseHandler) EnterCourse(c *gin.Context) {
	var req model.EnterCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	claims := middleware.ClaimsFrom(c)
	if err := h.service.EnterCourse(c.Request.Context(), claims.UserID, req); err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			errorJSON(c, http.StatusNotFound, "Invalid course name or category")
		case errors.Is(err, service.ErrAlreadyEnrolled):
			errorJSON(c, http.StatusUnauthorized, "User already entered the course!")
		default:
			h.internalError(c, "enter course", err)
		}
		return
	}
	messageJSON(c, http.StatusOK, "enter course successfully")
}

// SearchCourses reads the terms from a JSON body when one is sent, otherwise
// from the query string.
func (h *CourseHandler) SearchCourses(c *gin.Context) {
	req, err := bindSearchRequest(c)
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	courses, err := h.service.Search(c.Request.Context(), req)
	if err != nil {
		h.internalError(c, "search courses", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": courses, "courses_count": len(courses)})
}

// bindSearchRequest prefers the body. ContentLength is -1 for chunked bodies,
// and an empty body falls back to the query string.
func bindSearchRequest(c *gin.Context) (model.SearchCoursesRequest, error) {
	var req model.SearchCoursesRequest
	if c.Request.ContentLength != 0 && c.Request.Body != nil && c.Request.Body != http.NoBody {
		err := c.ShouldBindWith(&req, binding.JSON)
		if !errors.Is(err, io.EOF) {
			return req, err
		}
	}
	return req, c.ShouldBindQuery(&req)
}

func (h *CourseHandler) courseWriteError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, service.ErrCourseAlreadyExists):
		errorJSON(c, http.StatusUnauthorized, "Course already exists!")
	case errors.Is(err, service.ErrCourseNotFound):
		errorJSON(c, http.StatusNotFound, "Course does not exist!")
	case errors.Is(err, service.ErrTeacherNotFound):
		errorJSON(c, http.StatusNotFound, "Teacher does not exist!")
	default:
		h.internalError(c, op, err)
	}
}

// RegisterCourseRoutes registers course routes. profileMW must run before any
// role check.
func (h *CourseHandler) RegisterCourseRoutes(router *gin.RouterGroup, profileMW gin.HandlerFunc) {
	staff := middleware.StaffMiddleware()

	admin := router.Group("/admin", profileMW)
	{
		admin.GET("/courses", middleware.MemberMiddleware(), h.ListCourses)
		admin.POST("/courses", staff, h.CreateCourse)
		admin.PUT("/courses", staff, h.UpdateCourse)
		admin.PATCH("/courses", staff, h.UpdateCourse)
		admin.DELETE("/courses/:id", staff, h.DeleteCourse)

		admin.GET("/modifycourses", staff, h.ListCourses)
		admin.PUT("/modifycourses", staff, h.UpdateCourse)
		admin.PATCH("/modifycourses", staff, h.UpdateCourse)
	}

	student := router.Group("/student", profileMW)
	student.POST("/enter_course", middleware.RoleMiddleware(model.RoleStudent, model.RoleAdmin), h.EnterCourse)

	router.GET("/search/courses", h.SearchCourses)
}
