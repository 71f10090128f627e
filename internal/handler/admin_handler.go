package handler

import (
	"errors"
	"net/http"

	"school_management/internal/middleware"
	"school_management/internal/model"
	"school_management/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves the user, student and teacher endpoints
type AdminHandler struct {
	responder
	service service.UserService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(s service.UserService, exposeDetails bool) *AdminHandler {
	return &AdminHandler{responder: responder{exposeDetails: exposeDetails}, service: s}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		h.internalError(c, "list users", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": model.NewUserViews(users)})
}

// UpdateUser lets an admin edit anyone and every other user edit only themselves
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	var req model.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	claims := middleware.ClaimsFrom(c)
	isSelf := claims.UserID != 0 && claims.UserID == req.ID
	if !isSelf && !middleware.RequireRole(claims, model.RoleAdmin) {
		errorJSON(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.service.UpdateUser(c.Request.Context(), req); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			errorJSON(c, http.StatusNotFound, "User does not exist")
		case errors.Is(err, service.ErrUserAlreadyExists):
			errorJSON(c, http.StatusUnauthorized, "User already exists!")
		default:
			h.internalError(c, "update user", err)
		}
		return
	}
	messageJSON(c, http.StatusOK, "User updated successfully")
}

func (h *AdminHandler) ListStudents(c *gin.Context) {
	students, err := h.service.ListStudents(c.Request.Context(), middleware.ClaimsFrom(c))
	if err != nil {
		h.internalError(c, "list students", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"students": model.NewUserViews(students), "students_count": len(students)})
}

func (h *AdminHandler) AddStudent(c *gin.Context) {
	var req model.AddStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if _, err := h.service.AddStudent(c.Request.Context(), req); err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			errorJSON(c, http.StatusUnauthorized, "User already exists!")
			return
		}
		h.internalError(c, "add student", err)
		return
	}
	messageJSON(c, http.StatusOK, "add student successfully")
}

func (h *AdminHandler) ListTeachers(c *gin.Context) {
	teachers, err := h.service.ListTeachers(c.Request.Context())
	if err != nil {
		h.internalError(c, "list teachers", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"teachers": teachers, "teachers_count": len(teachers)})
}

// RegisterAdminRoutes registers user, student and teacher routes under /admin.
// profileMW must precede every role check.
func (h *AdminHandler) RegisterAdminRoutes(router *gin.RouterGroup, profileMW gin.HandlerFunc) {
	admin := router.Group("/admin", profileMW)
	{
		admin.GET("/users", middleware.AdminMiddleware(), h.ListUsers)
		admin.PATCH("/users", h.UpdateUser)
		admin.GET("/students", middleware.MemberMiddleware(), h.ListStudents)
		admin.POST("/students", middleware.AdminMiddleware(), h.AddStudent)
		admin.GET("/teachers", middleware.MemberMiddleware(), h.ListTeachers)
	}
}
