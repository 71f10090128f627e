package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"school_management/internal/model"
	"school_management/internal/service"

	"github.com/gin-gonic/gin"
)

// SandboxHandler serves the unauthenticated /users endpoints on the scratch database
type SandboxHandler struct {
	responder
	service service.SandboxService
}

func NewSandboxHandler(s service.SandboxService, exposeDetails bool) *SandboxHandler {
	return &SandboxHandler{responder: responder{exposeDetails: exposeDetails}, service: s}
}

func (h *SandboxHandler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		h.internalError(c, "sandbox list users", err)
		return
	}
	if users == nil {
		users = []model.SandboxUser{}
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *SandboxHandler) CreateUser(c *gin.Context) {
	var req model.CreateSandboxUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "Missing username or email")
		return
	}

	if err := h.service.CreateUser(c.Request.Context(), req.Username, req.Email); err != nil {
		h.internalError(c, "sandbox create user", err)
		return
	}
	messageJSON(c, http.StatusCreated, "User created successfully")
}

func (h *SandboxHandler) DeleteUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), id); err != nil {
		h.internalError(c, "sandbox delete user", err)
		return
	}
	messageJSON(c, http.StatusOK, fmt.Sprintf("User %d deleted successfully", id))
}

func (h *SandboxHandler) RegisterSandboxRoutes(router gin.IRouter) {
	router.GET("/users", h.ListUsers)
	router.POST("/users", h.CreateUser)
	router.DELETE("/users/:id", h.DeleteUser)
}
