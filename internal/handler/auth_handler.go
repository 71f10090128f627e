package handler

import (
	"errors"
	"net/http"

	"school_management/internal/middleware"
	"school_management/internal/model"
	"school_management/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	responder
	service service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(s service.AuthService, exposeDetails bool) *AuthHandler {
	return &AuthHandler{responder: responder{exposeDetails: exposeDetails}, service: s}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, token, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			middleware.LoginAttemptsTotal.WithLabelValues("invalid").Inc()
			errorJSON(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		middleware.LoginAttemptsTotal.WithLabelValues("error").Inc()
		h.internalError(c, "login", err)
		return
	}

	middleware.LoginAttemptsTotal.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, gin.H{"accessToken": token, "user": model.NewUserView(user)})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "Invalid request: "+validationMessage(err))
		return
	}

	user, token, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			errorJSON(c, http.StatusUnauthorized, "User already exists!")
			return
		}
		h.internalError(c, "register", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"accessToken": token, "user": model.NewUserView(user)})
}

// Profile returns the stored row of the token's user
func (h *AuthHandler) Profile(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	if claims.UserID == 0 {
		errorJSON(c, http.StatusUnauthorized, "User not found")
		return
	}

	user, err := h.service.Profile(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			errorJSON(c, http.StatusUnauthorized, "User not found")
			return
		}
		h.internalError(c, "profile", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": model.NewUserView(user)})
}

// RegisterAuthRoutes registers authentication routes
func (h *AuthHandler) RegisterAuthRoutes(router *gin.RouterGroup, loginLimitMW, profileMW gin.HandlerFunc) {
	auth := router.Group("/auth")
	{
		auth.POST("/login", loginLimitMW, h.Login)
		auth.POST("/register", h.Register)
		auth.GET("/profile", profileMW, h.Profile)
	}
}
