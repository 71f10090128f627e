package middleware

import (
	"errors"
	"net/http"
	"strings"

	"school_management/internal/model"
	"school_management/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	AuthClaimsKey = "authClaims"
	bearerPrefix  = "Bearer "
)

// ExtractProfile returns the claims carried by an Authorization header.
// A missing or non-Bearer header yields empty claims and no error, so the
// caller fails every role check instead of a token check.
func ExtractProfile(header string, tokens *utils.JWTUtil) (*utils.Claims, error) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return &utils.Claims{}, nil
	}
	return tokens.ValidateToken(strings.TrimPrefix(header, bearerPrefix))
}

// RequireAdmin reports whether the header carries a valid ADMIN token
func RequireAdmin(header string, tokens *utils.JWTUtil) (bool, error) {
	claims, err := ExtractProfile(header, tokens)
	if err != nil {
		return false, err
	}
	return RequireRole(claims, model.RoleAdmin), nil
}

// ProfileMiddleware stores the request's claims under AuthClaimsKey
func ProfileMiddleware(tokens *utils.JWTUtil) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := ExtractProfile(c.GetHeader("Authorization"), tokens)
		if err != nil {
			AbortTokenError(c, err)
			return
		}
		c.Set(AuthClaimsKey, claims)
		c.Next()
	}
}

// AbortTokenError answers 401 with the message matching the token failure
func AbortTokenError(c *gin.Context, err error) {
	if errors.Is(err, utils.ErrTokenExpired) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token has expired"})
		return
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
}

// ClaimsFrom returns the claims set by ProfileMiddleware, or empty claims
func ClaimsFrom(c *gin.Context) *utils.Claims {
	if v, ok := c.Get(AuthClaimsKey); ok {
		if claims, ok := v.(*utils.Claims); ok {
			return claims
		}
	}
	return &utils.Claims{}
}
