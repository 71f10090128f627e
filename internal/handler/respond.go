package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// responder carries the error-reporting policy shared by all handlers
type responder struct {
	exposeDetails bool
}

// internalError logs err with the request logger and answers 500. The detail
// is only echoed to the client when exposeDetails is set.
func (r responder) internalError(c *gin.Context, op string, err error) {
	zerolog.Ctx(c.Request.Context()).Error().Err(err).Str("op", op).Msg("request failed")
	msg := "Internal server error"
	if r.exposeDetails {
		msg += ": " + err.Error()
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

func errorJSON(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

func messageJSON(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}
