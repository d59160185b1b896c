package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/TalentScout-AI/internal/apperr"
)

// StatusOf maps an error kind to its HTTP status.
func StatusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.KindInvalidInput:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindExtractionFailed:
		return http.StatusUnprocessableEntity
	case apperr.KindAIServiceUnavailable:
		return http.StatusServiceUnavailable
	case apperr.KindEmptyAIResponse, apperr.KindMalformedAIOutput:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes {"error", "kind"}. Storage and unknown errors are
// reported without their cause; raw model text is never returned.
func respondError(c *gin.Context, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		log.Printf("[HTTP] ❌ %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "kind": apperr.KindPersistence})
		return
	}

	detail := appErr.Detail
	switch appErr.Kind {
	case apperr.KindPersistence:
		log.Printf("[HTTP] ❌ %s %s: %v", c.Request.Method, c.FullPath(), err)
		detail = "Internal server error"
	case apperr.KindExtractionFailed:
		if appErr.Err != nil {
			detail += ": " + appErr.Err.Error()
		}
	}
	c.JSON(StatusOf(appErr.Kind), gin.H{"error": detail, "kind": appErr.Kind})
}

func badRequest(c *gin.Context, err error) {
	respondError(c, apperr.InvalidInput("Invalid request: %v", err))
}
