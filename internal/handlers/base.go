package handlers

import (
	"errors"
	"log"
	"net/http"

	"mangrove/internal/models"
	"mangrove/internal/services"

	"github.com/gin-gonic/gin"
)

// respondError maps the domain error taxonomy to HTTP statuses:
// Validation/Invariant 400, bad credentials 401, Authorization 403,
// NotFound 404, everything else 500.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "an internal error occurred"

	switch {
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrInvariant):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, services.ErrAuthentication):
		status = http.StatusUnauthorized
		message = err.Error()
	case errors.Is(err, models.ErrAuthorization):
		status = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	default:
		log.Printf("internal error: %v", err)
	}

	c.JSON(status, gin.H{
		"status":  "fail",
		"message": message,
	})
}

func respondSuccess(c *gin.Context, status int, data gin.H) {
	body := gin.H{"status": "success"}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}
