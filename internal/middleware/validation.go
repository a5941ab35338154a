package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/openlab/internal/app/models/dto"
)

// HandleBindingError answers 400 for a request that failed to bind or
// failed its binding tags.
func HandleBindingError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
}

// InvalidParam answers 400 for a malformed path or query parameter.
func InvalidParam(c *gin.Context, name, message string) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message).WithField(name)
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
}
