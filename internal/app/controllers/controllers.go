package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/openlab/internal/middleware"
)

// parseIDParam reads a positive int64 path parameter. On failure it writes
// the 400 response and returns false.
func parseIDParam(ctx *gin.Context, name, label string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id < 1 {
		middleware.InvalidParam(ctx, name, "Invalid "+label+" ID")
		return 0, false
	}
	return id, true
}
