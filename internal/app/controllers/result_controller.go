package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/openlab/internal/app/models/dto"
	"github.com/yigit/openlab/internal/app/services"
	"github.com/yigit/openlab/internal/middleware"
)

// ResultController serves published assignment results
type ResultController struct {
	resultService services.ResultService
}

// NewResultController creates a new ResultController
func NewResultController(resultService services.ResultService) *ResultController {
	return &ResultController{
		resultService: resultService,
	}
}

// GetResult looks up an applicant's sessions
// @Summary Look up results
// @Description Returns published=false until results are published
// @Tags results
// @Produce json
// @Param phone query string true "Phone number"
// @Param name query string true "Applicant name"
// @Success 200 {object} dto.APIResponse{data=models.StudentResult} "Result retrieved"
// @Failure 404 {object} dto.ErrorResponse "No matching application"
// @Router /results [get]
func (c *ResultController) GetResult(ctx *gin.Context) {
	var query dto.LookupQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	result, err := c.resultService.Lookup(ctx, query.Phone, query.Name)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result))
}
