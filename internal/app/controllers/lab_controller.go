package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/openlab/internal/app/models/dto"
	"github.com/yigit/openlab/internal/app/services"
	"github.com/yigit/openlab/internal/middleware"
)

// LabController handles lab-related operations
type LabController struct {
	labService services.LabService
}

// NewLabController creates a new LabController
func NewLabController(labService services.LabService) *LabController {
	return &LabController{
		labService: labService,
	}
}

// GetAllLabs retrieves all labs
// @Summary List labs
// @Description Retrieves every lab ordered by id
// @Tags labs
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Lab} "Labs retrieved successfully"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /labs [get]
func (c *LabController) GetAllLabs(ctx *gin.Context) {
	labs, err := c.labService.ListLabs(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(labs))
}

// GetLabByID retrieves a lab by ID
// @Summary Get lab details
// @Tags labs
// @Produce json
// @Param id path int true "Lab ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=models.Lab} "Lab retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid lab ID format"
// @Failure 404 {object} dto.ErrorResponse "Lab not found"
// @Router /labs/{id} [get]
func (c *LabController) GetLabByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "lab")
	if !ok {
		return
	}

	lab, err := c.labService.GetLab(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(lab))
}

// CreateLab handles lab creation
// @Summary Create a new lab
// @Description Creates a lab; capacity defaults to 5 when omitted
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.CreateLabRequest true "Lab information"
// @Success 201 {object} dto.APIResponse{data=models.Lab} "Lab created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/labs [post]
func (c *LabController) CreateLab(ctx *gin.Context) {
	var req dto.CreateLabRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	lab := req.ToModel()
	if err := c.labService.CreateLab(ctx, lab); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(lab))
}

// UpdateLab replaces a lab's fields
// @Summary Update a lab
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Lab ID" Format(int64) minimum(1)
// @Param request body dto.UpdateLabRequest true "Lab information"
// @Success 200 {object} dto.APIResponse{data=models.Lab} "Lab updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Lab not found"
// @Router /admin/labs/{id} [put]
func (c *LabController) UpdateLab(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "lab")
	if !ok {
		return
	}

	var req dto.UpdateLabRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	lab := req.ToModel(id)
	if err := c.labService.UpdateLab(ctx, lab); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(lab))
}

// DeleteLab removes a lab together with its assignments
// @Summary Delete a lab
// @Description Deletes a lab; its assignments are removed and preferences pointing at it are cleared
// @Tags admin
// @Produce json
// @Param id path int true "Lab ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Lab deleted successfully"
// @Failure 404 {object} dto.ErrorResponse "Lab not found"
// @Router /admin/labs/{id} [delete]
func (c *LabController) DeleteLab(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "lab")
	if !ok {
		return
	}

	if err := c.labService.DeleteLab(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Lab deleted successfully"}))
}
