package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/openlab/internal/app/models/dto"
	"github.com/yigit/openlab/internal/app/services"
	"github.com/yigit/openlab/internal/middleware"
)

// SettingsController exposes the registration and publication switches
type SettingsController struct {
	settingsService services.SettingsService
}

// NewSettingsController creates a new SettingsController
func NewSettingsController(settingsService services.SettingsService) *SettingsController {
	return &SettingsController{
		settingsService: settingsService,
	}
}

// GetSettings returns the current settings
// @Summary Get settings
// @Description Closes registration first when its close time has passed
// @Tags settings
// @Produce json
// @Success 200 {object} dto.APIResponse{data=models.Settings} "Settings retrieved"
// @Router /settings [get]
func (c *SettingsController) GetSettings(ctx *gin.Context) {
	settings, err := c.settingsService.GetSettings(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(settings))
}

// UpdateSettings applies a partial settings update
// @Summary Update settings
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.UpdateSettingsRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Settings} "Settings updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid close time"
// @Router /admin/settings [put]
func (c *SettingsController) UpdateSettings(ctx *gin.Context) {
	var req dto.UpdateSettingsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	settings, err := c.settingsService.UpdateSettings(ctx, req.ToModel())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(settings))
}
