package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/openlab/internal/app/models"
	"github.com/yigit/openlab/internal/app/models/dto"
	"github.com/yigit/openlab/internal/app/services"
	"github.com/yigit/openlab/internal/middleware"
)

// AssignmentController handles session assignments
type AssignmentController struct {
	assignmentService services.AssignmentService
}

// NewAssignmentController creates a new AssignmentController
func NewAssignmentController(assignmentService services.AssignmentService) *AssignmentController {
	return &AssignmentController{
		assignmentService: assignmentService,
	}
}

// GetAllAssignments lists every assignment with student and lab names
// @Summary List assignments
// @Tags admin
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.AssignmentDetail} "Assignments retrieved"
// @Router /admin/assignments [get]
func (c *AssignmentController) GetAllAssignments(ctx *gin.Context) {
	assignments, err := c.assignmentService.ListAssignments(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(assignments))
}

// UpsertAssignment places a student in a lab for one session
// @Summary Assign a student manually
// @Description Creates the assignment or moves the student's existing one for that session
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.UpsertAssignmentRequest true "Assignment"
// @Success 200 {object} dto.APIResponse{data=models.Assignment} "Assignment saved"
// @Failure 400 {object} dto.ErrorResponse "Invalid session number"
// @Failure 404 {object} dto.ErrorResponse "Student or lab not found"
// @Router /admin/assignments [post]
func (c *AssignmentController) UpsertAssignment(ctx *gin.Context) {
	var req dto.UpsertAssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	assignment := req.ToModel()
	if err := c.assignmentService.UpsertAssignment(ctx, assignment); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(assignment))
}

// DeleteAssignment removes one assignment
// @Summary Delete an assignment
// @Tags admin
// @Produce json
// @Param id path int true "Assignment ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Assignment deleted"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Router /admin/assignments/{id} [delete]
func (c *AssignmentController) DeleteAssignment(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "assignment")
	if !ok {
		return
	}

	if err := c.assignmentService.DeleteAssignment(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Assignment deleted successfully"}))
}

// AutoAssign fills every open session from the students' preferences
// @Summary Run automatic assignment
// @Description Assigns every student a lab for each session they do not hold yet. Over-capacity slots are reported, not refused.
// @Tags admin
// @Produce json
// @Success 200 {object} dto.APIResponse{data=models.AutoAssignResult} "Assignment run completed"
// @Failure 500 {object} dto.ErrorResponse "Run failed and was rolled back"
// @Router /admin/auto-assign [post]
func (c *AssignmentController) AutoAssign(ctx *gin.Context) {
	result, err := c.assignmentService.AutoAssign(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result))
}

// GetOccupancy reports how full every lab is in every session
// @Summary Occupancy per lab and session
// @Tags admin
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.SlotOccupancy} "Occupancy retrieved"
// @Router /admin/occupancy [get]
func (c *AssignmentController) GetOccupancy(ctx *gin.Context) {
	occupancy, err := c.assignmentService.Occupancy(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(occupancy))
}

// Reset bulk-deletes data
// @Summary Reset data
// @Description target=assignments removes assignments; students and all also remove every application
// @Tags admin
// @Produce json
// @Param target query string false "all (default), students or assignments"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Reset completed"
// @Failure 400 {object} dto.ErrorResponse "Unknown target"
// @Router /admin/reset [delete]
func (c *AssignmentController) Reset(ctx *gin.Context) {
	var query dto.ResetQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}
	if query.Target == "" {
		query.Target = string(models.ResetAll)
	}

	if err := c.assignmentService.Reset(ctx, models.ResetTarget(query.Target)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Reset completed: " + query.Target}))
}
