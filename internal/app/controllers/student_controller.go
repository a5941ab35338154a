package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/openlab/internal/app/models/dto"
	"github.com/yigit/openlab/internal/app/services"
	"github.com/yigit/openlab/internal/middleware"
)

// StudentController handles applications
type StudentController struct {
	studentService services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService) *StudentController {
	return &StudentController{
		studentService: studentService,
	}
}

// Register handles a new application
// @Summary Apply for a lab visit
// @Description Registers an applicant with up to three preferred labs while registration is open
// @Tags students
// @Accept json
// @Produce json
// @Param request body dto.RegisterStudentRequest true "Application"
// @Success 201 {object} dto.APIResponse{data=models.Student} "Application registered"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Registration is closed"
// @Failure 409 {object} dto.ErrorResponse "Phone number already registered"
// @Router /students [post]
func (c *StudentController) Register(ctx *gin.Context) {
	var req dto.RegisterStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	student, err := c.studentService.Register(ctx, req.ToModel())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(student))
}

// Lookup finds an application by phone number and name
// @Summary Look up an application
// @Tags students
// @Produce json
// @Param phone query string true "Phone number"
// @Param name query string true "Applicant name"
// @Success 200 {object} dto.APIResponse{data=models.Student} "Application found"
// @Failure 404 {object} dto.ErrorResponse "No matching application"
// @Router /students/lookup [get]
func (c *StudentController) Lookup(ctx *gin.Context) {
	var query dto.LookupQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	student, err := c.studentService.Lookup(ctx, query.Phone, query.Name)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(student))
}

// UpdateChoices changes an applicant's preferred labs
// @Summary Update preferred labs
// @Tags students
// @Accept json
// @Produce json
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Param request body dto.UpdateChoicesRequest true "Preferences"
// @Success 200 {object} dto.APIResponse{data=models.Student} "Preferences updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid preferences"
// @Failure 403 {object} dto.ErrorResponse "Registration is closed"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id}/choices [put]
func (c *StudentController) UpdateChoices(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "student")
	if !ok {
		return
	}

	var req dto.UpdateChoicesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	student, err := c.studentService.UpdateChoices(ctx, id, req.Choice1LabID, req.Choice2LabID, req.Choice3LabID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(student))
}

// GetAllStudents lists every application, newest first
// @Summary List applications
// @Tags admin
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Student} "Applications retrieved"
// @Router /admin/students [get]
func (c *StudentController) GetAllStudents(ctx *gin.Context) {
	students, err := c.studentService.ListStudents(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(students))
}

// DeleteStudent removes an application and its assignments
// @Summary Delete an application
// @Tags admin
// @Produce json
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Application deleted"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /admin/students/{id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "student")
	if !ok {
		return
	}

	if err := c.studentService.DeleteStudent(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Student deleted successfully"}))
}
