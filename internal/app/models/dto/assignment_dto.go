package dto

import "github.com/yigit/openlab/internal/app/models"

// UpsertAssignmentRequest represents the body of POST /admin/assignments
type UpsertAssignmentRequest struct {
	StudentID     int64 `json:"studentId" binding:"required,min=1" example:"1"`
	SessionNumber int   `json:"sessionNumber" binding:"required" example:"2"`
	LabID         int64 `json:"labId" binding:"required,min=1" example:"3"`
}

// ToModel converts the request to an assignment
func (r *UpsertAssignmentRequest) ToModel() *models.Assignment {
	return &models.Assignment{
		StudentID:     r.StudentID,
		SessionNumber: r.SessionNumber,
		LabID:         r.LabID,
	}
}

// ResetQuery selects what DELETE /admin/reset removes
type ResetQuery struct {
	Target string `form:"target"`
}
