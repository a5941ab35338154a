package dto

import "github.com/yigit/openlab/internal/app/models"

// RegisterStudentRequest represents the body of POST /students
type RegisterStudentRequest struct {
	Name         string `json:"name" binding:"required,max=100" example:"Jane Doe"`
	Phone        string `json:"phone" binding:"required" example:"010-1234-5678"`
	Email        string `json:"email" binding:"required,email" example:"jane@example.com"`
	Affiliation  string `json:"affiliation" example:"Seoul High School"`
	Choice1LabID *int64 `json:"choice1LabId" example:"1"`
	Choice2LabID *int64 `json:"choice2LabId" example:"2"`
	Choice3LabID *int64 `json:"choice3LabId" example:"3"`
}

// ToModel converts the request to a student
func (r *RegisterStudentRequest) ToModel() *models.Student {
	return &models.Student{
		Name:         r.Name,
		Phone:        r.Phone,
		Email:        r.Email,
		Affiliation:  r.Affiliation,
		Choice1LabID: r.Choice1LabID,
		Choice2LabID: r.Choice2LabID,
		Choice3LabID: r.Choice3LabID,
	}
}

// UpdateChoicesRequest represents the body of PUT /students/:id/choices
type UpdateChoicesRequest struct {
	Choice1LabID *int64 `json:"choice1LabId" example:"1"`
	Choice2LabID *int64 `json:"choice2LabId" example:"2"`
	Choice3LabID *int64 `json:"choice3LabId" example:"3"`
}

// LookupQuery identifies an applicant by phone number and name
type LookupQuery struct {
	Phone string `form:"phone" binding:"required"`
	Name  string `form:"name" binding:"required"`
}
