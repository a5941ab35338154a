package dto

import "github.com/yigit/openlab/internal/app/models"

// CreateLabRequest represents the body of POST /admin/labs
type CreateLabRequest struct {
	Name          string `json:"name" binding:"required,max=200" example:"Machine Learning Lab"`
	ProfessorName string `json:"professorName" binding:"required,max=100" example:"Prof. Kim"`
	Capacity      int    `json:"capacity" binding:"omitempty,min=1" example:"5"`
	Description   string `json:"description" example:"Deep learning and NLP"`
	Location      string `json:"location" example:"E3-401"`
}

// ToModel converts the request to a lab; a zero capacity is left for the service to default
func (r *CreateLabRequest) ToModel() *models.Lab {
	return &models.Lab{
		Name:          r.Name,
		ProfessorName: r.ProfessorName,
		Capacity:      r.Capacity,
		Description:   r.Description,
		Location:      r.Location,
	}
}

// UpdateLabRequest represents the body of PUT /admin/labs/:id
type UpdateLabRequest struct {
	Name          string `json:"name" binding:"required,max=200"`
	ProfessorName string `json:"professorName" binding:"required,max=100"`
	Capacity      int    `json:"capacity" binding:"required,min=1"`
	Description   string `json:"description"`
	Location      string `json:"location"`
}

// ToModel converts the request to a lab with the given id
func (r *UpdateLabRequest) ToModel(id int64) *models.Lab {
	return &models.Lab{
		ID:            id,
		Name:          r.Name,
		ProfessorName: r.ProfessorName,
		Capacity:      r.Capacity,
		Description:   r.Description,
		Location:      r.Location,
	}
}
