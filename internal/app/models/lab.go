package models

import "time"

// DefaultLabCapacity is used when a lab is created without a capacity
const DefaultLabCapacity = 5

// Lab represents a lab that hosts visiting students in every session
type Lab struct {
	ID            int64     `json:"id" example:"1"`
	Name          string    `json:"name" validate:"required,max=200" example:"Machine Learning Lab"`
	ProfessorName string    `json:"professorName" validate:"required,max=100" example:"Prof. Kim"`
	Capacity      int       `json:"capacity" validate:"min=1" example:"5"` // Students per session
	Description   string    `json:"description" example:"Deep learning and NLP"`
	Location      string    `json:"location" example:"E3-401"`
	CreatedAt     time.Time `json:"createdAt"`
}
