package models

import "time"

// Student defines an applicant based on the 'students' table
type Student struct {
	ID           int64     `json:"id" example:"1"`
	Name         string    `json:"name" validate:"required,max=100" example:"Jane Doe"`
	Phone        string    `json:"phone" validate:"required,phone" example:"010-1234-5678"`
	Email        string    `json:"email" validate:"required,email" example:"jane@example.com"`
	Affiliation  string    `json:"affiliation" example:"Seoul High School"`
	Choice1LabID *int64    `json:"choice1LabId" example:"1"`
	Choice2LabID *int64    `json:"choice2LabId,omitempty" example:"2"`
	Choice3LabID *int64    `json:"choice3LabId,omitempty" example:"3"`
	CreatedAt    time.Time `json:"createdAt"`

	// Relations (populated by list and lookup queries)
	Choices []ChoiceRef `json:"choices,omitempty"`
}

// ChoiceRef names one of a student's preferred labs
type ChoiceRef struct {
	Rank          int    `json:"rank" example:"1"`
	LabID         int64  `json:"labId" example:"1"`
	LabName       string `json:"labName" example:"Machine Learning Lab"`
	ProfessorName string `json:"professorName" example:"Prof. Kim"`
}

// PreferredLabIDs returns the non-empty choices in preference order
func (s *Student) PreferredLabIDs() []int64 {
	ids := make([]int64, 0, 3)
	for _, c := range []*int64{s.Choice1LabID, s.Choice2LabID, s.Choice3LabID} {
		if c != nil && *c > 0 {
			ids = append(ids, *c)
		}
	}
	return ids
}
