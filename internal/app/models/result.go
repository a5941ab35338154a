package models

// SessionResult is one published session for a student
type SessionResult struct {
	SessionNumber int    `json:"sessionNumber"`
	LabName       string `json:"labName"`
	ProfessorName string `json:"professorName"`
	Location      string `json:"location"`
}

// StudentResult is what a student sees when looking up results
type StudentResult struct {
	Published   bool            `json:"published"`
	Name        string          `json:"name,omitempty"`
	Affiliation string          `json:"affiliation,omitempty"`
	Sessions    []SessionResult `json:"sessions,omitempty"`
	Choices     []ChoiceRef     `json:"choices,omitempty"`
}
