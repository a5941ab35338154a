package models

import "time"

// Assignment places a student in a lab for one session.
// (StudentID, SessionNumber) is unique.
type Assignment struct {
	ID            int64     `json:"id" example:"1"`
	StudentID     int64     `json:"studentId" example:"1"`
	SessionNumber int       `json:"sessionNumber" example:"1"`
	LabID         int64     `json:"labId" example:"2"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// AssignmentDetail is an assignment joined with student and lab names
type AssignmentDetail struct {
	Assignment
	StudentName   string `json:"studentName"`
	StudentPhone  string `json:"studentPhone"`
	Affiliation   string `json:"affiliation"`
	LabName       string `json:"labName"`
	ProfessorName string `json:"professorName"`
}

// SlotOccupancy is the number of students in a lab during one session
type SlotOccupancy struct {
	LabID      int64  `json:"labId"`
	LabName    string `json:"labName"`
	Session    int    `json:"session"`
	Occupancy  int    `json:"occupancy"`
	Capacity   int    `json:"capacity"`
	Overbooked bool   `json:"overbooked"`
}

// AutoAssignResult summarises one auto-assign run
type AutoAssignResult struct {
	Assigned   int             `json:"assigned"`
	Overbooked []SlotOccupancy `json:"overbooked"`
}
