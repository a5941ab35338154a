package models

// ResetTarget selects what a bulk reset removes
type ResetTarget string

const (
	ResetAll         ResetTarget = "all"
	ResetStudents    ResetTarget = "students"
	ResetAssignments ResetTarget = "assignments"
)

// Valid reports whether t is a known reset target
func (t ResetTarget) Valid() bool {
	switch t {
	case ResetAll, ResetStudents, ResetAssignments:
		return true
	}
	return false
}
