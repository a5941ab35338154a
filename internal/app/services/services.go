// Package services holds the business rules of the registration workflow.
//
// Services defined in this package:
//   - LabService: lab CRUD
//   - StudentService: applications and preference edits
//   - AssignmentService: session assignments, auto-assign, occupancy and reset
//   - SettingsService: registration window and result publication
//   - ResultService: the student-facing result lookup
package services

import (
	"strings"
)

func trimAll(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}
