package dto

import "github.com/yigit/openlab/internal/app/models"

// UpdateSettingsRequest represents the body of PUT /admin/settings. Omitted
// fields are left unchanged; an empty registrationCloseAt clears the timer.
type UpdateSettingsRequest struct {
	RegistrationOpen    *bool   `json:"registrationOpen" example:"true"`
	RegistrationCloseAt *string `json:"registrationCloseAt" example:"2026-03-02T18:00:00+09:00"`
	ResultsPublished    *bool   `json:"resultsPublished" example:"false"`
}

// ToModel converts the request to a settings update
func (r *UpdateSettingsRequest) ToModel() models.SettingsUpdate {
	return models.SettingsUpdate{
		RegistrationOpen:    r.RegistrationOpen,
		RegistrationCloseAt: r.RegistrationCloseAt,
		ResultsPublished:    r.ResultsPublished,
	}
}
