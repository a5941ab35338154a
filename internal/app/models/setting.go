package models

import "time"

// Setting keys stored in the 'settings' table
const (
	SettingRegistrationOpen    = "registration_open"
	SettingRegistrationCloseAt = "registration_close_at"
	SettingResultsPublished    = "results_published"
)

// Settings is the typed view of the settings table
type Settings struct {
	RegistrationOpen    bool       `json:"registrationOpen"`
	RegistrationCloseAt *time.Time `json:"registrationCloseAt"`
	ResultsPublished    bool       `json:"resultsPublished"`
}

// SettingsUpdate carries a partial update; nil fields are left unchanged.
// A non-nil, empty RegistrationCloseAt clears the close time.
type SettingsUpdate struct {
	RegistrationOpen    *bool
	RegistrationCloseAt *string
	ResultsPublished    *bool
}
