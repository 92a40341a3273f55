package models

import "time"

// Organization is a tenant. It owns tests and holds at most one active
// access token used by the registration flow.
type Organization struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	SapID            string     `gorm:"uniqueIndex;not null" json:"sap_id"`
	Name             string     `gorm:"not null" json:"name"`
	Email            string     `gorm:"uniqueIndex;not null" json:"email"`
	AccessToken      string     `gorm:"index" json:"-"`
	TokenActive      bool       `gorm:"not null;default:false" json:"token_active"`
	TokenGeneratedAt *time.Time `json:"token_generated_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
