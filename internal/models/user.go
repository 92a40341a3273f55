package models

import "time"

// User is a candidate account. ID is the internal numeric account id carried
// in the session token; SapID is the external identifier every booking and
// result row is keyed by. The two are distinct on purpose — see TestBooking.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	SapID          string    `gorm:"uniqueIndex;not null" json:"sap_id"`
	Name           string    `gorm:"not null" json:"name"`
	Email          string    `gorm:"uniqueIndex;not null" json:"email"`
	Phone          string    `json:"phone,omitempty"`
	OrganizationID string    `gorm:"index" json:"organization_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// SpecialUser is the alternate-role account type. Same shape as User,
// separate table.
type SpecialUser struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	SapID          string    `gorm:"uniqueIndex;not null" json:"sap_id"`
	Name           string    `gorm:"not null" json:"name"`
	Email          string    `gorm:"uniqueIndex;not null" json:"email"`
	Phone          string    `json:"phone,omitempty"`
	OrganizationID string    `gorm:"index" json:"organization_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
