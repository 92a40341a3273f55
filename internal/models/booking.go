package models

import "time"

type BookingStatus string

const (
	BookingActive BookingStatus = "Active"
	BookingFailed BookingStatus = "Failed"
)

// TestBooking is one candidate's reservation of a slot on a test.
//
// CandidateSapID is the candidate's external identifier string, not a foreign
// key to users.id. The session token carries the numeric account id; the
// workflow resolves the account and stores its SapID here because downstream
// joins (results, org reporting) run on the string form.
//
// There is deliberately no uniqueness constraint on (test_id,
// candidate_sap_id): multiple active bookings per candidate are allowed and
// only reported to telemetry.
type TestBooking struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	TestID         uint          `gorm:"index;not null" json:"test_id"`
	CandidateSapID string        `gorm:"index;not null" json:"candidate_sap_id"`
	BookingDate    time.Time     `gorm:"not null" json:"booking_date"`
	SlotStartAt    time.Time     `gorm:"not null" json:"slot_start_at"`
	SlotEndAt      time.Time     `gorm:"not null" json:"slot_end_at"`
	SlotNumber     int           `gorm:"not null" json:"slot_number"`
	Status         BookingStatus `gorm:"type:varchar(20);not null;default:'Active'" json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`

	Test *Test `gorm:"foreignKey:TestID" json:"test,omitempty"`
}
