package models

import "time"

// Test is one schedulable assessment. CurrentUserCount is maintained by the
// booking workflow and must stay within [0, MaxUsersPerSlot] after every
// committed transaction.
type Test struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Title            string    `gorm:"not null" json:"title"`
	Domain           string    `json:"domain,omitempty"`
	ScheduledStartAt time.Time `gorm:"not null" json:"scheduled_start_at"`
	ScheduledEndAt   time.Time `gorm:"not null" json:"scheduled_end_at"`
	CurrentUserCount int       `gorm:"not null;default:0" json:"current_user_count"`
	MaxUsersPerSlot  int       `gorm:"not null" json:"max_users_per_slot"`
	OrganizationID   string    `gorm:"index;not null" json:"organization_id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// SeatsAvailable returns how many more bookings the test accepts.
func (t *Test) SeatsAvailable() int {
	return t.MaxUsersPerSlot - t.CurrentUserCount
}
