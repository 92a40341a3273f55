package models

import "time"

// TestResult is recorded by the grading pipeline and ingested over the
// message bus; this service only reads and counts them.
type TestResult struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	TestID         uint      `gorm:"index;not null" json:"test_id"`
	CandidateSapID string    `gorm:"index;not null" json:"candidate_sap_id"`
	Score          float64   `json:"score"`
	MaxScore       float64   `json:"max_score"`
	Status         string    `gorm:"type:varchar(20)" json:"status"`
	RecordedAt     time.Time `json:"recorded_at"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
