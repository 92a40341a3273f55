package dto

import (
	"time"

	"github.com/assessio/assessment-service/internal/models"
)

type BookingResponse struct {
	ID             uint                 `json:"id"`
	TestID         uint                 `json:"test_id"`
	CandidateSapID string               `json:"candidate_sap_id"`
	BookingDate    time.Time            `json:"booking_date"`
	SlotStartAt    time.Time            `json:"slot_start_at"`
	SlotEndAt      time.Time            `json:"slot_end_at"`
	SlotNumber     int                  `json:"slot_number"`
	Status         models.BookingStatus `json:"status"`
	CreatedAt      time.Time            `json:"created_at"`
}

// BookSlotResponse is the success envelope for the booking endpoint.
// JustBooked/BookedTestID replace the legacy session flags: the "a booking
// for this test just completed" state travels in the response instead of
// ambient session storage.
type BookSlotResponse struct {
	Success      bool            `json:"success"`
	Message      string          `json:"message"`
	Redirect     string          `json:"redirect"`
	JustBooked   bool            `json:"just_booked"`
	BookedTestID uint            `json:"booked_test_id"`
	Booking      BookingResponse `json:"booking"`
}

// ErrorRedirectResponse is the failure envelope for redirect-style flows.
type ErrorRedirectResponse struct {
	Success  bool   `json:"success"`
	Error    string `json:"error"`
	Redirect string `json:"redirect"`
}

type TokenResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
	Message string `json:"message"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type OrgStats struct {
	UserCount       int64 `json:"userCount"`
	TestCount       int64 `json:"testCount"`
	TestResultCount int64 `json:"testResultCount"`
}

type StatsResponse struct {
	Success bool     `json:"success"`
	Stats   OrgStats `json:"stats"`
}

type TestDetailResponse struct {
	ID               uint      `json:"id"`
	Title            string    `json:"title"`
	Domain           string    `json:"domain,omitempty"`
	ScheduledStartAt time.Time `json:"scheduled_start_at"`
	ScheduledEndAt   time.Time `json:"scheduled_end_at"`
	CurrentUserCount int       `json:"current_user_count"`
	MaxUsersPerSlot  int       `json:"max_users_per_slot"`
	SeatsAvailable   int       `json:"seats_available"`
	OrganizationID   string    `json:"organization_id"`
}

// ProfileResponse wraps the role-appropriate projection.
type ProfileResponse struct {
	Success bool        `json:"success"`
	Role    models.Role `json:"role"`
	Profile any         `json:"profile"`
}

type CandidateProfile struct {
	SapID          string `json:"sap_id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone,omitempty"`
	OrganizationID string `json:"organization_id,omitempty"`
}

type OrganizationProfile struct {
	SapID       string `json:"sap_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	TokenActive bool   `json:"token_active"`
}

func ToBookingResponse(b *models.TestBooking) BookingResponse {
	return BookingResponse{
		ID:             b.ID,
		TestID:         b.TestID,
		CandidateSapID: b.CandidateSapID,
		BookingDate:    b.BookingDate,
		SlotStartAt:    b.SlotStartAt,
		SlotEndAt:      b.SlotEndAt,
		SlotNumber:     b.SlotNumber,
		Status:         b.Status,
		CreatedAt:      b.CreatedAt,
	}
}

func ToTestDetailResponse(t *models.Test) TestDetailResponse {
	return TestDetailResponse{
		ID:               t.ID,
		Title:            t.Title,
		Domain:           t.Domain,
		ScheduledStartAt: t.ScheduledStartAt,
		ScheduledEndAt:   t.ScheduledEndAt,
		CurrentUserCount: t.CurrentUserCount,
		MaxUsersPerSlot:  t.MaxUsersPerSlot,
		SeatsAvailable:   t.SeatsAvailable(),
		OrganizationID:   t.OrganizationID,
	}
}

func ToCandidateProfile(u *models.User) CandidateProfile {
	return CandidateProfile{
		SapID:          u.SapID,
		Name:           u.Name,
		Email:          u.Email,
		Phone:          u.Phone,
		OrganizationID: u.OrganizationID,
	}
}

func ToSpecialUserProfile(u *models.SpecialUser) CandidateProfile {
	return CandidateProfile{
		SapID:          u.SapID,
		Name:           u.Name,
		Email:          u.Email,
		Phone:          u.Phone,
		OrganizationID: u.OrganizationID,
	}
}

func ToOrganizationProfile(o *models.Organization) OrganizationProfile {
	return OrganizationProfile{
		SapID:       o.SapID,
		Name:        o.Name,
		Email:       o.Email,
		TokenActive: o.TokenActive,
	}
}
