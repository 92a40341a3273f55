package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/assessio/assessment-service/internal/dto"
	"github.com/assessio/assessment-service/internal/middleware"
	"github.com/assessio/assessment-service/internal/models"
	"github.com/assessio/assessment-service/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

// --- Mock BookingService ---

type mockBookingService struct {
	bookFn func(ctx context.Context, testID uint, caller models.Identity, selectedDate string, selectedSlot int) (*models.TestBooking, error)
	getFn  func(ctx context.Context, id uint) (*models.Test, error)
	listFn func(ctx context.Context, testID uint, status *models.BookingStatus) ([]models.TestBooking, error)
}

func (m *mockBookingService) BookSlot(ctx context.Context, testID uint, caller models.Identity, selectedDate string, selectedSlot int) (*models.TestBooking, error) {
	return m.bookFn(ctx, testID, caller, selectedDate, selectedSlot)
}
func (m *mockBookingService) GetTest(ctx context.Context, id uint) (*models.Test, error) {
	return m.getFn(ctx, id)
}
func (m *mockBookingService) ListBookings(ctx context.Context, testID uint, status *models.BookingStatus) ([]models.TestBooking, error) {
	return m.listFn(ctx, testID, status)
}

// --- Mock ProfileService ---

type mockProfileService struct {
	resolveFn    func(ctx context.Context, caller models.Identity) (*service.Profile, error)
	resolveOrgFn func(ctx context.Context, caller models.Identity) (*models.Organization, error)
}

func (m *mockProfileService) Resolve(ctx context.Context, caller models.Identity) (*service.Profile, error) {
	return m.resolveFn(ctx, caller)
}
func (m *mockProfileService) ResolveOrganization(ctx context.Context, caller models.Identity) (*models.Organization, error) {
	return m.resolveOrgFn(ctx, caller)
}

// --- Helpers ---

func newBookingContext(t *testing.T, method, path, body, testID string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(testID)
	return c, rec
}

func asCandidate(c echo.Context) {
	middleware.SetIdentity(c, models.Identity{Role: models.RoleCandidate, AccountID: 7})
}

// --- Tests ---

func TestBookSlot_Handler_Success(t *testing.T) {
	svc := &mockBookingService{
		bookFn: func(ctx context.Context, testID uint, caller models.Identity, selectedDate string, selectedSlot int) (*models.TestBooking, error) {
			return &models.TestBooking{
				ID:             1,
				TestID:         testID,
				CandidateSapID: "SAP-1001",
				SlotNumber:     selectedSlot,
				Status:         models.BookingActive,
				CreatedAt:      time.Now(),
			}, nil
		},
	}

	c, rec := newBookingContext(t, http.MethodPost, "/api/v1/tests/42/book", `{"selectedDate":"2026-09-15","selectedSlot":1}`, "42")
	asCandidate(c)

	h := NewBookingHandler(svc, nil)
	err := h.BookSlot(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.BookSlotResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.JustBooked)
	assert.Equal(t, uint(42), resp.BookedTestID)
	assert.Equal(t, "/api/v1/tests/42/take", resp.Redirect)
	assert.Equal(t, "SAP-1001", resp.Booking.CandidateSapID)
}

func TestBookSlot_Handler_NoIdentity(t *testing.T) {
	c, _ := newBookingContext(t, http.MethodPost, "/api/v1/tests/1/book", `{"selectedSlot":1}`, "1")

	h := NewBookingHandler(nil, nil)
	err := h.BookSlot(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestBookSlot_Handler_InvalidTestID(t *testing.T) {
	c, _ := newBookingContext(t, http.MethodPost, "/api/v1/tests/abc/book", `{"selectedSlot":1}`, "abc")
	asCandidate(c)

	h := NewBookingHandler(nil, nil)
	err := h.BookSlot(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestBookSlot_Handler_WrongRole(t *testing.T) {
	svc := &mockBookingService{
		bookFn: func(ctx context.Context, testID uint, caller models.Identity, selectedDate string, selectedSlot int) (*models.TestBooking, error) {
			return nil, service.ErrWrongRole
		},
	}

	c, rec := newBookingContext(t, http.MethodPost, "/api/v1/tests/1/book", `{"selectedSlot":1}`, "1")
	middleware.SetIdentity(c, models.Identity{Role: models.RoleOrganization, AccountID: 3})

	h := NewBookingHandler(svc, nil)
	err := h.BookSlot(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var resp dto.ErrorRedirectResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, testListingPath, resp.Redirect)
	assert.NotEmpty(t, resp.Error)
}

func TestBookSlot_Handler_CapacityExceeded(t *testing.T) {
	svc := &mockBookingService{
		bookFn: func(ctx context.Context, testID uint, caller models.Identity, selectedDate string, selectedSlot int) (*models.TestBooking, error) {
			return nil, service.ErrCapacityExceeded
		},
	}

	c, rec := newBookingContext(t, http.MethodPost, "/api/v1/tests/1/book", `{"selectedSlot":1}`, "1")
	asCandidate(c)

	h := NewBookingHandler(svc, nil)
	err := h.BookSlot(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestBookSlot_Handler_TestNotFound(t *testing.T) {
	svc := &mockBookingService{
		bookFn: func(ctx context.Context, testID uint, caller models.Identity, selectedDate string, selectedSlot int) (*models.TestBooking, error) {
			return nil, service.ErrTestNotFound
		},
	}

	c, rec := newBookingContext(t, http.MethodPost, "/api/v1/tests/999/book", `{"selectedSlot":1}`, "999")
	asCandidate(c)

	h := NewBookingHandler(svc, nil)
	err := h.BookSlot(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBookSlot_Handler_FormEncodedBody(t *testing.T) {
	var gotDate string
	var gotSlot int
	svc := &mockBookingService{
		bookFn: func(ctx context.Context, testID uint, caller models.Identity, selectedDate string, selectedSlot int) (*models.TestBooking, error) {
			gotDate, gotSlot = selectedDate, selectedSlot
			return &models.TestBooking{ID: 1, TestID: testID}, nil
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tests/1/book",
		strings.NewReader("selectedDate=2026-09-15&selectedSlot=3"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	asCandidate(c)

	h := NewBookingHandler(svc, nil)
	err := h.BookSlot(c)

	assert.NoError(t, err)
	assert.Equal(t, "2026-09-15", gotDate)
	assert.Equal(t, 3, gotSlot)
}

func TestGetTest_Handler_Success(t *testing.T) {
	svc := &mockBookingService{
		getFn: func(ctx context.Context, id uint) (*models.Test, error) {
			return &models.Test{ID: id, Title: "Aptitude Round 1", CurrentUserCount: 3, MaxUsersPerSlot: 10, OrganizationID: "ORG-9"}, nil
		},
	}

	c, rec := newBookingContext(t, http.MethodGet, "/api/v1/tests/1", "", "1")
	asCandidate(c)

	h := NewBookingHandler(svc, nil)
	err := h.GetTest(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.TestDetailResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 7, resp.SeatsAvailable)
}

func TestListBookings_Handler_OtherOrganizationForbidden(t *testing.T) {
	svc := &mockBookingService{
		getFn: func(ctx context.Context, id uint) (*models.Test, error) {
			return &models.Test{ID: id, OrganizationID: "ORG-OTHER"}, nil
		},
	}
	profiles := &mockProfileService{
		resolveOrgFn: func(ctx context.Context, caller models.Identity) (*models.Organization, error) {
			return &models.Organization{SapID: "ORG-9"}, nil
		},
	}

	c, _ := newBookingContext(t, http.MethodGet, "/api/v1/tests/1/bookings", "", "1")
	middleware.SetIdentity(c, models.Identity{Role: models.RoleOrganization, AccountID: 3})

	h := NewBookingHandler(svc, profiles)
	err := h.ListBookings(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusForbidden, he.Code)
}

func TestListBookings_Handler_OwnOrganization(t *testing.T) {
	svc := &mockBookingService{
		getFn: func(ctx context.Context, id uint) (*models.Test, error) {
			return &models.Test{ID: id, OrganizationID: "ORG-9"}, nil
		},
		listFn: func(ctx context.Context, testID uint, status *models.BookingStatus) ([]models.TestBooking, error) {
			return []models.TestBooking{
				{ID: 1, TestID: testID, CandidateSapID: "SAP-1001"},
				{ID: 2, TestID: testID, CandidateSapID: "SAP-1002"},
			}, nil
		},
	}
	profiles := &mockProfileService{
		resolveOrgFn: func(ctx context.Context, caller models.Identity) (*models.Organization, error) {
			return &models.Organization{SapID: "ORG-9"}, nil
		},
	}

	c, rec := newBookingContext(t, http.MethodGet, "/api/v1/tests/1/bookings", "", "1")
	middleware.SetIdentity(c, models.Identity{Role: models.RoleOrganization, AccountID: 3})

	h := NewBookingHandler(svc, profiles)
	err := h.ListBookings(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp []dto.BookingResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
}
