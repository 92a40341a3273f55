package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/assessio/assessment-service/internal/models"
	"github.com/assessio/assessment-service/internal/repository"
	"github.com/assessio/assessment-service/pkg/metrics"
	"gorm.io/gorm"
)

var (
	ErrUnauthenticated  = errors.New("authentication required")
	ErrWrongRole        = errors.New("this role may not book test slots")
	ErrTestNotFound     = errors.New("test not found")
	ErrCapacityExceeded = errors.New("test has no seats left")
)

// EventPublisher is the telemetry sink for booking events. A nil publisher
// is valid and skips publishing.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

type BookingService interface {
	BookSlot(ctx context.Context, testID uint, caller models.Identity, selectedDate string, selectedSlot int) (*models.TestBooking, error)
	GetTest(ctx context.Context, id uint) (*models.Test, error)
	ListBookings(ctx context.Context, testID uint, status *models.BookingStatus) ([]models.TestBooking, error)
}

type bookingService struct {
	bookingRepo repository.BookingRepository
	testRepo    repository.TestRepository
	userRepo    repository.UserRepository
	tx          repository.TxRunner
	publisher   EventPublisher
	metrics     *metrics.Metrics

	bookingRole models.Role
	loc         *time.Location
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	testRepo repository.TestRepository,
	userRepo repository.UserRepository,
	tx repository.TxRunner,
	publisher EventPublisher,
	m *metrics.Metrics,
	bookingRole models.Role,
	loc *time.Location,
) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		testRepo:    testRepo,
		userRepo:    userRepo,
		tx:          tx,
		publisher:   publisher,
		metrics:     m,
		bookingRole: bookingRole,
		loc:         loc,
	}
}

// BookSlot validates a slot-booking request and persists the booking plus
// the occupancy increment in one transaction. Duplicate-booking probes are
// advisory: they feed telemetry and never block, since booking the same test
// twice (or several tests at once) is an allowed capability.
func (s *bookingService) BookSlot(ctx context.Context, testID uint, caller models.Identity, selectedDate string, selectedSlot int) (*models.TestBooking, error) {
	// 1. Caller must be authenticated with the configured booking role
	if caller.Role == "" || caller.AccountID == 0 {
		return nil, ErrUnauthenticated
	}
	if caller.Role != s.bookingRole {
		return nil, ErrWrongRole
	}

	// 2. Resolve the account; the booking stores its SAP id string, not the
	// numeric id from the token
	account, err := s.userRepo.FindByID(ctx, caller.AccountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("resolve account %d: %w", caller.AccountID, err)
	}
	if account.SapID == "" {
		return nil, ErrUnauthenticated
	}

	// 3. Advisory duplicate probes (telemetry only)
	s.reportDuplicates(ctx, account.SapID, testID)

	// 4. Resolve date and slot window in the organizational time zone
	date := models.ResolveBookingDate(selectedDate, s.loc)
	window := models.ResolveSlotWindow(selectedSlot)
	start, end := models.SlotTimes(date, window)

	booking := &models.TestBooking{
		TestID:         testID,
		CandidateSapID: account.SapID,
		BookingDate:    date,
		SlotStartAt:    start,
		SlotEndAt:      end,
		SlotNumber:     models.NormalizeSlotNumber(selectedSlot),
		Status:         models.BookingActive,
	}

	// 5. Capacity check + insert + increment under a row lock on the test
	var occupancy int
	err = s.tx.Do(ctx, func(tx *gorm.DB) error {
		test, err := s.testRepo.FindByIDForUpdate(ctx, tx, testID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTestNotFound
			}
			return fmt.Errorf("load test %d: %w", testID, err)
		}

		if test.CurrentUserCount >= test.MaxUsersPerSlot {
			return ErrCapacityExceeded
		}
		occupancy = test.CurrentUserCount + 1

		if err := s.bookingRepo.Create(ctx, tx, booking); err != nil {
			return fmt.Errorf("create booking: %w", err)
		}
		if err := s.testRepo.IncrementUserCount(ctx, tx, testID); err != nil {
			return fmt.Errorf("increment user count: %w", err)
		}
		return nil
	})
	if err != nil {
		s.countOutcome(err)
		return nil, err
	}

	s.countOutcome(nil)
	s.reportOccupancy(ctx, testID, occupancy)
	if s.publisher != nil {
		_ = s.publisher.Publish("booking.created", booking)
	}

	return booking, nil
}

// reportDuplicates runs the three informational probes: an active booking on
// this test, a failed booking on this test, and any booking anywhere. Probe
// errors are logged and swallowed — they must never affect the outcome.
func (s *bookingService) reportDuplicates(ctx context.Context, sapID string, testID uint) {
	if active, err := s.bookingRepo.FindActiveByCandidateAndTest(ctx, sapID, testID); err == nil && active != nil {
		log.Printf("[Booking] candidate %s already holds active booking %d for test %d", sapID, active.ID, testID)
		s.countDuplicate("active_same_test")
		if s.publisher != nil {
			_ = s.publisher.Publish("booking.duplicate", map[string]any{
				"kind": "active_same_test", "candidate_sap_id": sapID, "test_id": testID,
			})
		}
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[Booking] active-booking probe failed for %s/%d: %v", sapID, testID, err)
	}

	if failed, err := s.bookingRepo.FindFailedByCandidateAndTest(ctx, sapID, testID); err == nil && failed != nil {
		log.Printf("[Booking] candidate %s has failed booking %d for test %d", sapID, failed.ID, testID)
		s.countDuplicate("failed_same_test")
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[Booking] failed-booking probe failed for %s/%d: %v", sapID, testID, err)
	}

	if n, err := s.bookingRepo.CountByCandidate(ctx, sapID); err == nil && n > 0 {
		log.Printf("[Booking] candidate %s already holds %d booking(s)", sapID, n)
		s.countDuplicate("existing_elsewhere")
	} else if err != nil {
		log.Printf("[Booking] candidate-wide probe failed for %s: %v", sapID, err)
	}
}

// reportOccupancy cross-checks the just-committed counter value against the
// number of non-Failed booking rows on the test. Drift means the counter and
// the rows disagreed at some point; like the duplicate probes this only
// reports, it never unwinds a booking.
func (s *bookingService) reportOccupancy(ctx context.Context, testID uint, counted int) {
	n, err := s.bookingRepo.CountActiveByTestID(ctx, testID)
	if err != nil {
		log.Printf("[Booking] occupancy probe failed for test %d: %v", testID, err)
		return
	}
	if n != int64(counted) {
		log.Printf("[Booking] occupancy drift on test %d: counter says %d, found %d active bookings", testID, counted, n)
	}
}

func (s *bookingService) countDuplicate(kind string) {
	if s.metrics != nil {
		s.metrics.DuplicateBookingsTotal.WithLabelValues(kind).Inc()
	}
}

func (s *bookingService) countOutcome(err error) {
	if s.metrics == nil {
		return
	}
	outcome := "success"
	switch {
	case err == nil:
	case errors.Is(err, ErrCapacityExceeded):
		outcome = "capacity_exceeded"
	case errors.Is(err, ErrTestNotFound):
		outcome = "not_found"
	default:
		outcome = "error"
	}
	s.metrics.BookingsTotal.WithLabelValues(outcome).Inc()
}

func (s *bookingService) GetTest(ctx context.Context, id uint) (*models.Test, error) {
	test, err := s.testRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTestNotFound
		}
		return nil, err
	}
	return test, nil
}

func (s *bookingService) ListBookings(ctx context.Context, testID uint, status *models.BookingStatus) ([]models.TestBooking, error) {
	return s.bookingRepo.FindByTestID(ctx, testID, status)
}
