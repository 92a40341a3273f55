package repository

import (
	"context"

	"github.com/assessio/assessment-service/internal/models"
	"gorm.io/gorm"
)

type BookingRepository interface {
	Create(ctx context.Context, tx *gorm.DB, booking *models.TestBooking) error
	FindByID(ctx context.Context, id uint) (*models.TestBooking, error)
	FindByTestID(ctx context.Context, testID uint, status *models.BookingStatus) ([]models.TestBooking, error)
	FindActiveByCandidateAndTest(ctx context.Context, candidateSapID string, testID uint) (*models.TestBooking, error)
	FindFailedByCandidateAndTest(ctx context.Context, candidateSapID string, testID uint) (*models.TestBooking, error)
	CountByCandidate(ctx context.Context, candidateSapID string) (int64, error)
	CountActiveByTestID(ctx context.Context, testID uint) (int64, error)
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, tx *gorm.DB, booking *models.TestBooking) error {
	return tx.WithContext(ctx).Create(booking).Error
}

func (r *bookingRepository) FindByID(ctx context.Context, id uint) (*models.TestBooking, error) {
	var booking models.TestBooking
	if err := r.db.WithContext(ctx).First(&booking, id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByTestID(ctx context.Context, testID uint, status *models.BookingStatus) ([]models.TestBooking, error) {
	var bookings []models.TestBooking
	q := r.db.WithContext(ctx).Where("test_id = ?", testID)
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	if err := q.Order("id ASC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) FindActiveByCandidateAndTest(ctx context.Context, candidateSapID string, testID uint) (*models.TestBooking, error) {
	var booking models.TestBooking
	err := r.db.WithContext(ctx).
		Where("candidate_sap_id = ? AND test_id = ? AND status <> ?", candidateSapID, testID, models.BookingFailed).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindFailedByCandidateAndTest(ctx context.Context, candidateSapID string, testID uint) (*models.TestBooking, error) {
	var booking models.TestBooking
	err := r.db.WithContext(ctx).
		Where("candidate_sap_id = ? AND test_id = ? AND status = ?", candidateSapID, testID, models.BookingFailed).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) CountByCandidate(ctx context.Context, candidateSapID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.TestBooking{}).
		Where("candidate_sap_id = ?", candidateSapID).
		Count(&count).Error
	return count, err
}

func (r *bookingRepository) CountActiveByTestID(ctx context.Context, testID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.TestBooking{}).
		Where("test_id = ? AND status <> ?", testID, models.BookingFailed).
		Count(&count).Error
	return count, err
}
