package repository

import (
	"context"

	"github.com/assessio/assessment-service/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TestRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Test, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Test, error)
	IncrementUserCount(ctx context.Context, tx *gorm.DB, id uint) error
	CountByOrganization(ctx context.Context, orgSapID string) (int64, error)
}

type testRepository struct {
	db *gorm.DB
}

func NewTestRepository(db *gorm.DB) TestRepository {
	return &testRepository{db: db}
}

func (r *testRepository) FindByID(ctx context.Context, id uint) (*models.Test, error) {
	var test models.Test
	if err := r.db.WithContext(ctx).First(&test, id).Error; err != nil {
		return nil, err
	}
	return &test, nil
}

// FindByIDForUpdate acquires a row-level lock on the test within the given
// transaction. Every capacity check and counter change happens under this
// lock, which is what keeps CurrentUserCount inside [0, MaxUsersPerSlot]
// under concurrent bookings.
func (r *testRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Test, error) {
	var test models.Test
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&test, id).Error; err != nil {
		return nil, err
	}
	return &test, nil
}

// IncrementUserCount bumps the occupancy counter as a SQL expression, never a
// read-modify-write from Go.
func (r *testRepository) IncrementUserCount(ctx context.Context, tx *gorm.DB, id uint) error {
	return tx.WithContext(ctx).
		Model(&models.Test{}).
		Where("id = ?", id).
		UpdateColumn("current_user_count", gorm.Expr("current_user_count + 1")).Error
}

func (r *testRepository) CountByOrganization(ctx context.Context, orgSapID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Test{}).
		Where("organization_id = ?", orgSapID).
		Count(&count).Error
	return count, err
}
