package repository

import (
	"context"

	"github.com/assessio/assessment-service/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ResultRepository interface {
	Upsert(ctx context.Context, result *models.TestResult) error
	CountByOrganization(ctx context.Context, orgSapID string) (int64, error)
}

type resultRepository struct {
	db *gorm.DB
}

func NewResultRepository(db *gorm.DB) ResultRepository {
	return &resultRepository{db: db}
}

// Upsert inserts or refreshes a result row delivered by the grading
// pipeline. Redelivered messages carry the same id.
func (r *resultRepository) Upsert(ctx context.Context, result *models.TestResult) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "max_score", "status", "recorded_at", "updated_at"}),
	}).Create(result).Error
}

// CountByOrganization counts results belonging to the organization's own
// candidates. Results are keyed by SAP id, so this joins through users.
func (r *resultRepository) CountByOrganization(ctx context.Context, orgSapID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.TestResult{}).
		Joins("JOIN users ON users.sap_id = test_results.candidate_sap_id").
		Where("users.organization_id = ?", orgSapID).
		Count(&count).Error
	return count, err
}
