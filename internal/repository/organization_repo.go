package repository

import (
	"context"
	"time"

	"github.com/assessio/assessment-service/internal/models"
	"gorm.io/gorm"
)

type OrganizationRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Organization, error)
	FindBySapID(ctx context.Context, sapID string) (*models.Organization, error)
	FindByEmail(ctx context.Context, email string) (*models.Organization, error)
	FindByActiveToken(ctx context.Context, token string) (*models.Organization, error)
	SetToken(ctx context.Context, sapID, token string, generatedAt time.Time) error
	DeactivateToken(ctx context.Context, sapID string) error
}

type organizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &organizationRepository{db: db}
}

func (r *organizationRepository) FindByID(ctx context.Context, id uint) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.WithContext(ctx).First(&org, id).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *organizationRepository) FindBySapID(ctx context.Context, sapID string) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.WithContext(ctx).Where("sap_id = ?", sapID).First(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *organizationRepository) FindByEmail(ctx context.Context, email string) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *organizationRepository) FindByActiveToken(ctx context.Context, token string) (*models.Organization, error) {
	var org models.Organization
	err := r.db.WithContext(ctx).
		Where("access_token = ? AND token_active = ?", token, true).
		First(&org).Error
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *organizationRepository) SetToken(ctx context.Context, sapID, token string, generatedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Organization{}).
		Where("sap_id = ?", sapID).
		Updates(map[string]any{
			"access_token":       token,
			"token_active":       true,
			"token_generated_at": generatedAt,
		}).Error
}

// DeactivateToken marks the token unusable without clearing the value, so
// registration history stays attributable.
func (r *organizationRepository) DeactivateToken(ctx context.Context, sapID string) error {
	return r.db.WithContext(ctx).
		Model(&models.Organization{}).
		Where("sap_id = ?", sapID).
		Update("token_active", false).Error
}
