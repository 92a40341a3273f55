package repository

import (
	"context"

	"github.com/assessio/assessment-service/internal/models"
	"gorm.io/gorm"
)

type SpecialUserRepository interface {
	FindByID(ctx context.Context, id uint) (*models.SpecialUser, error)
	FindByEmail(ctx context.Context, email string) (*models.SpecialUser, error)
}

type specialUserRepository struct {
	db *gorm.DB
}

func NewSpecialUserRepository(db *gorm.DB) SpecialUserRepository {
	return &specialUserRepository{db: db}
}

func (r *specialUserRepository) FindByID(ctx context.Context, id uint) (*models.SpecialUser, error) {
	var user models.SpecialUser
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *specialUserRepository) FindByEmail(ctx context.Context, email string) (*models.SpecialUser, error) {
	var user models.SpecialUser
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
