package repository

import (
	"context"

	"medical-appointment-booking/internal/domain/entity"

	"gorm.io/gorm"
)

type PatientProfileRepository interface {
	Create(ctx context.Context, db *gorm.DB, profile *entity.PatientProfile) error
	FindByUserID(ctx context.Context, db *gorm.DB, userID uint) (*entity.PatientProfile, error)
	FindAll(ctx context.Context, db *gorm.DB, page entity.Page) ([]entity.PatientProfile, int64, error)
	Update(ctx context.Context, db *gorm.DB, profile *entity.PatientProfile) error
}
