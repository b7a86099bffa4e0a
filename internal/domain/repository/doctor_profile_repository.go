package repository

import (
	"medical-appointment-booking/internal/domain/entity"

	"gorm.io/gorm"
)

type DoctorProfileRepository interface {
	Create(db *gorm.DB, profile *entity.DoctorProfile) error
	FindByUserID(db *gorm.DB, userID uint) (*entity.DoctorProfile, error)
	LockByUserID(db *gorm.DB, userID uint) (*entity.DoctorProfile, error)
	FindAll(db *gorm.DB, specialty string, page entity.Page) ([]entity.DoctorProfile, int64, error)
	Update(db *gorm.DB, profile *entity.DoctorProfile) error
}
