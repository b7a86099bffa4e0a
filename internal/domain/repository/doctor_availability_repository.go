package repository

import (
	"time"

	"medical-appointment-booking/internal/domain/entity"

	"gorm.io/gorm"
)

type DoctorAvailabilityRepository interface {
	Create(db *gorm.DB, availability *entity.DoctorAvailability) error
	FindByDoctorAndDay(db *gorm.DB, doctorID uint, day time.Weekday) ([]entity.DoctorAvailability, error)
	FindByDoctorID(db *gorm.DB, doctorID uint, page entity.Page) ([]entity.DoctorAvailability, int64, error)
	// FindActiveBetween returns rules whose date range intersects [from, to).
	FindActiveBetween(db *gorm.DB, doctorID uint, from, to time.Time) ([]entity.DoctorAvailability, error)
}
