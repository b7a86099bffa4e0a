package repository

import (
	"time"

	"medical-appointment-booking/internal/domain/entity"

	"gorm.io/gorm"
)

type TimeSlotRepository interface {
	Create(db *gorm.DB, slot *entity.TimeSlot) error
	CreateBatch(db *gorm.DB, slots []entity.TimeSlot) error
	FindByID(db *gorm.DB, id uint) (*entity.TimeSlot, error)
	FindByDoctorAndDate(db *gorm.DB, doctorID uint, date time.Time) ([]entity.TimeSlot, error)
	// FindByDoctorBetween returns slots dated in [from, to).
	FindByDoctorBetween(db *gorm.DB, doctorID uint, from, to time.Time) ([]entity.TimeSlot, error)
	FindAll(db *gorm.DB, filter entity.TimeSlotFilter, page entity.Page) ([]entity.TimeSlot, int64, error)
	// MarkBooked flips a free slot to booked. Zero rows means the slot is
	// missing or already booked.
	MarkBooked(db *gorm.DB, id uint) (int64, error)
	MarkFree(db *gorm.DB, id uint) (int64, error)
	// DeleteIfFree removes the slot only while it is unbooked.
	DeleteIfFree(db *gorm.DB, id uint) (int64, error)
}
