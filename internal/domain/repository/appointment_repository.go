package repository

import (
	"medical-appointment-booking/internal/domain/entity"

	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uint) (*entity.Appointment, error)
	FindByTimeSlotID(db *gorm.DB, timeSlotID uint) (*entity.Appointment, error)
	FindAll(db *gorm.DB, filter entity.AppointmentFilter, page entity.Page) ([]entity.Appointment, int64, error)
	UpdateNotes(db *gorm.DB, id uint, notes *string) error
	Delete(db *gorm.DB, id uint) (int64, error)
}
