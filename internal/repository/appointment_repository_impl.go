package repository

import (
	"errors"

	"medical-appointment-booking/internal/domain/entity"
	domainRepo "medical-appointment-booking/internal/domain/repository"

	"gorm.io/gorm"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Omit("Patient", "Doctor", "TimeSlot").Create(appointment).Error
}

func (r *appointmentRepository) withDetails(db *gorm.DB) *gorm.DB {
	return db.Preload("TimeSlot").Preload("Doctor.User").Preload("Patient.User")
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uint) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := r.withDetails(db).Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindByTimeSlotID(db *gorm.DB, timeSlotID uint) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := r.withDetails(db).Where("time_slot_id = ?", timeSlotID).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindAll(db *gorm.DB, filter entity.AppointmentFilter, page entity.Page) ([]entity.Appointment, int64, error) {
	query := db.Model(&entity.Appointment{}).
		Joins("JOIN time_slots ON time_slots.id = appointments.time_slot_id")

	if filter.PatientID != nil {
		query = query.Where("appointments.patient_id = ?", *filter.PatientID)
	}
	if filter.DoctorID != nil {
		query = query.Where("appointments.doctor_id = ?", *filter.DoctorID)
	}
	if filter.From != nil {
		query = query.Where("time_slots.slot_date >= ?", entity.DateOf(*filter.From))
	}
	if filter.To != nil {
		query = query.Where("time_slots.slot_date < ?", entity.DateOf(*filter.To))
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var appointments []entity.Appointment
	err := r.withDetails(query).
		Order("time_slots.slot_date ASC, time_slots.start_time ASC, appointments.id ASC").
		Limit(page.Size).Offset(page.Offset()).
		Find(&appointments).Error
	if err != nil {
		return nil, 0, err
	}
	return appointments, total, nil
}

func (r *appointmentRepository) UpdateNotes(db *gorm.DB, id uint, notes *string) error {
	return db.Model(&entity.Appointment{}).Where("id = ?", id).Update("notes", notes).Error
}

func (r *appointmentRepository) Delete(db *gorm.DB, id uint) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.Appointment{})
	return result.RowsAffected, result.Error
}
