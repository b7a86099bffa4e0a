package repository

import (
	"time"

	"medical-appointment-booking/internal/domain/entity"
	domainRepo "medical-appointment-booking/internal/domain/repository"

	"gorm.io/gorm"
)

type doctorAvailabilityRepository struct{}

func NewDoctorAvailabilityRepository() domainRepo.DoctorAvailabilityRepository {
	return &doctorAvailabilityRepository{}
}

func (r *doctorAvailabilityRepository) Create(db *gorm.DB, availability *entity.DoctorAvailability) error {
	return db.Omit("Doctor").Create(availability).Error
}

func (r *doctorAvailabilityRepository) FindByDoctorAndDay(db *gorm.DB, doctorID uint, day time.Weekday) ([]entity.DoctorAvailability, error) {
	var rules []entity.DoctorAvailability
	err := db.Where("doctor_id = ? AND day_of_week = ?", doctorID, day).
		Order("start_date ASC, start_time ASC").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *doctorAvailabilityRepository) FindByDoctorID(db *gorm.DB, doctorID uint, page entity.Page) ([]entity.DoctorAvailability, int64, error) {
	query := db.Model(&entity.DoctorAvailability{}).Where("doctor_id = ?", doctorID)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rules []entity.DoctorAvailability
	err := query.Order("start_date DESC, day_of_week ASC, start_time ASC").
		Limit(page.Size).Offset(page.Offset()).
		Find(&rules).Error
	if err != nil {
		return nil, 0, err
	}
	return rules, total, nil
}

// FindActiveBetween returns rules whose [start_date, end_date) range meets
// [from, to).
func (r *doctorAvailabilityRepository) FindActiveBetween(db *gorm.DB, doctorID uint, from, to time.Time) ([]entity.DoctorAvailability, error) {
	var rules []entity.DoctorAvailability
	err := db.Where("doctor_id = ? AND start_date < ? AND end_date > ?", doctorID, entity.DateOf(to), entity.DateOf(from)).
		Order("day_of_week ASC, start_time ASC").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}
