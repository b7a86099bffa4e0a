package repository

import (
	"errors"
	"time"

	"medical-appointment-booking/internal/domain/entity"
	domainRepo "medical-appointment-booking/internal/domain/repository"

	"gorm.io/gorm"
)

const timeSlotBatchSize = 200

type timeSlotRepository struct{}

func NewTimeSlotRepository() domainRepo.TimeSlotRepository {
	return &timeSlotRepository{}
}

func (r *timeSlotRepository) Create(db *gorm.DB, slot *entity.TimeSlot) error {
	return db.Omit("Doctor").Create(slot).Error
}

func (r *timeSlotRepository) CreateBatch(db *gorm.DB, slots []entity.TimeSlot) error {
	if len(slots) == 0 {
		return nil
	}
	return db.Omit("Doctor").CreateInBatches(slots, timeSlotBatchSize).Error
}

func (r *timeSlotRepository) FindByID(db *gorm.DB, id uint) (*entity.TimeSlot, error) {
	var slot entity.TimeSlot
	err := db.Preload("Doctor.User").Where("id = ?", id).First(&slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &slot, nil
}

func (r *timeSlotRepository) FindByDoctorAndDate(db *gorm.DB, doctorID uint, date time.Time) ([]entity.TimeSlot, error) {
	var slots []entity.TimeSlot
	err := db.Where("doctor_id = ? AND slot_date = ?", doctorID, entity.DateOf(date)).
		Order("start_time ASC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *timeSlotRepository) FindByDoctorBetween(db *gorm.DB, doctorID uint, from, to time.Time) ([]entity.TimeSlot, error) {
	var slots []entity.TimeSlot
	err := db.Where("doctor_id = ? AND slot_date >= ? AND slot_date < ?", doctorID, entity.DateOf(from), entity.DateOf(to)).
		Order("slot_date ASC, start_time ASC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *timeSlotRepository) FindAll(db *gorm.DB, filter entity.TimeSlotFilter, page entity.Page) ([]entity.TimeSlot, int64, error) {
	query := db.Model(&entity.TimeSlot{})

	if filter.DoctorID != nil {
		query = query.Where("doctor_id = ?", *filter.DoctorID)
	}
	if filter.From != nil {
		query = query.Where("slot_date >= ?", entity.DateOf(*filter.From))
	}
	if filter.To != nil {
		query = query.Where("slot_date < ?", entity.DateOf(*filter.To))
	}
	if filter.IsBooked != nil {
		query = query.Where("is_booked = ?", *filter.IsBooked)
	}
	if filter.After != nil {
		day := entity.DateOf(*filter.After)
		query = query.Where("slot_date > ? OR (slot_date = ? AND start_time > ?)", day, day, entity.ClockOf(*filter.After))
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var slots []entity.TimeSlot
	err := query.Preload("Doctor.User").
		Order("slot_date ASC, start_time ASC, id ASC").
		Limit(page.Size).Offset(page.Offset()).
		Find(&slots).Error
	if err != nil {
		return nil, 0, err
	}
	return slots, total, nil
}

// MarkBooked atomically books a slot ONLY if it is still free.
// Returns affected rows: 1 = booked, 0 = missing or already booked.
func (r *timeSlotRepository) MarkBooked(db *gorm.DB, id uint) (int64, error) {
	result := db.Model(&entity.TimeSlot{}).
		Where("id = ? AND is_booked = ?", id, false).
		Update("is_booked", true)
	return result.RowsAffected, result.Error
}

func (r *timeSlotRepository) MarkFree(db *gorm.DB, id uint) (int64, error) {
	result := db.Model(&entity.TimeSlot{}).
		Where("id = ? AND is_booked = ?", id, true).
		Update("is_booked", false)
	return result.RowsAffected, result.Error
}

func (r *timeSlotRepository) DeleteIfFree(db *gorm.DB, id uint) (int64, error) {
	result := db.Where("id = ? AND is_booked = ?", id, false).Delete(&entity.TimeSlot{})
	return result.RowsAffected, result.Error
}
