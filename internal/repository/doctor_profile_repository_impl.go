package repository

import (
	"errors"

	"medical-appointment-booking/internal/domain/entity"
	domainRepo "medical-appointment-booking/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type doctorProfileRepository struct{}

func NewDoctorProfileRepository() domainRepo.DoctorProfileRepository {
	return &doctorProfileRepository{}
}

func (r *doctorProfileRepository) Create(db *gorm.DB, profile *entity.DoctorProfile) error {
	return db.Omit("User").Create(profile).Error
}

func (r *doctorProfileRepository) FindByUserID(db *gorm.DB, doctorID uint) (*entity.DoctorProfile, error) {
	var profile entity.DoctorProfile
	err := db.Preload("User").Where("user_id = ?", doctorID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// LockByUserID loads the profile with SELECT ... FOR UPDATE. The lock lasts
// until db's transaction ends; dialects without row locks skip the clause.
func (r *doctorProfileRepository) LockByUserID(db *gorm.DB, doctorID uint) (*entity.DoctorProfile, error) {
	var profile entity.DoctorProfile
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).Where("user_id = ?", doctorID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if err := db.Where("id = ?", profile.UserID).First(&profile.User).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *doctorProfileRepository) FindAll(db *gorm.DB, specialty string, page entity.Page) ([]entity.DoctorProfile, int64, error) {
	query := db.Model(&entity.DoctorProfile{})
	if specialty != "" {
		query = query.Where("LOWER(specialty) LIKE LOWER(?)", "%"+specialty+"%")
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var profiles []entity.DoctorProfile
	err := query.Preload("User").
		Order("user_id ASC").
		Limit(page.Size).Offset(page.Offset()).
		Find(&profiles).Error
	if err != nil {
		return nil, 0, err
	}
	return profiles, total, nil
}

func (r *doctorProfileRepository) Update(db *gorm.DB, profile *entity.DoctorProfile) error {
	return db.Omit("User").Save(profile).Error
}
