package repository

import (
	"medical-appointment-booking/internal/domain/entity"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(db *gorm.DB, user *entity.User) error
	FindByID(db *gorm.DB, id uint) (*entity.User, error)
	FindByEmail(db *gorm.DB, email string) (*entity.User, error)
	FindByResetToken(db *gorm.DB, token string) (*entity.User, error)
	FindAll(db *gorm.DB, page entity.Page) ([]entity.User, int64, error)
	EmailTakenByOther(db *gorm.DB, email string, userID uint) (bool, error)
	Update(db *gorm.DB, user *entity.User) error
}
