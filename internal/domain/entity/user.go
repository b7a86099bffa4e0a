package entity

import (
	"time"
)

// User is the authentication record shared by patients, doctors and admins
type User struct {
	ID                  uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	FullName            string     `gorm:"type:varchar(255);not null" json:"full_name"`
	Email               string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash        string     `gorm:"type:text;not null" json:"-"`
	Role                Role       `gorm:"type:varchar(20);not null;index" json:"role"`
	PasswordResetToken  *string    `gorm:"type:varchar(255);index" json:"-"`
	PasswordResetExpiry *time.Time `json:"-"`
	CreatedAt           time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// ResetTokenValid reports whether token matches the stored reset token and
// has not expired at now.
func (u *User) ResetTokenValid(token string, now time.Time) bool {
	if u.PasswordResetToken == nil || u.PasswordResetExpiry == nil {
		return false
	}
	return *u.PasswordResetToken == token && now.Before(*u.PasswordResetExpiry)
}
