package entity

import (
	"time"
)

// Appointment binds a patient to exactly one booked time slot. It exists
// only while the slot is booked.
type Appointment struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PatientID  uint      `gorm:"not null;index" json:"patient_id"`
	DoctorID   uint      `gorm:"not null;index" json:"doctor_id"`
	TimeSlotID uint      `gorm:"not null;uniqueIndex" json:"time_slot_id"`
	Notes      *string   `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient  PatientProfile `gorm:"foreignKey:PatientID;constraint:OnDelete:RESTRICT" json:"patient,omitempty"`
	Doctor   DoctorProfile  `gorm:"foreignKey:DoctorID;constraint:OnDelete:RESTRICT" json:"doctor,omitempty"`
	TimeSlot TimeSlot       `gorm:"foreignKey:TimeSlotID;constraint:OnDelete:RESTRICT" json:"time_slot,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// AppointmentFilter narrows appointment listings.
type AppointmentFilter struct {
	PatientID *uint
	DoctorID  *uint
	From      *time.Time // inclusive slot date
	To        *time.Time // exclusive slot date
}
