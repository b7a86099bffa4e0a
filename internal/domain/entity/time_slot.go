package entity

import (
	"fmt"
	"time"
)

// TimeSlot is a bookable interval of one doctor on one date. IsBooked is the
// only source of truth for availability.
type TimeSlot struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID  uint      `gorm:"not null;index:idx_time_slots_doctor_date" json:"doctor_id"`
	SlotDate  time.Time `gorm:"type:date;not null;index:idx_time_slots_doctor_date" json:"slot_date"`
	StartTime ClockTime `gorm:"type:time without time zone;not null" json:"start_time"`
	EndTime   ClockTime `gorm:"type:time without time zone;not null" json:"end_time"`
	IsBooked  bool      `gorm:"not null;default:false;index" json:"is_booked"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor DoctorProfile `gorm:"foreignKey:DoctorID;constraint:OnDelete:RESTRICT" json:"doctor,omitempty"`
}

func (TimeSlot) TableName() string {
	return "time_slots"
}

// StartsAt returns the absolute start instant in UTC.
func (s *TimeSlot) StartsAt() time.Time {
	return s.StartTime.On(s.SlotDate)
}

func (s *TimeSlot) Span() string {
	return fmt.Sprintf("%s %s - %s", s.SlotDate.Format(DateLayout), s.StartTime, s.EndTime)
}

// TimeSlotFilter narrows slot listings without coupling the repository to
// delivery DTOs.
type TimeSlotFilter struct {
	DoctorID *uint
	From     *time.Time // inclusive date
	To       *time.Time // exclusive date
	IsBooked *bool
	// After hides slots starting at or before this instant.
	After *time.Time
}
