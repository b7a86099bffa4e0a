package entity

import (
	"fmt"
	"time"
)

// DoctorAvailability is a weekly recurring rule: every DayOfWeek between
// StartDate and EndDate the doctor works from StartTime to EndTime.
type DoctorAvailability struct {
	ID        uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID  uint         `gorm:"not null;index:idx_availability_doctor_day" json:"doctor_id"`
	DayOfWeek time.Weekday `gorm:"not null;index:idx_availability_doctor_day" json:"day_of_week"`
	StartTime ClockTime    `gorm:"type:time without time zone;not null" json:"start_time"`
	EndTime   ClockTime    `gorm:"type:time without time zone;not null" json:"end_time"`
	StartDate time.Time    `gorm:"type:date;not null" json:"start_date"`
	EndDate   time.Time    `gorm:"type:date;not null" json:"end_date"`
	CreatedAt time.Time    `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Doctor DoctorProfile `gorm:"foreignKey:DoctorID;constraint:OnDelete:CASCADE" json:"doctor,omitempty"`
}

func (DoctorAvailability) TableName() string {
	return "doctor_availabilities"
}

func (a *DoctorAvailability) Span() string {
	return fmt.Sprintf("%s between %s - %s within %s to %s",
		a.DayOfWeek, a.StartTime, a.EndTime,
		a.StartDate.Format(DateLayout), a.EndDate.Format(DateLayout))
}
