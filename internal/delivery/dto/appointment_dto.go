package dto

import "time"

// Request DTOs

// BookAppointmentRequest books a free slot. PatientID is required for admins
// and must be omitted or equal to the caller for patients.
type BookAppointmentRequest struct {
	TimeSlotID uint  `json:"time_slot_id" validate:"required,min=1"`
	PatientID  *uint `json:"patient_id" validate:"omitempty,min=1"`
}

type AddNotesRequest struct {
	Notes string `json:"notes" validate:"required,max=4000"`
}

// Response DTOs

type AppointmentResponse struct {
	ID          uint      `json:"id"`
	PatientID   uint      `json:"patient_id"`
	PatientName string    `json:"patient_name,omitempty"`
	DoctorID    uint      `json:"doctor_id"`
	DoctorName  string    `json:"doctor_name,omitempty"`
	Specialty   string    `json:"specialty,omitempty"`
	TimeSlotID  uint      `json:"time_slot_id"`
	SlotDate    string    `json:"slot_date"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	Notes       *string   `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
