package dto

// Request DTOs

type CreateTimeSlotRequest struct {
	DoctorID  *uint  `json:"doctor_id" validate:"omitempty,min=1"`
	SlotDate  string `json:"slot_date" validate:"required,date"`
	StartTime string `json:"start_time" validate:"required,clock"`
	EndTime   string `json:"end_time" validate:"required,clock"`
}

// TimeSlotQuery filters the available slot listing. Dates are YYYY-MM-DD,
// To is exclusive.
type TimeSlotQuery struct {
	DoctorID *uint
	From     string
	To       string
	PageQuery
}

// Response DTOs

type TimeSlotResponse struct {
	ID         uint   `json:"id"`
	DoctorID   uint   `json:"doctor_id"`
	DoctorName string `json:"doctor_name,omitempty"`
	Specialty  string `json:"specialty,omitempty"`
	SlotDate   string `json:"slot_date"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	IsBooked   bool   `json:"is_booked"`
}

type TimeSlotDetailResponse struct {
	TimeSlotResponse
	Appointment *AppointmentResponse `json:"appointment,omitempty"`
}
