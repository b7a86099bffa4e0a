package dto

// Request DTOs

// CreateAvailabilityRequest creates one weekly rule per listed day. EndDate is
// exclusive when slots are generated.
type CreateAvailabilityRequest struct {
	DoctorID   *uint    `json:"doctor_id" validate:"omitempty,min=1"`
	DaysOfWeek []string `json:"days_of_week" validate:"required,min=1,max=7,dive,weekday"`
	StartTime  string   `json:"start_time" validate:"required,clock"`
	EndTime    string   `json:"end_time" validate:"required,clock"`
	StartDate  string   `json:"start_date" validate:"required,date"`
	EndDate    string   `json:"end_date" validate:"required,date"`
}

// Response DTOs

type AvailabilityResponse struct {
	ID        uint   `json:"id"`
	DoctorID  uint   `json:"doctor_id"`
	DayOfWeek string `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type CreateAvailabilityResponse struct {
	Availabilities []AvailabilityResponse `json:"availabilities"`
	SlotsGenerated int                    `json:"slots_generated"`
	SlotsSkipped   int                    `json:"slots_skipped"`
}
