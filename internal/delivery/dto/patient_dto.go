package dto

import "github.com/shopspring/decimal"

// Request DTOs

// UpdatePatientRequest sets measurements in inches and pounds. A nil field
// is left unchanged.
type UpdatePatientRequest struct {
	HeightImperial *decimal.Decimal `json:"height_imperial"`
	WeightImperial *decimal.Decimal `json:"weight_imperial"`
}

// Response DTOs

type PatientResponse struct {
	ID             uint                `json:"id"`
	FullName       string              `json:"full_name"`
	Email          string              `json:"email"`
	HeightImperial decimal.NullDecimal `json:"height_imperial"`
	WeightImperial decimal.NullDecimal `json:"weight_imperial"`
}

// PatientDetailResponse is the patient home view with this week's
// appointments.
type PatientDetailResponse struct {
	PatientResponse
	AppointmentsThisWeek []AppointmentResponse `json:"appointments_this_week"`
}
