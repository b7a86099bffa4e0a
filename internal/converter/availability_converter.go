package converter

import (
	"medical-appointment-booking/internal/delivery/dto"
	"medical-appointment-booking/internal/domain/entity"
)

func AvailabilityToResponse(a *entity.DoctorAvailability) dto.AvailabilityResponse {
	return dto.AvailabilityResponse{
		ID:        a.ID,
		DoctorID:  a.DoctorID,
		DayOfWeek: a.DayOfWeek.String(),
		StartTime: a.StartTime.String(),
		EndTime:   a.EndTime.String(),
		StartDate: a.StartDate.Format(entity.DateLayout),
		EndDate:   a.EndDate.Format(entity.DateLayout),
	}
}

func AvailabilitiesToResponses(rules []entity.DoctorAvailability) []dto.AvailabilityResponse {
	responses := make([]dto.AvailabilityResponse, len(rules))
	for i := range rules {
		responses[i] = AvailabilityToResponse(&rules[i])
	}
	return responses
}
