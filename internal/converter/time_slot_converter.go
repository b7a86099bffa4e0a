package converter

import (
	"medical-appointment-booking/internal/delivery/dto"
	"medical-appointment-booking/internal/domain/entity"
)

// TimeSlotToResponse includes doctor details only when Doctor.User was preloaded
func TimeSlotToResponse(slot *entity.TimeSlot) dto.TimeSlotResponse {
	response := dto.TimeSlotResponse{
		ID:        slot.ID,
		DoctorID:  slot.DoctorID,
		SlotDate:  slot.SlotDate.Format(entity.DateLayout),
		StartTime: slot.StartTime.String(),
		EndTime:   slot.EndTime.String(),
		IsBooked:  slot.IsBooked,
	}

	if slot.Doctor.User.ID != 0 {
		response.DoctorName = slot.Doctor.User.FullName
		response.Specialty = slot.Doctor.Specialty
	}

	return response
}

func TimeSlotsToResponses(slots []entity.TimeSlot) []dto.TimeSlotResponse {
	responses := make([]dto.TimeSlotResponse, len(slots))
	for i := range slots {
		responses[i] = TimeSlotToResponse(&slots[i])
	}
	return responses
}
