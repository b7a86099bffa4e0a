package converter

import (
	"medical-appointment-booking/internal/delivery/dto"
	"medical-appointment-booking/internal/domain/entity"
)

// AppointmentToResponse flattens the preloaded slot, doctor and patient
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:          appointment.ID,
		PatientID:   appointment.PatientID,
		PatientName: appointment.Patient.User.FullName,
		DoctorID:    appointment.DoctorID,
		DoctorName:  appointment.Doctor.User.FullName,
		Specialty:   appointment.Doctor.Specialty,
		TimeSlotID:  appointment.TimeSlotID,
		Notes:       appointment.Notes,
		CreatedAt:   appointment.CreatedAt,
	}

	if appointment.TimeSlot.ID != 0 {
		response.SlotDate = appointment.TimeSlot.SlotDate.Format(entity.DateLayout)
		response.StartTime = appointment.TimeSlot.StartTime.String()
		response.EndTime = appointment.TimeSlot.EndTime.String()
	}

	return response
}

func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}
