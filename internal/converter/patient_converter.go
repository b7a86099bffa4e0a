package converter

import (
	"medical-appointment-booking/internal/delivery/dto"
	"medical-appointment-booking/internal/domain/entity"
)

func PatientToResponse(patient *entity.PatientProfile) *dto.PatientResponse {
	if patient == nil {
		return nil
	}

	return &dto.PatientResponse{
		ID:             patient.UserID,
		FullName:       patient.User.FullName,
		Email:          patient.User.Email,
		HeightImperial: patient.HeightImperial,
		WeightImperial: patient.WeightImperial,
	}
}

func PatientsToResponses(patients []entity.PatientProfile) []dto.PatientResponse {
	responses := make([]dto.PatientResponse, len(patients))
	for i := range patients {
		responses[i] = *PatientToResponse(&patients[i])
	}
	return responses
}
