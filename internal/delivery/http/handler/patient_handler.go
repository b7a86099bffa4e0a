package handler

import (
	"net/http"

	"medical-appointment-booking/internal/delivery/dto"
	"medical-appointment-booking/internal/delivery/http/middleware"
	"medical-appointment-booking/internal/usecase"
	"medical-appointment-booking/pkg/response"
	"medical-appointment-booking/pkg/validator"
)

type PatientHandler struct {
	patientUsecase     usecase.PatientUsecase
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewPatientHandler(patientUsecase usecase.PatientUsecase, appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *PatientHandler {
	return &PatientHandler{
		patientUsecase:     patientUsecase,
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

func (h *PatientHandler) GetAllPatients(w http.ResponseWriter, r *http.Request) {
	page, err := h.patientUsecase.ListPatients(r.Context(), middleware.CallerFromContext(r.Context()), pageQuery(r))
	if err != nil {
		response.FromError(w, err)
		return
	}

	respondPage(w, "Patients retrieved successfully", page)
}

func (h *PatientHandler) GetPatient(w http.ResponseWriter, r *http.Request) {
	patientID, ok := pathID(w, r, "id", "patient")
	if !ok {
		return
	}

	patient, err := h.patientUsecase.GetPatient(r.Context(), middleware.CallerFromContext(r.Context()), patientID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Patient retrieved successfully", patient)
}

func (h *PatientHandler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	patientID, ok := pathID(w, r, "id", "patient")
	if !ok {
		return
	}

	var req dto.UpdatePatientRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	patient, err := h.patientUsecase.UpdatePatient(r.Context(), middleware.CallerFromContext(r.Context()), patientID, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Patient updated successfully", patient)
}

func (h *PatientHandler) GetAppointments(w http.ResponseWriter, r *http.Request) {
	patientID, ok := pathID(w, r, "id", "patient")
	if !ok {
		return
	}

	page, err := h.appointmentUsecase.ListByPatient(r.Context(), middleware.CallerFromContext(r.Context()), patientID, pageQuery(r))
	if err != nil {
		response.FromError(w, err)
		return
	}

	respondPage(w, "Appointments retrieved successfully", page)
}
