package handler

import (
	"net/http"

	"medical-appointment-booking/internal/delivery/dto"
	"medical-appointment-booking/internal/delivery/http/middleware"
	"medical-appointment-booking/internal/usecase"
	"medical-appointment-booking/pkg/response"
	"medical-appointment-booking/pkg/validator"
)

// DoctorHandler serves doctor profiles and the listings nested under a
// doctor: time slots, availability rules and appointments.
type DoctorHandler struct {
	doctorUsecase       usecase.DoctorUsecase
	timeSlotUsecase     usecase.TimeSlotUsecase
	availabilityUsecase usecase.AvailabilityUsecase
	appointmentUsecase  usecase.AppointmentUsecase
	validator           *validator.CustomValidator
}

func NewDoctorHandler(
	doctorUsecase usecase.DoctorUsecase,
	timeSlotUsecase usecase.TimeSlotUsecase,
	availabilityUsecase usecase.AvailabilityUsecase,
	appointmentUsecase usecase.AppointmentUsecase,
	validator *validator.CustomValidator,
) *DoctorHandler {
	return &DoctorHandler{
		doctorUsecase:       doctorUsecase,
		timeSlotUsecase:     timeSlotUsecase,
		availabilityUsecase: availabilityUsecase,
		appointmentUsecase:  appointmentUsecase,
		validator:           validator,
	}
}

func (h *DoctorHandler) GetAllDoctors(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromContext(r.Context())
	page, err := h.doctorUsecase.ListDoctors(r.Context(), caller, r.URL.Query().Get("specialty"), pageQuery(r))
	if err != nil {
		response.FromError(w, err)
		return
	}

	respondPage(w, "Doctors retrieved successfully", page)
}

func (h *DoctorHandler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathID(w, r, "id", "doctor")
	if !ok {
		return
	}

	doctor, err := h.doctorUsecase.GetDoctor(r.Context(), middleware.CallerFromContext(r.Context()), doctorID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Doctor retrieved successfully", doctor)
}

func (h *DoctorHandler) UpdateDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathID(w, r, "id", "doctor")
	if !ok {
		return
	}

	var req dto.UpdateDoctorRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	doctor, err := h.doctorUsecase.UpdateDoctor(r.Context(), middleware.CallerFromContext(r.Context()), doctorID, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Doctor updated successfully", doctor)
}

func (h *DoctorHandler) GetTimeSlots(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathID(w, r, "id", "doctor")
	if !ok {
		return
	}

	page, err := h.timeSlotUsecase.ListDoctorSlots(r.Context(), middleware.CallerFromContext(r.Context()), doctorID, pageQuery(r))
	if err != nil {
		response.FromError(w, err)
		return
	}

	respondPage(w, "Time slots retrieved successfully", page)
}

func (h *DoctorHandler) GetBookedTimeSlots(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathID(w, r, "id", "doctor")
	if !ok {
		return
	}

	page, err := h.timeSlotUsecase.ListDoctorBooked(r.Context(), middleware.CallerFromContext(r.Context()), doctorID, pageQuery(r))
	if err != nil {
		response.FromError(w, err)
		return
	}

	respondPage(w, "Booked time slots retrieved successfully", page)
}

func (h *DoctorHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathID(w, r, "id", "doctor")
	if !ok {
		return
	}

	page, err := h.availabilityUsecase.ListByDoctor(r.Context(), middleware.CallerFromContext(r.Context()), doctorID, pageQuery(r))
	if err != nil {
		response.FromError(w, err)
		return
	}

	respondPage(w, "Availability retrieved successfully", page)
}

func (h *DoctorHandler) GetAvailabilityThisWeek(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathID(w, r, "id", "doctor")
	if !ok {
		return
	}

	rules, err := h.availabilityUsecase.ThisWeek(r.Context(), middleware.CallerFromContext(r.Context()), doctorID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Availability retrieved successfully", rules)
}

func (h *DoctorHandler) GetAppointments(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathID(w, r, "id", "doctor")
	if !ok {
		return
	}

	page, err := h.appointmentUsecase.ListByDoctor(r.Context(), middleware.CallerFromContext(r.Context()), doctorID, pageQuery(r))
	if err != nil {
		response.FromError(w, err)
		return
	}

	respondPage(w, "Appointments retrieved successfully", page)
}
