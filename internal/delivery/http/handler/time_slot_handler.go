package handler

import (
	"net/http"

	"medical-appointment-booking/internal/delivery/dto"
	"medical-appointment-booking/internal/delivery/http/middleware"
	"medical-appointment-booking/internal/usecase"
	"medical-appointment-booking/pkg/response"
	"medical-appointment-booking/pkg/validator"
)

type TimeSlotHandler struct {
	timeSlotUsecase usecase.TimeSlotUsecase
	validator       *validator.CustomValidator
}

func NewTimeSlotHandler(timeSlotUsecase usecase.TimeSlotUsecase, validator *validator.CustomValidator) *TimeSlotHandler {
	return &TimeSlotHandler{
		timeSlotUsecase: timeSlotUsecase,
		validator:       validator,
	}
}

func (h *TimeSlotHandler) CreateTimeSlot(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTimeSlotRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	slot, err := h.timeSlotUsecase.CreateTimeSlot(r.Context(), middleware.CallerFromContext(r.Context()), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "Time slot created successfully", slot)
}

// GetAvailableTimeSlots lists free slots that have not started, optionally
// narrowed by doctor_id and a from/to date range.
func (h *TimeSlotHandler) GetAvailableTimeSlots(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := queryID(w, r, "doctor_id")
	if !ok {
		return
	}

	q := dto.TimeSlotQuery{
		DoctorID:  doctorID,
		From:      r.URL.Query().Get("from"),
		To:        r.URL.Query().Get("to"),
		PageQuery: pageQuery(r),
	}

	page, err := h.timeSlotUsecase.ListAvailable(r.Context(), middleware.CallerFromContext(r.Context()), q)
	if err != nil {
		response.FromError(w, err)
		return
	}

	respondPage(w, "Available time slots retrieved successfully", page)
}

func (h *TimeSlotHandler) GetTimeSlot(w http.ResponseWriter, r *http.Request) {
	slotID, ok := pathID(w, r, "id", "time slot")
	if !ok {
		return
	}

	slot, err := h.timeSlotUsecase.GetTimeSlot(r.Context(), middleware.CallerFromContext(r.Context()), slotID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Time slot retrieved successfully", slot)
}

func (h *TimeSlotHandler) DeleteTimeSlot(w http.ResponseWriter, r *http.Request) {
	slotID, ok := pathID(w, r, "id", "time slot")
	if !ok {
		return
	}

	if err := h.timeSlotUsecase.DeleteTimeSlot(r.Context(), middleware.CallerFromContext(r.Context()), slotID); err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Time slot deleted successfully", nil)
}
