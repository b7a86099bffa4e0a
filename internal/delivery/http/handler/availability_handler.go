package handler

import (
	"net/http"

	"medical-appointment-booking/internal/delivery/dto"
	"medical-appointment-booking/internal/delivery/http/middleware"
	"medical-appointment-booking/internal/usecase"
	"medical-appointment-booking/pkg/response"
	"medical-appointment-booking/pkg/validator"
)

type AvailabilityHandler struct {
	availabilityUsecase usecase.AvailabilityUsecase
	validator           *validator.CustomValidator
}

func NewAvailabilityHandler(availabilityUsecase usecase.AvailabilityUsecase, validator *validator.CustomValidator) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityUsecase: availabilityUsecase,
		validator:           validator,
	}
}

// CreateAvailability stores the weekly rules and answers with the number of
// hourly slots generated from them.
func (h *AvailabilityHandler) CreateAvailability(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAvailabilityRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	res, err := h.availabilityUsecase.CreateAvailability(r.Context(), middleware.CallerFromContext(r.Context()), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "Availability created successfully", res)
}
