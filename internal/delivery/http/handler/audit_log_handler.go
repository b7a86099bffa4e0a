package handler

import (
	"net/http"
	"strconv"

	"medical-appointment-booking/internal/delivery/http/middleware"
	"medical-appointment-booking/internal/usecase"
	"medical-appointment-booking/pkg/response"

	"github.com/gorilla/mux"
)

type AuditLogHandler struct {
	auditLogUsecase usecase.AuditLogUsecase
}

func NewAuditLogHandler(auditLogUsecase usecase.AuditLogUsecase) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUsecase: auditLogUsecase,
	}
}

func (h *AuditLogHandler) GetAuditLog(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	auditLogID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil || auditLogID < 1 {
		response.Error(w, http.StatusBadRequest, "Invalid audit log ID", nil)
		return
	}

	auditLog, err := h.auditLogUsecase.GetAuditLog(r.Context(), middleware.CallerFromContext(r.Context()), auditLogID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Audit log retrieved successfully", auditLog)
}

func (h *AuditLogHandler) GetAllAuditLogs(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromContext(r.Context())
	page, err := h.auditLogUsecase.GetAllAuditLogs(r.Context(), caller, r.URL.Query().Get("action"), pageQuery(r))
	if err != nil {
		response.FromError(w, err)
		return
	}

	respondPage(w, "Audit logs retrieved successfully", page)
}
