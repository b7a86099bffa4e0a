package handler

import (
	"context"
	"net/http"
	"time"

	"medical-appointment-booking/pkg/response"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const healthTimeout = 2 * time.Second

// HealthHandler doubles as a keep-alive: every call runs a trivial query.
type HealthHandler struct {
	db  *gorm.DB
	log *logrus.Logger
}

func NewHealthHandler(db *gorm.DB, log *logrus.Logger) *HealthHandler {
	return &HealthHandler{db: db, log: log}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	var one int
	if err := h.db.WithContext(ctx).Raw("SELECT 1").Scan(&one).Error; err != nil {
		h.log.Warnf("Failed to ping database: %+v", err)
		response.Error(w, http.StatusServiceUnavailable, "Database unavailable", nil)
		return
	}

	response.Success(w, http.StatusOK, "ok", map[string]string{"status": "ok", "database": "up"})
}
