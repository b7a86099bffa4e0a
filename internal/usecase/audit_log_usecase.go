package usecase

import (
	"context"

	"medical-appointment-booking/internal/access"
	"medical-appointment-booking/internal/converter"
	"medical-appointment-booking/internal/delivery/dto"
	"medical-appointment-booking/internal/domain/entity"
	"medical-appointment-booking/internal/domain/repository"
	"medical-appointment-booking/pkg/apperror"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAuditLogNotFound = apperror.NotFound("audit log not found")
)

type AuditLogUsecase interface {
	GetAllAuditLogs(ctx context.Context, caller entity.Caller, action string, q dto.PageQuery) (*dto.Paginated[dto.AuditLogResponse], error)
	GetAuditLog(ctx context.Context, caller entity.Caller, id int64) (*dto.AuditLogResponse, error)
}

type auditLogUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	auditLogRepo repository.AuditLogRepository
}

func NewAuditLogUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	auditLogRepo repository.AuditLogRepository,
) AuditLogUsecase {
	return &auditLogUsecase{
		db:           db,
		log:          log,
		auditLogRepo: auditLogRepo,
	}
}

func (u *auditLogUsecase) GetAllAuditLogs(ctx context.Context, caller entity.Caller, action string, q dto.PageQuery) (*dto.Paginated[dto.AuditLogResponse], error) {
	if err := access.RequireRole(caller, entity.RoleAdmin); err != nil {
		return nil, err
	}

	page := toPage(q)
	logs, total, err := u.auditLogRepo.FindAll(u.db.WithContext(ctx), action, page)
	if err != nil {
		u.log.Warnf("Failed to find all audit logs: %+v", err)
		return nil, err
	}

	return paginated(converter.AuditLogsToResponses(logs), page, total), nil
}

func (u *auditLogUsecase) GetAuditLog(ctx context.Context, caller entity.Caller, id int64) (*dto.AuditLogResponse, error) {
	if err := access.RequireRole(caller, entity.RoleAdmin); err != nil {
		return nil, err
	}

	auditLog, err := u.auditLogRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find audit log: %+v", err)
		return nil, err
	}
	if auditLog == nil {
		return nil, ErrAuditLogNotFound
	}

	return converter.AuditLogToResponse(auditLog), nil
}
