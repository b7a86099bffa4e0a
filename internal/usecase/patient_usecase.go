package usecase

import (
	"context"

	"medical-appointment-booking/internal/access"
	"medical-appointment-booking/internal/converter"
	"medical-appointment-booking/internal/delivery/dto"
	"medical-appointment-booking/internal/domain/entity"
	"medical-appointment-booking/internal/domain/repository"
	"medical-appointment-booking/pkg/apperror"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrPatientNotFound    = apperror.NotFound("patient not found")
	ErrInvalidMeasurement = apperror.Validation("height and weight must be positive")
)

type PatientUsecase interface {
	ListPatients(ctx context.Context, caller entity.Caller, q dto.PageQuery) (*dto.Paginated[dto.PatientResponse], error)
	GetPatient(ctx context.Context, caller entity.Caller, patientID uint) (*dto.PatientDetailResponse, error)
	UpdatePatient(ctx context.Context, caller entity.Caller, patientID uint, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error)
}

type patientUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	patientProfileRepo repository.PatientProfileRepository
	appointmentRepo    repository.AppointmentRepository
}

func NewPatientUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	patientProfileRepo repository.PatientProfileRepository,
	appointmentRepo repository.AppointmentRepository,
) PatientUsecase {
	return &patientUsecase{
		db:                 db,
		log:                log,
		patientProfileRepo: patientProfileRepo,
		appointmentRepo:    appointmentRepo,
	}
}

func (u *patientUsecase) ListPatients(ctx context.Context, caller entity.Caller, q dto.PageQuery) (*dto.Paginated[dto.PatientResponse], error) {
	if err := access.RequireRole(caller, entity.RoleAdmin); err != nil {
		return nil, err
	}

	page := toPage(q)
	patients, total, err := u.patientProfileRepo.FindAll(ctx, u.db, page)
	if err != nil {
		u.log.Warnf("Failed to find patients: %+v", err)
		return nil, err
	}

	return paginated(converter.PatientsToResponses(patients), page, total), nil
}

// GetPatient returns the profile with the appointments of the current
// Monday to Sunday week.
func (u *patientUsecase) GetPatient(ctx context.Context, caller entity.Caller, patientID uint) (*dto.PatientDetailResponse, error) {
	if err := access.CanAccessPatient(caller, patientID); err != nil {
		return nil, err
	}

	patient, err := u.patientProfileRepo.FindByUserID(ctx, u.db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	from, to := entity.WeekOf(now().UTC())
	filter := entity.AppointmentFilter{PatientID: &patientID, From: &from, To: &to}
	appointments, _, err := u.appointmentRepo.FindAll(u.db.WithContext(ctx), filter, entity.NewPage(1, entity.MaxPageSize))
	if err != nil {
		u.log.Warnf("Failed to find appointments of the week: %+v", err)
		return nil, err
	}

	return &dto.PatientDetailResponse{
		PatientResponse:      *converter.PatientToResponse(patient),
		AppointmentsThisWeek: converter.AppointmentsToResponses(appointments),
	}, nil
}

func (u *patientUsecase) UpdatePatient(ctx context.Context, caller entity.Caller, patientID uint, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error) {
	if err := access.CanAccessPatient(caller, patientID); err != nil {
		return nil, err
	}
	if !positiveOrNil(req.HeightImperial) || !positiveOrNil(req.WeightImperial) {
		return nil, ErrInvalidMeasurement
	}

	patient, err := u.patientProfileRepo.FindByUserID(ctx, u.db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	if req.HeightImperial != nil {
		patient.HeightImperial = decimal.NewNullDecimal(*req.HeightImperial)
	}
	if req.WeightImperial != nil {
		patient.WeightImperial = decimal.NewNullDecimal(*req.WeightImperial)
	}

	if err := u.patientProfileRepo.Update(ctx, u.db, patient); err != nil {
		u.log.Warnf("Failed to update patient: %+v", err)
		return nil, err
	}

	return converter.PatientToResponse(patient), nil
}

func positiveOrNil(d *decimal.Decimal) bool {
	return d == nil || d.IsPositive()
}
