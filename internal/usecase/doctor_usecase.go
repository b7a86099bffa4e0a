package usecase

import (
	"context"
	"strings"

	"medical-appointment-booking/internal/access"
	"medical-appointment-booking/internal/converter"
	"medical-appointment-booking/internal/delivery/dto"
	"medical-appointment-booking/internal/domain/entity"
	"medical-appointment-booking/internal/domain/repository"
	"medical-appointment-booking/pkg/apperror"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// upcomingDays is the window of the doctor home view.
const upcomingDays = 7

var ErrDoctorNotFound = apperror.NotFound("doctor not found")

type DoctorUsecase interface {
	ListDoctors(ctx context.Context, caller entity.Caller, specialty string, q dto.PageQuery) (*dto.Paginated[dto.DoctorResponse], error)
	GetDoctor(ctx context.Context, caller entity.Caller, doctorID uint) (*dto.DoctorDetailResponse, error)
	UpdateDoctor(ctx context.Context, caller entity.Caller, doctorID uint, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error)
}

type doctorUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	doctorProfileRepo repository.DoctorProfileRepository
	timeSlotRepo      repository.TimeSlotRepository
}

func NewDoctorUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	doctorProfileRepo repository.DoctorProfileRepository,
	timeSlotRepo repository.TimeSlotRepository,
) DoctorUsecase {
	return &doctorUsecase{
		db:                db,
		log:               log,
		doctorProfileRepo: doctorProfileRepo,
		timeSlotRepo:      timeSlotRepo,
	}
}

// ListDoctors is open to every signed in user so patients can pick a doctor.
func (u *doctorUsecase) ListDoctors(ctx context.Context, caller entity.Caller, specialty string, q dto.PageQuery) (*dto.Paginated[dto.DoctorResponse], error) {
	if !caller.Authenticated() {
		return nil, access.ErrUnauthenticated
	}

	page := toPage(q)
	doctors, total, err := u.doctorProfileRepo.FindAll(u.db.WithContext(ctx), strings.TrimSpace(specialty), page)
	if err != nil {
		u.log.Warnf("Failed to find doctors: %+v", err)
		return nil, err
	}

	return paginated(converter.DoctorsToResponses(doctors), page, total), nil
}

// GetDoctor returns the profile with the slots of the next seven days that
// have not started yet.
func (u *doctorUsecase) GetDoctor(ctx context.Context, caller entity.Caller, doctorID uint) (*dto.DoctorDetailResponse, error) {
	if !caller.Authenticated() {
		return nil, access.ErrUnauthenticated
	}

	db := u.db.WithContext(ctx)
	doctor, err := u.doctorProfileRepo.FindByUserID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	current := now().UTC()
	today := entity.DateOf(current)
	slots, err := u.timeSlotRepo.FindByDoctorBetween(db, doctorID, today, today.AddDate(0, 0, upcomingDays))
	if err != nil {
		u.log.Warnf("Failed to find upcoming slots: %+v", err)
		return nil, err
	}

	upcoming := make([]entity.TimeSlot, 0, len(slots))
	for _, slot := range slots {
		if slot.StartsAt().After(current) {
			upcoming = append(upcoming, slot)
		}
	}

	return &dto.DoctorDetailResponse{
		DoctorResponse: *converter.DoctorToResponse(doctor),
		UpcomingSlots:  converter.TimeSlotsToResponses(upcoming),
	}, nil
}

func (u *doctorUsecase) UpdateDoctor(ctx context.Context, caller entity.Caller, doctorID uint, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	if err := access.CanAccessDoctor(caller, doctorID); err != nil {
		return nil, err
	}

	db := u.db.WithContext(ctx)
	doctor, err := u.doctorProfileRepo.FindByUserID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	doctor.Specialty = strings.TrimSpace(req.Specialty)
	if doctor.Specialty == "" {
		doctor.Specialty = entity.DefaultSpecialty
	}

	if err := u.doctorProfileRepo.Update(db, doctor); err != nil {
		u.log.Warnf("Failed to update doctor: %+v", err)
		return nil, err
	}

	return converter.DoctorToResponse(doctor), nil
}
