package usecase

import (
	"context"
	"fmt"

	"medical-appointment-booking/internal/access"
	"medical-appointment-booking/internal/converter"
	"medical-appointment-booking/internal/delivery/dto"
	"medical-appointment-booking/internal/domain/entity"
	"medical-appointment-booking/internal/domain/repository"
	"medical-appointment-booking/internal/scheduling"
	"medical-appointment-booking/internal/service"
	"medical-appointment-booking/pkg/apperror"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrTimeSlotNotFound = apperror.NotFound("time slot not found")
	ErrTimeSlotBooked   = apperror.Conflict("time slot is booked and cannot be deleted")
)

type TimeSlotUsecase interface {
	CreateTimeSlot(ctx context.Context, caller entity.Caller, req *dto.CreateTimeSlotRequest) (*dto.TimeSlotResponse, error)
	GetTimeSlot(ctx context.Context, caller entity.Caller, id uint) (*dto.TimeSlotDetailResponse, error)
	DeleteTimeSlot(ctx context.Context, caller entity.Caller, id uint) error
	ListAvailable(ctx context.Context, caller entity.Caller, q dto.TimeSlotQuery) (*dto.Paginated[dto.TimeSlotResponse], error)
	ListDoctorSlots(ctx context.Context, caller entity.Caller, doctorID uint, q dto.PageQuery) (*dto.Paginated[dto.TimeSlotResponse], error)
	ListDoctorBooked(ctx context.Context, caller entity.Caller, doctorID uint, q dto.PageQuery) (*dto.Paginated[dto.TimeSlotResponse], error)
}

type timeSlotUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	doctorProfileRepo repository.DoctorProfileRepository
	timeSlotRepo      repository.TimeSlotRepository
	appointmentRepo   repository.AppointmentRepository
	auditService      service.AuditService
	slotLocker        service.SlotLocker
}

func NewTimeSlotUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	doctorProfileRepo repository.DoctorProfileRepository,
	timeSlotRepo repository.TimeSlotRepository,
	appointmentRepo repository.AppointmentRepository,
	auditService service.AuditService,
	slotLocker service.SlotLocker,
) TimeSlotUsecase {
	return &timeSlotUsecase{
		db:                db,
		log:               log,
		doctorProfileRepo: doctorProfileRepo,
		timeSlotRepo:      timeSlotRepo,
		appointmentRepo:   appointmentRepo,
		auditService:      auditService,
		slotLocker:        slotLocker,
	}
}

// CreateTimeSlot adds a single slot. It is rejected when it overlaps another
// slot of the same doctor on the same date.
func (u *timeSlotUsecase) CreateTimeSlot(ctx context.Context, caller entity.Caller, req *dto.CreateTimeSlotRequest) (*dto.TimeSlotResponse, error) {
	doctorID, err := access.ResolveDoctor(caller, req.DoctorID)
	if err != nil {
		return nil, err
	}

	slot, err := parseTimeSlot(req)
	if err != nil {
		return nil, err
	}
	slot.DoctorID = doctorID

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	// Serialises slot creation per doctor until commit.
	doctor, err := u.doctorProfileRepo.LockByUserID(tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to lock doctor: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	existing, err := u.timeSlotRepo.FindByDoctorAndDate(tx, doctorID, slot.SlotDate)
	if err != nil {
		u.log.Warnf("Failed to find time slots: %+v", err)
		return nil, err
	}
	if conflict, ok := scheduling.FindSlotConflict(slot, existing); ok {
		return nil, apperror.Conflict("time slot overlaps an existing slot on %s", conflict.Span())
	}

	if err := u.timeSlotRepo.Create(tx, &slot); err != nil {
		if isForeignKeyError(err, "doctor") {
			return nil, ErrDoctorNotFound
		}
		u.log.Warnf("Failed to create time slot: %+v", err)
		return nil, err
	}

	slot.Doctor = *doctor
	res := converter.TimeSlotToResponse(&slot)
	if err := u.auditService.LogCreate(ctx, tx, caller, entity.AuditActionTimeSlotCreate, "time_slot", fmt.Sprint(slot.ID), res); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return &res, nil
}

// GetTimeSlot includes the appointment when the slot is booked.
func (u *timeSlotUsecase) GetTimeSlot(ctx context.Context, caller entity.Caller, id uint) (*dto.TimeSlotDetailResponse, error) {
	if err := access.RequireRole(caller, entity.RoleDoctor, entity.RoleAdmin); err != nil {
		return nil, err
	}

	db := u.db.WithContext(ctx)
	slot, err := u.timeSlotRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find time slot: %+v", err)
		return nil, err
	}
	if slot == nil {
		return nil, ErrTimeSlotNotFound
	}
	if err := access.CanManageTimeSlot(caller, slot); err != nil {
		return nil, err
	}

	res := &dto.TimeSlotDetailResponse{TimeSlotResponse: converter.TimeSlotToResponse(slot)}
	if slot.IsBooked {
		appointment, err := u.appointmentRepo.FindByTimeSlotID(db, slot.ID)
		if err != nil {
			u.log.Warnf("Failed to find appointment of slot: %+v", err)
			return nil, err
		}
		res.Appointment = converter.AppointmentToResponse(appointment)
	}

	return res, nil
}

// DeleteTimeSlot removes a free slot. A booked slot must be cancelled first.
func (u *timeSlotUsecase) DeleteTimeSlot(ctx context.Context, caller entity.Caller, id uint) error {
	if err := access.RequireRole(caller, entity.RoleDoctor, entity.RoleAdmin); err != nil {
		return err
	}

	slot, err := u.timeSlotRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find time slot: %+v", err)
		return err
	}
	if slot == nil {
		return ErrTimeSlotNotFound
	}
	if err := access.CanManageTimeSlot(caller, slot); err != nil {
		return err
	}

	unlock, err := u.slotLocker.Lock(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	deleted, err := u.timeSlotRepo.DeleteIfFree(tx, id)
	if err != nil {
		u.log.Warnf("Failed to delete time slot: %+v", err)
		return err
	}
	if deleted == 0 {
		current, err := u.timeSlotRepo.FindByID(tx, id)
		if err != nil {
			u.log.Warnf("Failed to find time slot: %+v", err)
			return err
		}
		if current == nil {
			return ErrTimeSlotNotFound
		}
		return ErrTimeSlotBooked
	}

	if err := u.auditService.LogDelete(ctx, tx, caller, entity.AuditActionTimeSlotDelete, "time_slot", fmt.Sprint(id), converter.TimeSlotToResponse(slot)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}

// ListAvailable returns unbooked slots that have not started yet.
func (u *timeSlotUsecase) ListAvailable(ctx context.Context, caller entity.Caller, q dto.TimeSlotQuery) (*dto.Paginated[dto.TimeSlotResponse], error) {
	if !caller.Authenticated() {
		return nil, access.ErrUnauthenticated
	}

	current := now().UTC()
	free := false
	filter := entity.TimeSlotFilter{
		DoctorID: q.DoctorID,
		IsBooked: &free,
		After:    &current,
	}

	if q.From != "" {
		from, err := entity.ParseDate(q.From)
		if err != nil {
			return nil, apperror.Validation("from must be a date in YYYY-MM-DD format")
		}
		filter.From = &from
	}
	if q.To != "" {
		to, err := entity.ParseDate(q.To)
		if err != nil {
			return nil, apperror.Validation("to must be a date in YYYY-MM-DD format")
		}
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		return nil, apperror.Validation("to must be after from")
	}

	return u.list(ctx, filter, q.PageQuery)
}

func (u *timeSlotUsecase) ListDoctorSlots(ctx context.Context, caller entity.Caller, doctorID uint, q dto.PageQuery) (*dto.Paginated[dto.TimeSlotResponse], error) {
	if err := access.CanAccessDoctor(caller, doctorID); err != nil {
		return nil, err
	}
	return u.list(ctx, entity.TimeSlotFilter{DoctorID: &doctorID}, q)
}

func (u *timeSlotUsecase) ListDoctorBooked(ctx context.Context, caller entity.Caller, doctorID uint, q dto.PageQuery) (*dto.Paginated[dto.TimeSlotResponse], error) {
	if err := access.CanAccessDoctor(caller, doctorID); err != nil {
		return nil, err
	}
	booked := true
	return u.list(ctx, entity.TimeSlotFilter{DoctorID: &doctorID, IsBooked: &booked}, q)
}

func (u *timeSlotUsecase) list(ctx context.Context, filter entity.TimeSlotFilter, q dto.PageQuery) (*dto.Paginated[dto.TimeSlotResponse], error) {
	page := toPage(q)
	slots, total, err := u.timeSlotRepo.FindAll(u.db.WithContext(ctx), filter, page)
	if err != nil {
		u.log.Warnf("Failed to find time slots: %+v", err)
		return nil, err
	}

	return paginated(converter.TimeSlotsToResponses(slots), page, total), nil
}

func parseTimeSlot(req *dto.CreateTimeSlotRequest) (entity.TimeSlot, error) {
	var slot entity.TimeSlot

	date, err := entity.ParseDate(req.SlotDate)
	if err != nil {
		return slot, apperror.Validation("slot_date must be a date in YYYY-MM-DD format")
	}
	start, err := entity.ParseClock(req.StartTime)
	if err != nil {
		return slot, apperror.Validation("start_time must be a time of day in HH:MM format")
	}
	end, err := entity.ParseClock(req.EndTime)
	if err != nil {
		return slot, apperror.Validation("end_time must be a time of day in HH:MM format")
	}
	if start >= end {
		return slot, ErrInvalidTimeRange
	}

	slot.SlotDate = date
	slot.StartTime = start
	slot.EndTime = end
	return slot, nil
}
