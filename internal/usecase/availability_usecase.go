package usecase

import (
	"context"
	"fmt"
	"time"

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
	ErrInvalidTimeRange = apperror.Validation("start_time must be before end_time")
	ErrInvalidDateRange = apperror.Validation("end_date must be after start_date")
	ErrDateRangeTooLong = apperror.Validation("availability may span at most one year")
)

// maxAvailabilityYears bounds how far one request may expand.
const maxAvailabilityYears = 1

type AvailabilityUsecase interface {
	CreateAvailability(ctx context.Context, caller entity.Caller, req *dto.CreateAvailabilityRequest) (*dto.CreateAvailabilityResponse, error)
	ListByDoctor(ctx context.Context, caller entity.Caller, doctorID uint, q dto.PageQuery) (*dto.Paginated[dto.AvailabilityResponse], error)
	ThisWeek(ctx context.Context, caller entity.Caller, doctorID uint) ([]dto.AvailabilityResponse, error)
}

type availabilityUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	doctorProfileRepo repository.DoctorProfileRepository
	availabilityRepo  repository.DoctorAvailabilityRepository
	timeSlotRepo      repository.TimeSlotRepository
	auditService      service.AuditService
}

func NewAvailabilityUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	doctorProfileRepo repository.DoctorProfileRepository,
	availabilityRepo repository.DoctorAvailabilityRepository,
	timeSlotRepo repository.TimeSlotRepository,
	auditService service.AuditService,
) AvailabilityUsecase {
	return &availabilityUsecase{
		db:                db,
		log:               log,
		doctorProfileRepo: doctorProfileRepo,
		availabilityRepo:  availabilityRepo,
		timeSlotRepo:      timeSlotRepo,
		auditService:      auditService,
	}
}

// CreateAvailability stores one weekly rule per requested day and expands
// the rules into one hour slots. Either every rule is stored or none is.
// Generated slots that overlap an existing slot of the doctor are skipped.
func (u *availabilityUsecase) CreateAvailability(ctx context.Context, caller entity.Caller, req *dto.CreateAvailabilityRequest) (*dto.CreateAvailabilityResponse, error) {
	doctorID, err := access.ResolveDoctor(caller, req.DoctorID)
	if err != nil {
		return nil, err
	}

	base, days, err := parseAvailability(req)
	if err != nil {
		return nil, err
	}
	base.DoctorID = doctorID

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	// Held until commit so concurrent writes for this doctor run their
	// overlap checks one after another.
	doctor, err := u.doctorProfileRepo.LockByUserID(tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to lock doctor: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	rules := make([]entity.DoctorAvailability, 0, len(days))
	for _, day := range days {
		rule := base
		rule.DayOfWeek = day

		existing, err := u.availabilityRepo.FindByDoctorAndDay(tx, doctorID, day)
		if err != nil {
			u.log.Warnf("Failed to find availability: %+v", err)
			return nil, err
		}
		if conflict, ok := scheduling.FindAvailabilityConflict(rule, existing); ok {
			return nil, apperror.Conflict("availability overlaps an existing one on %s", conflict.Span())
		}

		if err := u.availabilityRepo.Create(tx, &rule); err != nil {
			if isForeignKeyError(err, "doctor") {
				return nil, ErrDoctorNotFound
			}
			u.log.Warnf("Failed to create availability: %+v", err)
			return nil, err
		}
		rules = append(rules, rule)
	}

	occupied, err := u.timeSlotRepo.FindByDoctorBetween(tx, doctorID, base.StartDate, base.EndDate)
	if err != nil {
		u.log.Warnf("Failed to find existing slots: %+v", err)
		return nil, err
	}

	byDate := make(map[time.Time][]entity.TimeSlot)
	for _, slot := range occupied {
		day := entity.DateOf(slot.SlotDate)
		byDate[day] = append(byDate[day], slot)
	}

	var generated []entity.TimeSlot
	skipped := 0
	for _, rule := range rules {
		for slot := range scheduling.Expand(rule) {
			day := entity.DateOf(slot.SlotDate)
			if _, ok := scheduling.FindSlotConflict(slot, byDate[day]); ok {
				skipped++
				continue
			}
			byDate[day] = append(byDate[day], slot)
			generated = append(generated, slot)
		}
	}

	if err := u.timeSlotRepo.CreateBatch(tx, generated); err != nil {
		u.log.Warnf("Failed to create time slots: %+v", err)
		return nil, err
	}

	res := &dto.CreateAvailabilityResponse{
		Availabilities: converter.AvailabilitiesToResponses(rules),
		SlotsGenerated: len(generated),
		SlotsSkipped:   skipped,
	}

	if err := u.auditService.LogCreate(ctx, tx, caller, entity.AuditActionAvailabilityAdd, "doctor_availability", fmt.Sprint(doctorID), res); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.WithFields(logrus.Fields{
		"doctor_id": doctorID,
		"rules":     len(rules),
		"generated": len(generated),
		"skipped":   skipped,
	}).Info("Availability created")

	return res, nil
}

// Availability rules are readable by any signed in user so patients can see
// when a doctor works.
func (u *availabilityUsecase) ListByDoctor(ctx context.Context, caller entity.Caller, doctorID uint, q dto.PageQuery) (*dto.Paginated[dto.AvailabilityResponse], error) {
	if !caller.Authenticated() {
		return nil, access.ErrUnauthenticated
	}

	page := toPage(q)
	rules, total, err := u.availabilityRepo.FindByDoctorID(u.db.WithContext(ctx), doctorID, page)
	if err != nil {
		u.log.Warnf("Failed to find availability: %+v", err)
		return nil, err
	}

	return paginated(converter.AvailabilitiesToResponses(rules), page, total), nil
}

func (u *availabilityUsecase) ThisWeek(ctx context.Context, caller entity.Caller, doctorID uint) ([]dto.AvailabilityResponse, error) {
	if !caller.Authenticated() {
		return nil, access.ErrUnauthenticated
	}

	from, to := entity.WeekOf(now().UTC())
	rules, err := u.availabilityRepo.FindActiveBetween(u.db.WithContext(ctx), doctorID, from, to)
	if err != nil {
		u.log.Warnf("Failed to find availability of the week: %+v", err)
		return nil, err
	}

	return converter.AvailabilitiesToResponses(rules), nil
}

// parseAvailability validates the request and returns the rule shared by
// every requested day, plus the distinct days.
func parseAvailability(req *dto.CreateAvailabilityRequest) (entity.DoctorAvailability, []time.Weekday, error) {
	var rule entity.DoctorAvailability

	start, err := entity.ParseClock(req.StartTime)
	if err != nil {
		return rule, nil, apperror.Validation("start_time must be a time of day in HH:MM format")
	}
	end, err := entity.ParseClock(req.EndTime)
	if err != nil {
		return rule, nil, apperror.Validation("end_time must be a time of day in HH:MM format")
	}
	if start >= end {
		return rule, nil, ErrInvalidTimeRange
	}

	startDate, err := entity.ParseDate(req.StartDate)
	if err != nil {
		return rule, nil, apperror.Validation("start_date must be a date in YYYY-MM-DD format")
	}
	endDate, err := entity.ParseDate(req.EndDate)
	if err != nil {
		return rule, nil, apperror.Validation("end_date must be a date in YYYY-MM-DD format")
	}
	if !startDate.Before(endDate) {
		return rule, nil, ErrInvalidDateRange
	}
	if endDate.After(startDate.AddDate(maxAvailabilityYears, 0, 0)) {
		return rule, nil, ErrDateRangeTooLong
	}

	if len(req.DaysOfWeek) == 0 {
		return rule, nil, apperror.Validation("days_of_week is required")
	}
	seen := make(map[time.Weekday]bool, len(req.DaysOfWeek))
	days := make([]time.Weekday, 0, len(req.DaysOfWeek))
	for _, name := range req.DaysOfWeek {
		day, ok := entity.ParseWeekday(name)
		if !ok {
			return rule, nil, apperror.Validation("%q is not a day of the week", name)
		}
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}

	rule.StartTime = start
	rule.EndTime = end
	rule.StartDate = startDate
	rule.EndDate = endDate
	return rule, days, nil
}
