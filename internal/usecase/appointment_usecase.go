package usecase

import (
	"context"
	"fmt"
	"strings"

	"medical-appointment-booking/internal/access"
	"medical-appointment-booking/internal/converter"
	"medical-appointment-booking/internal/delivery/dto"
	"medical-appointment-booking/internal/domain/entity"
	"medical-appointment-booking/internal/domain/repository"
	"medical-appointment-booking/internal/service"
	"medical-appointment-booking/pkg/apperror"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAppointmentNotFound = apperror.NotFound("appointment not found")
	ErrSlotAlreadyBooked   = apperror.Conflict("time slot is already booked")
	ErrSlotInPast          = apperror.Validation("cannot book a time slot that has already started")
)

type AppointmentUsecase interface {
	BookAppointment(ctx context.Context, caller entity.Caller, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error)
	GetAppointment(ctx context.Context, caller entity.Caller, id uint) (*dto.AppointmentResponse, error)
	CancelAppointment(ctx context.Context, caller entity.Caller, id uint) error
	AddNotes(ctx context.Context, caller entity.Caller, id uint, req *dto.AddNotesRequest) (*dto.AppointmentResponse, error)
	ListAppointments(ctx context.Context, caller entity.Caller, q dto.PageQuery) (*dto.Paginated[dto.AppointmentResponse], error)
	ListByPatient(ctx context.Context, caller entity.Caller, patientID uint, q dto.PageQuery) (*dto.Paginated[dto.AppointmentResponse], error)
	ListByDoctor(ctx context.Context, caller entity.Caller, doctorID uint, q dto.PageQuery) (*dto.Paginated[dto.AppointmentResponse], error)
}

type appointmentUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	patientProfileRepo repository.PatientProfileRepository
	timeSlotRepo       repository.TimeSlotRepository
	appointmentRepo    repository.AppointmentRepository
	auditService       service.AuditService
	slotLocker         service.SlotLocker
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	patientProfileRepo repository.PatientProfileRepository,
	timeSlotRepo repository.TimeSlotRepository,
	appointmentRepo repository.AppointmentRepository,
	auditService service.AuditService,
	slotLocker service.SlotLocker,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:                 db,
		log:                log,
		patientProfileRepo: patientProfileRepo,
		timeSlotRepo:       timeSlotRepo,
		appointmentRepo:    appointmentRepo,
		auditService:       auditService,
		slotLocker:         slotLocker,
	}
}

// BookAppointment books a free slot for a patient. Flipping the slot and
// inserting the appointment happen in one transaction; the conditional
// update and the unique index on time_slot_id let only one booking win.
func (u *appointmentUsecase) BookAppointment(ctx context.Context, caller entity.Caller, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error) {
	patientID, err := access.ResolvePatient(caller, req.PatientID)
	if err != nil {
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

	unlock, err := u.slotLocker.Lock(ctx, req.TimeSlotID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	slot, err := u.timeSlotRepo.FindByID(tx, req.TimeSlotID)
	if err != nil {
		u.log.Warnf("Failed to find time slot: %+v", err)
		return nil, err
	}
	if slot == nil {
		return nil, ErrTimeSlotNotFound
	}
	if slot.IsBooked {
		return nil, ErrSlotAlreadyBooked
	}
	if !slot.StartsAt().After(now()) {
		return nil, ErrSlotInPast
	}

	// Re-check the flag in the UPDATE itself; the read above may be stale.
	booked, err := u.timeSlotRepo.MarkBooked(tx, slot.ID)
	if err != nil {
		u.log.Warnf("Failed to book time slot: %+v", err)
		return nil, err
	}
	if booked == 0 {
		return nil, ErrSlotAlreadyBooked
	}

	appointment := &entity.Appointment{
		PatientID:  patientID,
		DoctorID:   slot.DoctorID,
		TimeSlotID: slot.ID,
	}
	if err := u.appointmentRepo.Create(tx, appointment); err != nil {
		if isDuplicateKeyError(err, "time_slot") {
			return nil, ErrSlotAlreadyBooked
		}
		if isForeignKeyError(err, "patient") {
			return nil, ErrPatientNotFound
		}
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	created, err := u.appointmentRepo.FindByID(tx, appointment.ID)
	if err != nil {
		u.log.Warnf("Failed to load appointment: %+v", err)
		return nil, err
	}
	res := converter.AppointmentToResponse(created)

	if err := u.auditService.LogCreate(ctx, tx, caller, entity.AuditActionAppointmentBook, "appointment", fmt.Sprint(appointment.ID), res); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.WithFields(logrus.Fields{
		"appointment_id": appointment.ID,
		"time_slot_id":   slot.ID,
		"patient_id":     patientID,
	}).Info("Appointment booked")

	return res, nil
}

func (u *appointmentUsecase) GetAppointment(ctx context.Context, caller entity.Caller, id uint) (*dto.AppointmentResponse, error) {
	if !caller.Authenticated() {
		return nil, access.ErrUnauthenticated
	}

	appointment, err := u.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.CanViewAppointment(caller, appointment); err != nil {
		return nil, err
	}

	return converter.AppointmentToResponse(appointment), nil
}

// CancelAppointment deletes the appointment and frees its slot in one
// transaction.
func (u *appointmentUsecase) CancelAppointment(ctx context.Context, caller entity.Caller, id uint) error {
	if !caller.Authenticated() {
		return access.ErrUnauthenticated
	}

	appointment, err := u.find(ctx, id)
	if err != nil {
		return err
	}
	if err := access.CanCancelAppointment(caller, appointment); err != nil {
		return err
	}

	unlock, err := u.slotLocker.Lock(ctx, appointment.TimeSlotID)
	if err != nil {
		return err
	}
	defer unlock()

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	deleted, err := u.appointmentRepo.Delete(tx, appointment.ID)
	if err != nil {
		u.log.Warnf("Failed to delete appointment: %+v", err)
		return err
	}
	if deleted == 0 {
		// Cancelled concurrently.
		return ErrAppointmentNotFound
	}

	if _, err := u.timeSlotRepo.MarkFree(tx, appointment.TimeSlotID); err != nil {
		u.log.Warnf("Failed to free time slot: %+v", err)
		return err
	}

	old := converter.AppointmentToResponse(appointment)
	if err := u.auditService.LogDelete(ctx, tx, caller, entity.AuditActionAppointmentCancel, "appointment", fmt.Sprint(appointment.ID), old); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}

// AddNotes replaces the notes of an appointment.
func (u *appointmentUsecase) AddNotes(ctx context.Context, caller entity.Caller, id uint, req *dto.AddNotesRequest) (*dto.AppointmentResponse, error) {
	if err := access.RequireRole(caller, entity.RoleDoctor, entity.RoleAdmin); err != nil {
		return nil, err
	}

	notes := strings.TrimSpace(req.Notes)
	if notes == "" {
		return nil, apperror.Validation("notes must not be empty")
	}

	appointment, err := u.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.CanAnnotateAppointment(caller, appointment); err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.appointmentRepo.UpdateNotes(tx, appointment.ID, &notes); err != nil {
		u.log.Warnf("Failed to update notes: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, caller, entity.AuditActionAppointmentNotes, "appointment", fmt.Sprint(appointment.ID), appointment.Notes, notes); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	appointment.Notes = &notes
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) ListAppointments(ctx context.Context, caller entity.Caller, q dto.PageQuery) (*dto.Paginated[dto.AppointmentResponse], error) {
	if err := access.RequireRole(caller, entity.RoleAdmin); err != nil {
		return nil, err
	}
	return u.list(ctx, entity.AppointmentFilter{}, q)
}

func (u *appointmentUsecase) ListByPatient(ctx context.Context, caller entity.Caller, patientID uint, q dto.PageQuery) (*dto.Paginated[dto.AppointmentResponse], error) {
	if err := access.CanAccessPatient(caller, patientID); err != nil {
		return nil, err
	}
	return u.list(ctx, entity.AppointmentFilter{PatientID: &patientID}, q)
}

func (u *appointmentUsecase) ListByDoctor(ctx context.Context, caller entity.Caller, doctorID uint, q dto.PageQuery) (*dto.Paginated[dto.AppointmentResponse], error) {
	if err := access.CanAccessDoctor(caller, doctorID); err != nil {
		return nil, err
	}
	return u.list(ctx, entity.AppointmentFilter{DoctorID: &doctorID}, q)
}

func (u *appointmentUsecase) find(ctx context.Context, id uint) (*entity.Appointment, error) {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find appointment: %+v", err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	return appointment, nil
}

func (u *appointmentUsecase) list(ctx context.Context, filter entity.AppointmentFilter, q dto.PageQuery) (*dto.Paginated[dto.AppointmentResponse], error) {
	page := toPage(q)
	appointments, total, err := u.appointmentRepo.FindAll(u.db.WithContext(ctx), filter, page)
	if err != nil {
		u.log.Warnf("Failed to find appointments: %+v", err)
		return nil, err
	}

	return paginated(converter.AppointmentsToResponses(appointments), page, total), nil
}
