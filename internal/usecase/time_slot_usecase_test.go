package usecase

import (
	"context"
	"strings"
	"sync"
	"testing"

	"medical-appointment-booking/internal/delivery/dto"
	"medical-appointment-booking/internal/domain/entity"
	"medical-appointment-booking/pkg/apperror"
)

func TestCreateTimeSlotConflicts(t *testing.T) {
	env := newTestEnv(t)
	p := env.addPeople(t)
	uc := env.timeSlotUsecase()
	ctx := context.Background()

	first, err := uc.CreateTimeSlot(ctx, p.doctor2, &dto.CreateTimeSlotRequest{SlotDate: "2030-01-08", StartTime: "09:00", EndTime: "10:00"})
	if err != nil {
		t.Fatalf("CreateTimeSlot() error = %v", err)
	}
	if first.DoctorID != p.doctor2.UserID || first.IsBooked {
		t.Errorf("unexpected slot %+v", first)
	}

	tests := []struct {
		name   string
		caller entity.Caller
		req    dto.CreateTimeSlotRequest
		kind   apperror.Kind
	}{
		{"overlapping", p.doctor2, dto.CreateTimeSlotRequest{SlotDate: "2030-01-08", StartTime: "09:30", EndTime: "10:30"}, apperror.KindConflict},
		{"inverted", p.doctor2, dto.CreateTimeSlotRequest{SlotDate: "2030-01-08", StartTime: "12:00", EndTime: "11:00"}, apperror.KindValidation},
		{"patient", p.patient1, dto.CreateTimeSlotRequest{SlotDate: "2030-01-08", StartTime: "12:00", EndTime: "13:00"}, apperror.KindRoleNotAllowed},
		{"admin without doctor", p.admin, dto.CreateTimeSlotRequest{SlotDate: "2030-01-08", StartTime: "12:00", EndTime: "13:00"}, apperror.KindValidation},
		{"doctor for another doctor", p.doctor2, dto.CreateTimeSlotRequest{DoctorID: uintPtr(p.doctor4.UserID), SlotDate: "2030-01-08", StartTime: "12:00", EndTime: "13:00"}, apperror.KindForbidden},
		{"admin for unknown doctor", p.admin, dto.CreateTimeSlotRequest{DoctorID: uintPtr(p.patient1.UserID), SlotDate: "2030-01-08", StartTime: "12:00", EndTime: "13:00"}, apperror.KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.CreateTimeSlot(ctx, tt.caller, &tt.req)
			wantKind(t, err, tt.kind)
		})
	}

	t.Run("conflict names the existing slot", func(t *testing.T) {
		_, err := uc.CreateTimeSlot(ctx, p.doctor2, &dto.CreateTimeSlotRequest{SlotDate: "2030-01-08", StartTime: "08:30", EndTime: "09:30"})
		if err == nil || !strings.Contains(err.Error(), "2030-01-08 09:00 - 10:00") {
			t.Errorf("error = %v, want the conflicting span", err)
		}
	})

	t.Run("touching slots do not conflict", func(t *testing.T) {
		if _, err := uc.CreateTimeSlot(ctx, p.doctor2, &dto.CreateTimeSlotRequest{SlotDate: "2030-01-08", StartTime: "10:00", EndTime: "11:00"}); err != nil {
			t.Errorf("CreateTimeSlot() error = %v", err)
		}
	})

	t.Run("other doctors are independent", func(t *testing.T) {
		if _, err := uc.CreateTimeSlot(ctx, p.admin, &dto.CreateTimeSlotRequest{DoctorID: uintPtr(p.doctor4.UserID), SlotDate: "2030-01-08", StartTime: "09:00", EndTime: "10:00"}); err != nil {
			t.Errorf("CreateTimeSlot() error = %v", err)
		}
	})
}

func TestCreateTimeSlotConcurrently(t *testing.T) {
	env := newTestEnv(t)
	p := env.addPeople(t)
	uc := env.timeSlotUsecase()

	const attempts = 8
	spans := [][2]string{{"09:00", "10:00"}, {"09:15", "10:15"}, {"09:30", "10:30"}, {"09:45", "10:45"}}
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		span := spans[i%len(spans)]
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := &dto.CreateTimeSlotRequest{SlotDate: "2030-01-08", StartTime: span[0], EndTime: span[1]}
			_, err := uc.CreateTimeSlot(context.Background(), p.doctor2, req)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case apperror.KindOf(err) == apperror.KindConflict:
		default:
			t.Errorf("unexpected error %v", err)
		}
	}
	if succeeded != 1 {
		t.Errorf("%d creates succeeded, want exactly 1", succeeded)
	}

	slots, err := env.timeSlotRepo.FindByDoctorBetween(env.db, p.doctor2.UserID, testNow, testNow.AddDate(0, 0, 7))
	if err != nil {
		t.Fatal(err)
	}
	if len(slots) != 1 {
		t.Errorf("stored slots = %d, want 1", len(slots))
	}
}

func TestDeleteTimeSlotGuard(t *testing.T) {
	env := newTestEnv(t)
	p := env.addPeople(t)
	free := env.addSlot(t, p.doctor2.UserID, "2030-01-08", "09:00", "10:00")
	taken := env.addSlot(t, p.doctor2.UserID, "2030-01-08", "10:00", "11:00")
	uc := env.timeSlotUsecase()
	ctx := context.Background()

	if _, err := env.appointmentUsecase().BookAppointment(ctx, p.patient1, &dto.BookAppointmentRequest{TimeSlotID: taken.ID}); err != nil {
		t.Fatal(err)
	}

	err := uc.DeleteTimeSlot(ctx, p.doctor2, taken.ID)
	wantErr(t, err, ErrTimeSlotBooked)
	if env.slot(t, taken.ID) == nil {
		t.Fatal("booked slot was deleted")
	}

	err = uc.DeleteTimeSlot(ctx, p.doctor4, free.ID)
	wantKind(t, err, apperror.KindForbidden)

	if err := uc.DeleteTimeSlot(ctx, p.doctor2, free.ID); err != nil {
		t.Fatalf("DeleteTimeSlot() error = %v", err)
	}
	if env.slot(t, free.ID) != nil {
		t.Error("free slot still present")
	}

	err = uc.DeleteTimeSlot(ctx, p.doctor2, free.ID)
	wantErr(t, err, ErrTimeSlotNotFound)
}

func TestGetTimeSlotIncludesAppointment(t *testing.T) {
	env := newTestEnv(t)
	p := env.addPeople(t)
	slot := env.addSlot(t, p.doctor2.UserID, "2030-01-08", "09:00", "10:00")
	uc := env.timeSlotUsecase()
	ctx := context.Background()

	res, err := uc.GetTimeSlot(ctx, p.doctor2, slot.ID)
	if err != nil {
		t.Fatal(err)
	}
	if res.Appointment != nil {
		t.Error("free slot reported an appointment")
	}

	if _, err := env.appointmentUsecase().BookAppointment(ctx, p.patient3, &dto.BookAppointmentRequest{TimeSlotID: slot.ID}); err != nil {
		t.Fatal(err)
	}

	res, err = uc.GetTimeSlot(ctx, p.admin, slot.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsBooked || res.Appointment == nil || res.Appointment.PatientID != p.patient3.UserID {
		t.Errorf("unexpected detail %+v", res)
	}

	_, err = uc.GetTimeSlot(ctx, p.patient3, slot.ID)
	wantKind(t, err, apperror.KindRoleNotAllowed)
}

func TestListAvailable(t *testing.T) {
	env := newTestEnv(t)
	p := env.addPeople(t)
	env.addSlot(t, p.doctor2.UserID, "2030-01-07", "07:00", "08:00") // already over
	env.addSlot(t, p.doctor2.UserID, "2030-01-07", "08:00", "09:00") // starting now
	upcoming := env.addSlot(t, p.doctor2.UserID, "2030-01-07", "09:00", "10:00")
	taken := env.addSlot(t, p.doctor2.UserID, "2030-01-08", "09:00", "10:00")
	later := env.addSlot(t, p.doctor4.UserID, "2030-01-09", "09:00", "10:00")
	uc := env.timeSlotUsecase()
	ctx := context.Background()

	if _, err := env.appointmentUsecase().BookAppointment(ctx, p.patient1, &dto.BookAppointmentRequest{TimeSlotID: taken.ID}); err != nil {
		t.Fatal(err)
	}

	page, err := uc.ListAvailable(ctx, p.patient1, dto.TimeSlotQuery{})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 2 || len(page.Items) != 2 {
		t.Fatalf("available = %+v, want 2 slots", page.Items)
	}
	if page.Items[0].ID != upcoming.ID || page.Items[1].ID != later.ID {
		t.Errorf("unexpected order %+v", page.Items)
	}
	if page.Items[0].DoctorName != "doctor2" {
		t.Errorf("DoctorName = %q", page.Items[0].DoctorName)
	}

	byDoctor, err := uc.ListAvailable(ctx, p.patient1, dto.TimeSlotQuery{DoctorID: uintPtr(p.doctor4.UserID)})
	if err != nil {
		t.Fatal(err)
	}
	if byDoctor.Total != 1 || byDoctor.Items[0].ID != later.ID {
		t.Errorf("doctor filter = %+v", byDoctor.Items)
	}

	ranged, err := uc.ListAvailable(ctx, p.patient1, dto.TimeSlotQuery{From: "2030-01-08", To: "2030-01-10"})
	if err != nil {
		t.Fatal(err)
	}
	if ranged.Total != 1 || ranged.Items[0].ID != later.ID {
		t.Errorf("date filter = %+v", ranged.Items)
	}

	_, err = uc.ListAvailable(ctx, p.patient1, dto.TimeSlotQuery{From: "08/01/2030"})
	wantKind(t, err, apperror.KindValidation)

	booked, err := uc.ListDoctorBooked(ctx, p.doctor2, p.doctor2.UserID, dto.PageQuery{})
	if err != nil {
		t.Fatal(err)
	}
	if booked.Total != 1 || booked.Items[0].ID != taken.ID {
		t.Errorf("booked = %+v", booked.Items)
	}

	_, err = uc.ListDoctorSlots(ctx, p.doctor4, p.doctor2.UserID, dto.PageQuery{})
	wantKind(t, err, apperror.KindForbidden)

	all, err := uc.ListDoctorSlots(ctx, p.doctor2, p.doctor2.UserID, dto.PageQuery{Page: 2, Limit: 3})
	if err != nil {
		t.Fatal(err)
	}
	if all.Total != 4 || len(all.Items) != 1 || all.Page != 2 || all.Limit != 3 {
		t.Errorf("second page = %+v", all)
	}
}
