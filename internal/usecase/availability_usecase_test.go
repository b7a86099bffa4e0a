package usecase

import (
	"context"
	"sync"
	"testing"

	"medical-appointment-booking/internal/delivery/dto"
	"medical-appointment-booking/internal/domain/entity"
	"medical-appointment-booking/pkg/apperror"
)

func mondayMornings(doctorID *uint) *dto.CreateAvailabilityRequest {
	return &dto.CreateAvailabilityRequest{
		DoctorID:   doctorID,
		DaysOfWeek: []string{"Monday"},
		StartTime:  "09:00",
		EndTime:    "12:00",
		StartDate:  "2030-01-07",
		EndDate:    "2030-01-21",
	}
}

func TestCreateAvailabilityExpandsSlots(t *testing.T) {
	env := newTestEnv(t)
	p := env.addPeople(t)
	uc := env.availabilityUsecase()
	ctx := context.Background()

	res, err := uc.CreateAvailability(ctx, p.doctor2, mondayMornings(nil))
	if err != nil {
		t.Fatalf("CreateAvailability() error = %v", err)
	}
	if res.SlotsGenerated != 6 || res.SlotsSkipped != 0 {
		t.Errorf("generated=%d skipped=%d, want 6 and 0", res.SlotsGenerated, res.SlotsSkipped)
	}
	if len(res.Availabilities) != 1 || res.Availabilities[0].DayOfWeek != "Monday" {
		t.Errorf("availabilities = %+v", res.Availabilities)
	}

	slots, err := env.timeSlotRepo.FindByDoctorBetween(env.db, p.doctor2.UserID, testNow, testNow.AddDate(0, 1, 0))
	if err != nil {
		t.Fatal(err)
	}
	if len(slots) != 6 {
		t.Fatalf("stored slots = %d, want 6", len(slots))
	}
	for _, slot := range slots {
		if slot.IsBooked || slot.SlotDate.Weekday().String() != "Monday" || slot.EndTime-slot.StartTime != entity.Hour {
			t.Errorf("unexpected slot %s booked=%v", slot.Span(), slot.IsBooked)
		}
	}
}

func TestCreateAvailabilitySkipsExistingSlots(t *testing.T) {
	env := newTestEnv(t)
	p := env.addPeople(t)
	env.addSlot(t, p.doctor2.UserID, "2030-01-14", "10:30", "11:30")
	uc := env.availabilityUsecase()

	res, err := uc.CreateAvailability(context.Background(), p.admin, mondayMornings(uintPtr(p.doctor2.UserID)))
	if err != nil {
		t.Fatalf("CreateAvailability() error = %v", err)
	}
	// 10:00 and 11:00 on the 14th both touch the manual slot.
	if res.SlotsGenerated != 4 || res.SlotsSkipped != 2 {
		t.Errorf("generated=%d skipped=%d, want 4 and 2", res.SlotsGenerated, res.SlotsSkipped)
	}
}

func TestCreateAvailabilityRejects(t *testing.T) {
	env := newTestEnv(t)
	p := env.addPeople(t)
	uc := env.availabilityUsecase()
	ctx := context.Background()

	if _, err := uc.CreateAvailability(ctx, p.doctor2, mondayMornings(nil)); err != nil {
		t.Fatal(err)
	}

	overlapping := mondayMornings(nil)
	overlapping.DaysOfWeek = []string{"Wednesday", "Monday"}
	overlapping.StartTime = "11:00"
	overlapping.EndTime = "13:00"

	inverted := mondayMornings(nil)
	inverted.StartTime, inverted.EndTime = "12:00", "09:00"

	emptyRange := mondayMornings(nil)
	emptyRange.EndDate = emptyRange.StartDate

	tests := []struct {
		name   string
		caller entity.Caller
		req    *dto.CreateAvailabilityRequest
		kind   apperror.Kind
	}{
		{"overlapping rule", p.doctor2, overlapping, apperror.KindConflict},
		{"inverted times", p.doctor2, inverted, apperror.KindValidation},
		{"empty date range", p.doctor2, emptyRange, apperror.KindValidation},
		{"patient", p.patient1, mondayMornings(nil), apperror.KindRoleNotAllowed},
		{"other doctor", p.doctor4, mondayMornings(uintPtr(p.doctor2.UserID)), apperror.KindForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.CreateAvailability(ctx, tt.caller, tt.req)
			wantKind(t, err, tt.kind)
		})
	}

	// The rejected multi-day request must not leave its Wednesday rule behind.
	rules, err := env.availabilityRepo.FindByDoctorAndDay(env.db, p.doctor2.UserID, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(rules) != 0 {
		t.Errorf("Wednesday rules = %d, want 0", len(rules))
	}

	t.Run("adjacent rule is accepted", func(t *testing.T) {
		afternoon := mondayMornings(nil)
		afternoon.StartTime, afternoon.EndTime = "12:00", "14:00"
		res, err := uc.CreateAvailability(ctx, p.doctor2, afternoon)
		if err != nil {
			t.Fatalf("CreateAvailability() error = %v", err)
		}
		if res.SlotsGenerated != 4 {
			t.Errorf("generated = %d, want 4", res.SlotsGenerated)
		}
	})
}

func TestAvailabilityListings(t *testing.T) {
	env := newTestEnv(t)
	p := env.addPeople(t)
	uc := env.availabilityUsecase()
	ctx := context.Background()

	req := mondayMornings(nil)
	req.DaysOfWeek = []string{"monday", "Friday", "Monday"}
	res, err := uc.CreateAvailability(ctx, p.doctor2, req)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Availabilities) != 2 {
		t.Fatalf("rules = %d, want 2 after removing the repeated day", len(res.Availabilities))
	}

	page, err := uc.ListByDoctor(ctx, p.patient1, p.doctor2.UserID, dto.PageQuery{})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 2 {
		t.Errorf("total = %d, want 2", page.Total)
	}

	week, err := uc.ThisWeek(ctx, p.doctor2, p.doctor2.UserID)
	if err != nil {
		t.Fatal(err)
	}
	if len(week) != 2 {
		t.Errorf("this week = %+v", week)
	}

	_, err = uc.ThisWeek(ctx, entity.Caller{}, p.doctor2.UserID)
	wantKind(t, err, apperror.KindUnauthenticated)
}

func TestCreateAvailabilityDateRangeCap(t *testing.T) {
	env := newTestEnv(t)
	p := env.addPeople(t)
	uc := env.availabilityUsecase()
	ctx := context.Background()

	tooLong := mondayMornings(nil)
	tooLong.EndDate = "2031-01-08"
	_, err := uc.CreateAvailability(ctx, p.doctor2, tooLong)
	wantErr(t, err, ErrDateRangeTooLong)

	oneYear := mondayMornings(nil)
	oneYear.EndDate = "2031-01-07"
	res, err := uc.CreateAvailability(ctx, p.doctor2, oneYear)
	if err != nil {
		t.Fatalf("CreateAvailability() error = %v", err)
	}
	// 53 Mondays from 2030-01-07 through 2031-01-06, three slots each.
	if res.SlotsGenerated != 159 || res.SlotsSkipped != 0 {
		t.Errorf("generated=%d skipped=%d, want 159 and 0", res.SlotsGenerated, res.SlotsSkipped)
	}
}

func TestCreateAvailabilityDateBoundaries(t *testing.T) {
	env := newTestEnv(t)
	p := env.addPeople(t)
	uc := env.availabilityUsecase()
	ctx := context.Background()

	if _, err := uc.CreateAvailability(ctx, p.doctor2, mondayMornings(nil)); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		startDate string
		endDate   string
		conflict  bool
	}{
		{"ends on the start date", "2029-12-31", "2030-01-07", false},
		{"starts on the end date", "2030-01-21", "2030-02-04", false},
		{"shares the last day", "2030-01-20", "2030-02-03", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := mondayMornings(nil)
			req.StartDate, req.EndDate = tt.startDate, tt.endDate
			_, err := uc.CreateAvailability(ctx, p.doctor2, req)
			if tt.conflict {
				wantKind(t, err, apperror.KindConflict)
				return
			}
			if err != nil {
				t.Errorf("CreateAvailability() error = %v", err)
			}
		})
	}

	// The week of 2030-01-07 holds only the original rule: the earlier one
	// ends on its Monday and the later one starts after it.
	week, err := uc.ThisWeek(ctx, p.patient1, p.doctor2.UserID)
	if err != nil {
		t.Fatal(err)
	}
	if len(week) != 1 || week[0].StartDate != "2030-01-07" {
		t.Errorf("this week = %+v", week)
	}
}

func TestCreateAvailabilityConcurrently(t *testing.T) {
	env := newTestEnv(t)
	p := env.addPeople(t)
	uc := env.availabilityUsecase()

	const attempts = 6
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.CreateAvailability(context.Background(), p.doctor2, mondayMornings(nil))
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

	rules, err := env.availabilityRepo.FindByDoctorAndDay(env.db, p.doctor2.UserID, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(rules) != 1 {
		t.Errorf("Monday rules = %d, want 1", len(rules))
	}
}
