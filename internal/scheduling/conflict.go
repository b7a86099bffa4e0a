package scheduling

import (
	"medical-appointment-booking/internal/domain/entity"
)

// SlotsOverlap reports whether a and b belong to the same doctor on the same
// date and their half-open intervals intersect. Touching slots do not
// overlap.
func SlotsOverlap(a, b entity.TimeSlot) bool {
	return a.DoctorID == b.DoctorID &&
		entity.SameDate(a.SlotDate, b.SlotDate) &&
		a.StartTime < b.EndTime && b.StartTime < a.EndTime
}

// AvailabilitiesOverlap reports whether two rules of the same doctor and
// weekday share at least one date and their daily time windows intersect.
// Date ranges are half-open like in Expand, so a rule ending on the day
// another starts does not overlap it.
func AvailabilitiesOverlap(a, b entity.DoctorAvailability) bool {
	if a.DoctorID != b.DoctorID || a.DayOfWeek != b.DayOfWeek {
		return false
	}
	datesIntersect := entity.DateOf(a.StartDate).Before(entity.DateOf(b.EndDate)) &&
		entity.DateOf(b.StartDate).Before(entity.DateOf(a.EndDate))
	timesIntersect := a.StartTime < b.EndTime && b.StartTime < a.EndTime
	return datesIntersect && timesIntersect
}

// FindSlotConflict returns the first existing slot that overlaps candidate.
func FindSlotConflict(candidate entity.TimeSlot, existing []entity.TimeSlot) (*entity.TimeSlot, bool) {
	for i := range existing {
		if existing[i].ID != 0 && existing[i].ID == candidate.ID {
			continue
		}
		if SlotsOverlap(candidate, existing[i]) {
			return &existing[i], true
		}
	}
	return nil, false
}

// FindAvailabilityConflict returns the first existing rule that overlaps
// candidate.
func FindAvailabilityConflict(candidate entity.DoctorAvailability, existing []entity.DoctorAvailability) (*entity.DoctorAvailability, bool) {
	for i := range existing {
		if existing[i].ID != 0 && existing[i].ID == candidate.ID {
			continue
		}
		if AvailabilitiesOverlap(candidate, existing[i]) {
			return &existing[i], true
		}
	}
	return nil, false
}
