// Package scheduling holds the pure rules behind doctor availability:
// expanding weekly rules into bookable slots and detecting overlaps.
package scheduling

import (
	"iter"

	"medical-appointment-booking/internal/domain/entity"
)

// SlotLength is the duration of every generated slot.
const SlotLength = entity.Hour

// Expand lazily yields the one-hour slots described by rule. Dates run from
// StartDate inclusive to EndDate exclusive, and only dates falling on
// rule.DayOfWeek produce slots. A trailing partial hour is dropped, and an
// empty or inverted time range yields nothing.
func Expand(rule entity.DoctorAvailability) iter.Seq[entity.TimeSlot] {
	return func(yield func(entity.TimeSlot) bool) {
		if rule.StartTime >= rule.EndTime {
			return
		}

		end := entity.DateOf(rule.EndDate)
		first := entity.DateOf(rule.StartDate)
		offset := (int(rule.DayOfWeek) - int(first.Weekday()) + 7) % 7

		for day := first.AddDate(0, 0, offset); day.Before(end); day = day.AddDate(0, 0, 7) {
			for start := rule.StartTime; start+SlotLength <= rule.EndTime; start += SlotLength {
				slot := entity.TimeSlot{
					DoctorID:  rule.DoctorID,
					SlotDate:  day,
					StartTime: start,
					EndTime:   start + SlotLength,
				}
				if !yield(slot) {
					return
				}
			}
		}
	}
}
