package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	sentinel := New(KindConflict, "time slot is already booked")

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"plain error", errors.New("boom"), KindUnexpected},
		{"app error", NotFound("appointment %d not found", 4), KindNotFound},
		{"wrapped with fmt", fmt.Errorf("book: %w", sentinel), KindConflict},
		{"wrap keeps outer kind", Wrap(KindValidation, "bad input", sentinel), KindValidation},
		{"nil", nil, KindUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWrapMatchesSentinel(t *testing.T) {
	sentinel := New(KindConflict, "availability overlaps an existing rule")
	err := Wrap(KindConflict, "Overlap detected for Monday between 09:00 - 12:00", sentinel)

	if !errors.Is(err, sentinel) {
		t.Fatal("expected wrapped error to match sentinel")
	}
	if err.Error() != "Overlap detected for Monday between 09:00 - 12:00" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestMessageOfHidesUnexpected(t *testing.T) {
	if got := MessageOf(errors.New("pq: connection refused")); got != "Internal server error" {
		t.Errorf("MessageOf() = %q", got)
	}
	if got := MessageOf(Validation("page must be positive")); got != "page must be positive" {
		t.Errorf("MessageOf() = %q", got)
	}
}
