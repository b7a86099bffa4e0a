package access

import (
	"errors"
	"testing"

	"medical-appointment-booking/internal/domain/entity"
)

var (
	anonymous = entity.Caller{}
	patient1  = entity.Caller{UserID: 1, Role: entity.RolePatient}
	patient3  = entity.Caller{UserID: 3, Role: entity.RolePatient}
	doctor2   = entity.Caller{UserID: 2, Role: entity.RoleDoctor}
	doctor4   = entity.Caller{UserID: 4, Role: entity.RoleDoctor}
	admin     = entity.Caller{UserID: 9, Role: entity.RoleAdmin}
)

func uintPtr(v uint) *uint { return &v }

func TestCanAccessPatient(t *testing.T) {
	tests := []struct {
		name    string
		caller  entity.Caller
		patient uint
		want    error
	}{
		{"owner", patient1, 1, nil},
		{"other patient", patient3, 1, ErrForbidden},
		{"admin", admin, 1, nil},
		{"doctor", doctor2, 1, ErrRoleNotAllowed},
		{"anonymous", anonymous, 1, ErrUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := CanAccessPatient(tt.caller, tt.patient); !errors.Is(err, tt.want) {
				t.Errorf("CanAccessPatient() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCanAccessDoctor(t *testing.T) {
	tests := []struct {
		name   string
		caller entity.Caller
		doctor uint
		want   error
	}{
		{"self", doctor2, 2, nil},
		{"other doctor", doctor4, 2, ErrForbidden},
		{"admin", admin, 2, nil},
		{"patient", patient1, 2, ErrRoleNotAllowed},
		{"anonymous", anonymous, 2, ErrUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := CanAccessDoctor(tt.caller, tt.doctor); !errors.Is(err, tt.want) {
				t.Errorf("CanAccessDoctor() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestAppointmentAccess(t *testing.T) {
	appt := &entity.Appointment{ID: 7, PatientID: 1, DoctorID: 2}

	tests := []struct {
		name         string
		caller       entity.Caller
		wantView     error
		wantAnnotate error
	}{
		{"patient of record", patient1, nil, ErrRoleNotAllowed},
		{"other patient", patient3, ErrForbidden, ErrRoleNotAllowed},
		{"doctor of record", doctor2, nil, nil},
		{"other doctor", doctor4, ErrForbidden, ErrForbidden},
		{"admin", admin, nil, nil},
		{"anonymous", anonymous, ErrUnauthenticated, ErrUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := CanViewAppointment(tt.caller, appt); !errors.Is(err, tt.wantView) {
				t.Errorf("CanViewAppointment() = %v, want %v", err, tt.wantView)
			}
			if err := CanCancelAppointment(tt.caller, appt); !errors.Is(err, tt.wantView) {
				t.Errorf("CanCancelAppointment() = %v, want %v", err, tt.wantView)
			}
			if err := CanAnnotateAppointment(tt.caller, appt); !errors.Is(err, tt.wantAnnotate) {
				t.Errorf("CanAnnotateAppointment() = %v, want %v", err, tt.wantAnnotate)
			}
		})
	}
}

func TestResolvePatient(t *testing.T) {
	tests := []struct {
		name      string
		caller    entity.Caller
		requested *uint
		wantID    uint
		wantErr   error
	}{
		{"patient for self implicitly", patient1, nil, 1, nil},
		{"patient for self explicitly", patient1, uintPtr(1), 1, nil},
		{"patient for someone else", patient3, uintPtr(1), 0, ErrForbidden},
		{"admin names patient", admin, uintPtr(1), 1, nil},
		{"admin without target", admin, nil, 0, ErrTargetRequired},
		{"doctor cannot book", doctor2, uintPtr(1), 0, ErrRoleNotAllowed},
		{"anonymous", anonymous, nil, 0, ErrUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolvePatient(tt.caller, tt.requested)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ResolvePatient() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.wantID {
				t.Errorf("ResolvePatient() = %d, want %d", got, tt.wantID)
			}
		})
	}
}

func TestResolveDoctor(t *testing.T) {
	tests := []struct {
		name      string
		caller    entity.Caller
		requested *uint
		wantID    uint
		wantErr   error
	}{
		{"doctor for self", doctor2, nil, 2, nil},
		{"doctor for other doctor", doctor2, uintPtr(4), 0, ErrForbidden},
		{"admin names doctor", admin, uintPtr(4), 4, nil},
		{"admin without target", admin, nil, 0, ErrTargetRequired},
		{"patient", patient1, nil, 0, ErrRoleNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveDoctor(tt.caller, tt.requested)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ResolveDoctor() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.wantID {
				t.Errorf("ResolveDoctor() = %d, want %d", got, tt.wantID)
			}
		})
	}
}
