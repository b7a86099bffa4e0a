// Package access decides whether a caller may act on a resource. Every check
// takes the caller explicitly and is free of I/O.
package access

import (
	"slices"

	"medical-appointment-booking/internal/domain/entity"
	"medical-appointment-booking/pkg/apperror"
)

var (
	ErrUnauthenticated = apperror.New(apperror.KindUnauthenticated, "authentication required")
	ErrForbidden       = apperror.New(apperror.KindForbidden, "you do not have access to this resource")
	ErrRoleNotAllowed  = apperror.New(apperror.KindRoleNotAllowed, "your role is not allowed to perform this action")
	ErrTargetRequired  = apperror.New(apperror.KindValidation, "a target id is required when acting as admin")
)

// RequireRole passes when the caller is authenticated and holds one of roles.
func RequireRole(caller entity.Caller, roles ...entity.Role) error {
	if !caller.Authenticated() {
		return ErrUnauthenticated
	}
	if !slices.Contains(roles, caller.Role) {
		return ErrRoleNotAllowed
	}
	return nil
}

// Patient resources are visible to their owner and to admins.
func CanAccessPatient(caller entity.Caller, patientID uint) error {
	if err := RequireRole(caller, entity.RolePatient, entity.RoleAdmin); err != nil {
		return err
	}
	if caller.IsAdmin() || caller.UserID == patientID {
		return nil
	}
	return ErrForbidden
}

// Doctor resources are visible to the doctor and to admins.
func CanAccessDoctor(caller entity.Caller, doctorID uint) error {
	if err := RequireRole(caller, entity.RoleDoctor, entity.RoleAdmin); err != nil {
		return err
	}
	if caller.IsAdmin() || caller.UserID == doctorID {
		return nil
	}
	return ErrForbidden
}

// CanAccessUser allows a user to see or edit their own account; admins may
// act on any account.
func CanAccessUser(caller entity.Caller, userID uint) error {
	if !caller.Authenticated() {
		return ErrUnauthenticated
	}
	if caller.IsAdmin() || caller.UserID == userID {
		return nil
	}
	return ErrForbidden
}

// CanViewAppointment allows the patient, the doctor of record and admins.
// Cancelling follows the same rule.
func CanViewAppointment(caller entity.Caller, appointment *entity.Appointment) error {
	if !caller.Authenticated() {
		return ErrUnauthenticated
	}
	switch caller.Role {
	case entity.RoleAdmin:
		return nil
	case entity.RolePatient:
		if appointment.PatientID == caller.UserID {
			return nil
		}
	case entity.RoleDoctor:
		if appointment.DoctorID == caller.UserID {
			return nil
		}
	}
	return ErrForbidden
}

func CanCancelAppointment(caller entity.Caller, appointment *entity.Appointment) error {
	return CanViewAppointment(caller, appointment)
}

// CanAnnotateAppointment allows only the doctor of record and admins.
func CanAnnotateAppointment(caller entity.Caller, appointment *entity.Appointment) error {
	if err := RequireRole(caller, entity.RoleDoctor, entity.RoleAdmin); err != nil {
		return err
	}
	if caller.IsAdmin() || appointment.DoctorID == caller.UserID {
		return nil
	}
	return ErrForbidden
}

// CanManageTimeSlot allows the owning doctor and admins.
func CanManageTimeSlot(caller entity.Caller, slot *entity.TimeSlot) error {
	return CanAccessDoctor(caller, slot.DoctorID)
}

// ResolvePatient returns the patient a booking is made for. Patients always
// book for themselves; admins must name the patient.
func ResolvePatient(caller entity.Caller, requested *uint) (uint, error) {
	if err := RequireRole(caller, entity.RolePatient, entity.RoleAdmin); err != nil {
		return 0, err
	}
	if caller.IsAdmin() {
		if requested == nil || *requested == 0 {
			return 0, ErrTargetRequired
		}
		return *requested, nil
	}
	if requested != nil && *requested != 0 && *requested != caller.UserID {
		return 0, ErrForbidden
	}
	return caller.UserID, nil
}

// ResolveDoctor returns the doctor a slot or availability is created for.
// Doctors act for themselves; admins must name the doctor.
func ResolveDoctor(caller entity.Caller, requested *uint) (uint, error) {
	if err := RequireRole(caller, entity.RoleDoctor, entity.RoleAdmin); err != nil {
		return 0, err
	}
	if caller.IsAdmin() {
		if requested == nil || *requested == 0 {
			return 0, ErrTargetRequired
		}
		return *requested, nil
	}
	if requested != nil && *requested != 0 && *requested != caller.UserID {
		return 0, ErrForbidden
	}
	return caller.UserID, nil
}
