package dto

// Request DTOs

type UpdateDoctorRequest struct {
	Specialty string `json:"specialty" validate:"required,min=2,max=100"`
}

// Response DTOs

type DoctorResponse struct {
	ID        uint   `json:"id"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	Specialty string `json:"specialty"`
}

// DoctorDetailResponse is the doctor home view: the profile plus the slots
// of the next seven days.
type DoctorDetailResponse struct {
	DoctorResponse
	UpcomingSlots []TimeSlotResponse `json:"upcoming_slots"`
}
