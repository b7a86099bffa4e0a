package entity

const DefaultSpecialty = "General Physician"

// DoctorProfile holds doctor-specific data. Its key is the owning user id,
// so a doctor id and its user id are the same number.
type DoctorProfile struct {
	UserID    uint   `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	Specialty string `gorm:"type:varchar(100);not null;default:'General Physician';index" json:"specialty"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

func (DoctorProfile) TableName() string {
	return "doctor_profiles"
}
