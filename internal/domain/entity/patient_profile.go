package entity

import "github.com/shopspring/decimal"

// PatientProfile holds patient-specific data, keyed by the owning user id.
// Height is in inches and weight in pounds.
type PatientProfile struct {
	UserID         uint                `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	HeightImperial decimal.NullDecimal `gorm:"type:numeric(5,2)" json:"height_imperial"`
	WeightImperial decimal.NullDecimal `gorm:"type:numeric(6,2)" json:"weight_imperial"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

func (PatientProfile) TableName() string {
	return "patient_profiles"
}
