package models

import (
	"time"
)

// MaxDosesPerDayLimit bounds the declared daily dose ceiling.
const MaxDosesPerDayLimit = 20

// Medication is a per-person drug entry with a declared daily dose ceiling.
type Medication struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PersonID       uint      `gorm:"index;not null" json:"person_id"`
	Name           string    `gorm:"size:255;not null" json:"name"`
	Dosage         string    `gorm:"size:255;not null" json:"dosage"`
	Frequency      string    `gorm:"size:255;not null" json:"frequency"`
	MaxDosesPerDay int       `gorm:"not null" json:"max_doses_per_day"`
	Instructions   *string   `json:"instructions,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Doses are preserved on medication delete: the FK is nulled and the
	// medication name is denormalized onto each dose first.
	Doses []Dose `gorm:"foreignKey:MedicationID;constraint:OnDelete:SET NULL" json:"-"`
}

// TableName overrides the table name for Medication
func (Medication) TableName() string {
	return "medications"
}
