package models

import (
	"time"
)

// Dose is one entry in the append-mostly dose ledger. MedicationID is nil
// once the medication has been deleted; MedicationName then holds the name
// it had at deletion time and is immutable history.
type Dose struct {
	ID             uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	MedicationID   *uint   `gorm:"index" json:"medication_id"`
	MedicationName *string `gorm:"size:255" json:"medication_name,omitempty"`
	// TakenAt is stored in UTC so timestamp comparisons stay chronological
	// on engines that collate timestamps as text.
	TakenAt time.Time `gorm:"index;not null" json:"taken_at"`
}

// TableName overrides the table name for Dose
func (Dose) TableName() string {
	return "doses"
}
