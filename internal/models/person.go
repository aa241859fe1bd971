package models

import (
	"time"

	"gorm.io/datatypes"
)

// Person is someone medications are tracked for. Exactly one person carries
// the default flag while any persons exist; the services layer enforces it.
type Person struct {
	ID          uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName   string          `gorm:"size:255;not null" json:"first_name"`
	LastName    *string         `gorm:"size:255" json:"last_name,omitempty"`
	DateOfBirth *datatypes.Date `json:"date_of_birth,omitempty"`
	Notes       *string         `json:"notes,omitempty"`
	IsDefault   bool            `gorm:"not null;default:false" json:"is_default"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	Medications []Medication `gorm:"foreignKey:PersonID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName overrides the table name for Person
func (Person) TableName() string {
	return "persons"
}

// Name composes the display name from first and last name.
func (p *Person) Name() string {
	if p.LastName != nil && *p.LastName != "" {
		return p.FirstName + " " + *p.LastName
	}
	return p.FirstName
}
