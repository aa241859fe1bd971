// medication_service.go
//
// Medication catalog operations and per-day dose aggregation.

package services

import (
	"fmt"
	"time"

	"github.com/sjafferali/meditrack/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MedicationInput carries the writable medication fields.
type MedicationInput struct {
	PersonID       uint    `json:"person_id"`
	Name           string  `json:"name"`
	Dosage         string  `json:"dosage"`
	Frequency      string  `json:"frequency"`
	MaxDosesPerDay int     `json:"max_doses_per_day"`
	Instructions   *string `json:"instructions"`
}

// MedicationUpdateInput carries optional medication fields; nil means leave
// as-is.
type MedicationUpdateInput struct {
	Name           *string `json:"name"`
	Dosage         *string `json:"dosage"`
	Frequency      *string `json:"frequency"`
	MaxDosesPerDay *int    `json:"max_doses_per_day"`
	Instructions   *string `json:"instructions"`
}

// MedicationWithDoses is the medication response shape: the persisted row
// plus the per-day computed fields, assembled through an explicit
// constructor rather than reflection.
type MedicationWithDoses struct {
	models.Medication
	DosesTakenToday int        `json:"doses_taken_today"`
	LastTakenAt     *time.Time `json:"last_taken_at,omitempty"`
}

// NewMedicationWithDoses builds the response shape from the persisted row
// and the computed per-day fields.
func NewMedicationWithDoses(m models.Medication, dosesTaken int, lastTakenAt *time.Time) MedicationWithDoses {
	return MedicationWithDoses{
		Medication:      m,
		DosesTakenToday: dosesTaken,
		LastTakenAt:     lastTakenAt,
	}
}

func validateMaxDoses(n int) error {
	if n < 1 || n > models.MaxDosesPerDayLimit {
		return validationError(fmt.Sprintf("max_doses_per_day must be between 1 and %d", models.MaxDosesPerDayLimit))
	}
	return nil
}

// dosesInWindow loads a medication's doses inside the window, oldest first.
func dosesInWindow(db *gorm.DB, medicationID uint, w DayWindow) ([]models.Dose, error) {
	start, end := w.windowBounds()
	var doses []models.Dose
	err := db.Where("medication_id = ? AND taken_at >= ? AND taken_at < ?", medicationID, start, end).
		Order("taken_at ASC").
		Find(&doses).Error
	return doses, err
}

// aggregateWindow reduces a dose list to the computed fields: count and most
// recent timestamp in range.
func aggregateWindow(doses []models.Dose) (int, *time.Time) {
	if len(doses) == 0 {
		return 0, nil
	}
	last := doses[len(doses)-1].TakenAt
	return len(doses), &last
}

// ListMedications returns medications (optionally filtered by person) with
// dose information for the resolved day.
func ListMedications(db *gorm.DB, personID *uint, date *time.Time, offset *int, defaultOffset int, skip, limit int) ([]MedicationWithDoses, error) {
	loc := ResolveLocation(offset, defaultOffset)
	queryDate := time.Now().In(loc)
	if date != nil {
		queryDate = *date
	}
	window := WindowForDate(queryDate, loc)

	query := db.Order("id").Offset(skip).Limit(limit)
	if personID != nil {
		query = query.Where("person_id = ?", *personID)
	}

	var medications []models.Medication
	if err := query.Find(&medications).Error; err != nil {
		return nil, err
	}

	result := make([]MedicationWithDoses, 0, len(medications))
	for _, medication := range medications {
		doses, err := dosesInWindow(db, medication.ID, window)
		if err != nil {
			return nil, err
		}
		count, last := aggregateWindow(doses)
		result = append(result, NewMedicationWithDoses(medication, count, last))
	}

	return result, nil
}

// GetMedication returns one medication with dose information for the
// resolved day.
func GetMedication(db *gorm.DB, id uint, date *time.Time, offset *int, defaultOffset int) (*MedicationWithDoses, error) {
	var medication models.Medication
	if err := db.First(&medication, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, notFoundError("Medication")
		}
		return nil, err
	}

	loc := ResolveLocation(offset, defaultOffset)
	queryDate := time.Now().In(loc)
	if date != nil {
		queryDate = *date
	}

	doses, err := dosesInWindow(db, medication.ID, WindowForDate(queryDate, loc))
	if err != nil {
		return nil, err
	}
	count, last := aggregateWindow(doses)

	result := NewMedicationWithDoses(medication, count, last)
	return &result, nil
}

// CreateMedication creates a medication for a person.
func CreateMedication(db *gorm.DB, input MedicationInput) (*models.Medication, error) {
	if input.Name == "" || input.Dosage == "" || input.Frequency == "" {
		return nil, validationError("name, dosage and frequency are required")
	}
	if err := validateMaxDoses(input.MaxDosesPerDay); err != nil {
		return nil, err
	}

	var personCount int64
	if err := db.Model(&models.Person{}).
		Where("id = ?", input.PersonID).
		Count(&personCount).Error; err != nil {
		return nil, err
	}
	if personCount == 0 {
		return nil, notFoundError("Person")
	}

	medication := models.Medication{
		PersonID:       input.PersonID,
		Name:           input.Name,
		Dosage:         input.Dosage,
		Frequency:      input.Frequency,
		MaxDosesPerDay: input.MaxDosesPerDay,
		Instructions:   input.Instructions,
	}
	if err := db.Create(&medication).Error; err != nil {
		return nil, err
	}

	return &medication, nil
}

// UpdateMedication applies the non-nil fields of input.
func UpdateMedication(db *gorm.DB, id uint, input MedicationUpdateInput) (*models.Medication, error) {
	var medication models.Medication
	if err := db.First(&medication, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, notFoundError("Medication")
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Dosage != nil {
		updates["dosage"] = *input.Dosage
	}
	if input.Frequency != nil {
		updates["frequency"] = *input.Frequency
	}
	if input.MaxDosesPerDay != nil {
		if err := validateMaxDoses(*input.MaxDosesPerDay); err != nil {
			return nil, err
		}
		updates["max_doses_per_day"] = *input.MaxDosesPerDay
	}
	if input.Instructions != nil {
		updates["instructions"] = *input.Instructions
	}

	if len(updates) > 0 {
		updates["updated_at"] = time.Now().UTC()
		if err := db.Model(&medication).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return &medication, nil
}

// DeleteMedication removes a medication while preserving its dose history:
// doses that do not yet carry a name are back-filled with the medication's
// name and unlinked, all inside one transaction. The FK SET NULL constraint
// is a backstop, not the mechanism.
func DeleteMedication(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var medication models.Medication
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&medication, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return notFoundError("Medication")
			}
			return err
		}

		// Only back-fill doses that don't have a name yet; an already
		// stored name is immutable history.
		if err := tx.Model(&models.Dose{}).
			Where("medication_id = ? AND medication_name IS NULL", medication.ID).
			Update("medication_name", medication.Name).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Dose{}).
			Where("medication_id = ?", medication.ID).
			Update("medication_id", nil).Error; err != nil {
			return err
		}

		return tx.Delete(&medication).Error
	})
}
