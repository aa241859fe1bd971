// person_service.go
//
// Person registry operations and default-person invariants.

package services

import (
	"time"

	"github.com/sjafferali/meditrack/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PersonInput carries the writable person fields.
type PersonInput struct {
	FirstName   string          `json:"first_name"`
	LastName    *string         `json:"last_name"`
	DateOfBirth *datatypes.Date `json:"date_of_birth"`
	Notes       *string         `json:"notes"`
}

// PersonUpdateInput carries optional person fields; nil means leave as-is.
type PersonUpdateInput struct {
	FirstName   *string         `json:"first_name"`
	LastName    *string         `json:"last_name"`
	DateOfBirth *datatypes.Date `json:"date_of_birth"`
	Notes       *string         `json:"notes"`
}

// PersonWithStats is the person response shape: the persisted row plus the
// composed display name and medication count, assembled field by field.
type PersonWithStats struct {
	models.Person
	Name            string `json:"name"`
	MedicationCount int64  `json:"medication_count"`
}

// NewPersonWithStats builds the response shape from the persisted row and
// the computed count.
func NewPersonWithStats(p models.Person, medicationCount int64) PersonWithStats {
	return PersonWithStats{
		Person:          p,
		Name:            p.Name(),
		MedicationCount: medicationCount,
	}
}

// ListPersons returns all persons with their medication counts.
func ListPersons(db *gorm.DB, skip, limit int) ([]PersonWithStats, error) {
	var persons []models.Person
	if err := db.Order("id").Offset(skip).Limit(limit).Find(&persons).Error; err != nil {
		return nil, err
	}

	result := make([]PersonWithStats, 0, len(persons))
	for _, person := range persons {
		var count int64
		if err := db.Model(&models.Medication{}).
			Where("person_id = ?", person.ID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		result = append(result, NewPersonWithStats(person, count))
	}

	return result, nil
}

// GetPerson returns one person with their medication count.
func GetPerson(db *gorm.DB, id uint) (*PersonWithStats, error) {
	var person models.Person
	if err := db.First(&person, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, notFoundError("Person")
		}
		return nil, err
	}

	var count int64
	if err := db.Model(&models.Medication{}).
		Where("person_id = ?", person.ID).
		Count(&count).Error; err != nil {
		return nil, err
	}

	result := NewPersonWithStats(person, count)
	return &result, nil
}

// CreatePerson creates a person. The first person in the system becomes the
// default automatically.
func CreatePerson(db *gorm.DB, input PersonInput) (*models.Person, error) {
	if input.FirstName == "" {
		return nil, validationError("first_name is required")
	}

	var person models.Person
	err := db.Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.Person{}).
			Where("is_default = ?", true).
			Count(&existing).Error; err != nil {
			return err
		}

		person = models.Person{
			FirstName:   input.FirstName,
			LastName:    input.LastName,
			DateOfBirth: input.DateOfBirth,
			Notes:       input.Notes,
			IsDefault:   existing == 0,
		}
		return tx.Create(&person).Error
	})
	if err != nil {
		return nil, err
	}

	return &person, nil
}

// UpdatePerson applies the non-nil fields of input.
func UpdatePerson(db *gorm.DB, id uint, input PersonUpdateInput) (*models.Person, error) {
	var person models.Person
	if err := db.First(&person, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, notFoundError("Person")
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.FirstName != nil {
		if *input.FirstName == "" {
			return nil, validationError("first_name cannot be empty")
		}
		updates["first_name"] = *input.FirstName
	}
	if input.LastName != nil {
		updates["last_name"] = *input.LastName
	}
	if input.DateOfBirth != nil {
		updates["date_of_birth"] = *input.DateOfBirth
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}

	if len(updates) > 0 {
		updates["updated_at"] = time.Now().UTC()
		if err := db.Model(&person).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return &person, nil
}

// DeletePerson removes a person together with their medications and those
// medications' dose rows. The last person and the default person (while
// others exist) cannot be deleted.
func DeletePerson(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var person models.Person
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&person, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return notFoundError("Person")
			}
			return err
		}

		var personCount int64
		if err := tx.Model(&models.Person{}).Count(&personCount).Error; err != nil {
			return err
		}
		if personCount == 1 {
			return businessError("Cannot delete the last person in the system")
		}
		if person.IsDefault {
			return businessError("Cannot delete the default person. Set another person as default first.")
		}

		// Remove dose rows for this person's medications, then the
		// medications, without relying on engine cascade behavior.
		var medicationIDs []uint
		if err := tx.Model(&models.Medication{}).
			Where("person_id = ?", person.ID).
			Pluck("id", &medicationIDs).Error; err != nil {
			return err
		}
		if len(medicationIDs) > 0 {
			if err := tx.Where("medication_id IN ?", medicationIDs).
				Delete(&models.Dose{}).Error; err != nil {
				return err
			}
			if err := tx.Where("person_id = ?", person.ID).
				Delete(&models.Medication{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&person).Error
	})
}

// SetDefaultPerson flags one person as default, atomically clearing any
// previous default.
func SetDefaultPerson(db *gorm.DB, id uint) (*models.Person, error) {
	var person models.Person
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&person, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return notFoundError("Person")
			}
			return err
		}

		if err := tx.Model(&models.Person{}).
			Where("is_default = ?", true).
			Update("is_default", false).Error; err != nil {
			return err
		}

		person.IsDefault = true
		return tx.Model(&person).Update("is_default", true).Error
	})
	if err != nil {
		return nil, err
	}

	return &person, nil
}
