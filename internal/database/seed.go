package database

import (
	"log"

	"github.com/sjafferali/meditrack/internal/models"
	"gorm.io/gorm"
)

// Seed inserts a default person and sample medications into an empty
// database. Existing data is never touched.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Person{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		person := models.Person{
			FirstName: "Default",
			IsDefault: true,
		}
		if err := tx.Create(&person).Error; err != nil {
			return err
		}

		samples := []models.Medication{
			{
				PersonID:       person.ID,
				Name:           "Lisinopril",
				Dosage:         "10mg",
				Frequency:      "Once daily",
				MaxDosesPerDay: 1,
				Instructions:   strPtr("Take with food in the morning"),
			},
			{
				PersonID:       person.ID,
				Name:           "Ibuprofen",
				Dosage:         "200mg",
				Frequency:      "Every 6 hours as needed",
				MaxDosesPerDay: 4,
				Instructions:   strPtr("Take with food or milk"),
			},
			{
				PersonID:       person.ID,
				Name:           "Vitamin D",
				Dosage:         "1000 IU",
				Frequency:      "Once daily",
				MaxDosesPerDay: 1,
				Instructions:   strPtr("Take with a meal"),
			},
		}
		if err := tx.Create(&samples).Error; err != nil {
			return err
		}

		log.Printf("Seeded database with %d sample medications", len(samples))
		return nil
	})
}

func strPtr(s string) *string {
	return &s
}
