// report_service.go
//
// Assembles the data behind the printable medication tracking form.

package services

import (
	"time"

	"github.com/sjafferali/meditrack/internal/models"
	"gorm.io/gorm"
)

// TrackingFormData is everything the PDF renderer needs for one form.
type TrackingFormData struct {
	Title       string
	Dates       []time.Time
	Medications []models.Medication
	GeneratedAt time.Time
}

// BuildTrackingForm loads the medications (optionally one person's) and
// expands the date range for a printable tracking form starting at date.
func BuildTrackingForm(db *gorm.DB, date time.Time, days int, personID *uint, offset *int, defaultOffset int) (*TrackingFormData, error) {
	if days < 1 {
		days = 1
	}
	if days > 7 {
		return nil, validationError("days must be between 1 and 7")
	}

	loc := ResolveLocation(offset, defaultOffset)

	title := "Medication Log"
	query := db.Order("id")
	if personID != nil {
		var person models.Person
		if err := db.First(&person, *personID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, notFoundError("Person")
			}
			return nil, err
		}
		title = person.Name() + " Medication Log"
		query = query.Where("person_id = ?", *personID)
	}

	var medications []models.Medication
	if err := query.Find(&medications).Error; err != nil {
		return nil, err
	}
	if len(medications) == 0 {
		return nil, notFoundError("Medications")
	}

	dates := make([]time.Time, 0, days)
	for dayOffset := 0; dayOffset < days; dayOffset++ {
		dates = append(dates, date.AddDate(0, 0, dayOffset))
	}

	return &TrackingFormData{
		Title:       title,
		Dates:       dates,
		Medications: medications,
		GeneratedAt: time.Now().In(loc),
	}, nil
}
