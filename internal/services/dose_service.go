// dose_service.go
//
// Dose ledger operations: admission-checked recording, history, and the
// timezone-bucketed daily summary.

package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/sjafferali/meditrack/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SummaryEntry is one medication's slice of a daily summary.
type SummaryEntry struct {
	MedicationID   uint        `json:"medication_id"`
	MedicationName string      `json:"medication_name"`
	DosesTaken     int         `json:"doses_taken"`
	MaxDoses       int         `json:"max_doses"`
	DoseTimes      []time.Time `json:"dose_times"`
}

// DailySummary lists per-medication dose counts and timestamps for one
// local calendar day.
type DailySummary struct {
	Date        string         `json:"date"`
	Medications []SummaryEntry `json:"medications"`
}

// RecordDose records a dose taken now, in the resolved timezone. The
// check-and-insert runs inside a transaction holding a row lock on the
// medication so concurrent recordings cannot exceed the daily cap.
func RecordDose(db *gorm.DB, medicationID uint, offset *int, defaultOffset int) (*models.Dose, error) {
	loc := ResolveLocation(offset, defaultOffset)
	now := time.Now().In(loc)
	window := WindowForDate(now, loc)

	return admitDose(db, medicationID, now, window, "")
}

// RecordDoseAt records a dose at an explicit local date and time of day.
// The date must not be after today in the resolved timezone, and clock must
// be HH:MM.
func RecordDoseAt(db *gorm.DB, medicationID uint, date time.Time, clock string, offset *int, defaultOffset int) (*models.Dose, error) {
	loc := ResolveLocation(offset, defaultOffset)

	today := time.Now().In(loc)
	if dateAfter(date, today) {
		return nil, businessError("Cannot record doses for future dates")
	}

	hour, minute, err := parseClock(clock)
	if err != nil {
		return nil, err
	}

	takenAt := time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, loc)
	window := WindowForDate(date, loc)

	return admitDose(db, medicationID, takenAt, window, localDate(date))
}

// admitDose performs the locked check-then-insert against the day window.
func admitDose(db *gorm.DB, medicationID uint, takenAt time.Time, window DayWindow, limitDay string) (*models.Dose, error) {
	var dose models.Dose
	err := db.Transaction(func(tx *gorm.DB) error {
		var medication models.Medication
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&medication, medicationID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return notFoundError("Medication")
			}
			return err
		}

		start, end := window.windowBounds()
		var taken int64
		if err := tx.Model(&models.Dose{}).
			Where("medication_id = ? AND taken_at >= ? AND taken_at < ?", medication.ID, start, end).
			Count(&taken).Error; err != nil {
			return err
		}

		if taken >= int64(medication.MaxDosesPerDay) {
			return doseLimitError(medication.MaxDosesPerDay, limitDay)
		}

		medID := medication.ID
		dose = models.Dose{
			MedicationID: &medID,
			TakenAt:      takenAt.UTC(),
		}
		return tx.Create(&dose).Error
	})
	if err != nil {
		return nil, err
	}

	return &dose, nil
}

// ListDoses returns a medication's dose history, newest first.
func ListDoses(db *gorm.DB, medicationID uint, skip, limit int) ([]models.Dose, error) {
	if err := requireMedication(db, medicationID); err != nil {
		return nil, err
	}

	var doses []models.Dose
	err := db.Where("medication_id = ?", medicationID).
		Order("taken_at DESC").
		Offset(skip).
		Limit(limit).
		Find(&doses).Error
	return doses, err
}

// ListDosesOn returns a medication's doses for one local calendar day,
// oldest first.
func ListDosesOn(db *gorm.DB, medicationID uint, date time.Time, offset *int, defaultOffset int) ([]models.Dose, error) {
	if err := requireMedication(db, medicationID); err != nil {
		return nil, err
	}

	loc := ResolveLocation(offset, defaultOffset)
	return dosesInWindow(db, medicationID, WindowForDate(date, loc))
}

// DeleteDose removes a single dose from the ledger.
func DeleteDose(db *gorm.DB, id uint) error {
	var dose models.Dose
	if err := db.First(&dose, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return notFoundError("Dose")
		}
		return err
	}
	return db.Delete(&dose).Error
}

// GetDailySummary aggregates all medications over one local calendar day.
// A nil date means today in the resolved timezone.
func GetDailySummary(db *gorm.DB, date *time.Time, offset *int, defaultOffset int) (*DailySummary, error) {
	loc := ResolveLocation(offset, defaultOffset)
	queryDate := time.Now().In(loc)
	if date != nil {
		queryDate = *date
	}
	window := WindowForDate(queryDate, loc)

	var medications []models.Medication
	if err := db.Order("id").Find(&medications).Error; err != nil {
		return nil, err
	}

	summary := &DailySummary{
		Date:        queryDate.Format("2006-01-02"),
		Medications: make([]SummaryEntry, 0, len(medications)),
	}

	for _, medication := range medications {
		doses, err := dosesInWindow(db, medication.ID, window)
		if err != nil {
			return nil, err
		}

		times := make([]time.Time, 0, len(doses))
		for _, dose := range doses {
			times = append(times, dose.TakenAt)
		}

		summary.Medications = append(summary.Medications, SummaryEntry{
			MedicationID:   medication.ID,
			MedicationName: medication.Name,
			DosesTaken:     len(doses),
			MaxDoses:       medication.MaxDosesPerDay,
			DoseTimes:      times,
		})
	}

	return summary, nil
}

func requireMedication(db *gorm.DB, id uint) error {
	var count int64
	if err := db.Model(&models.Medication{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return notFoundError("Medication")
	}
	return nil
}

// dateAfter reports whether a's calendar date is after b's, each read in its
// own location.
func dateAfter(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay > by
	}
	if am != bm {
		return am > bm
	}
	return ad > bd
}

// parseClock parses an HH:MM time-of-day string.
func parseClock(clock string) (int, int, error) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return 0, 0, validationError("Invalid time format. Use HH:MM")
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, validationError("Invalid time format. Use HH:MM")
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, validationError("Invalid time format. Use HH:MM")
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, validationError("Invalid time format. Use HH:MM")
	}
	return hour, minute, nil
}
