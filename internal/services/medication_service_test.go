package services_test

import (
	"testing"
	"time"

	"github.com/sjafferali/meditrack/internal/models"
	"github.com/sjafferali/meditrack/internal/services"
)

// TestCreateMedicationValidation tests field and range validation
func TestCreateMedicationValidation(t *testing.T) {
	db := setupTestDB(t)
	alice := createPerson(t, db, "Alice")

	_, err := services.CreateMedication(db, services.MedicationInput{
		PersonID:       alice.ID,
		Dosage:         "10mg",
		Frequency:      "Once daily",
		MaxDosesPerDay: 1,
	})
	assertCustomError(t, err, 400, services.ErrTypeValidation)

	for _, maxDoses := range []int{0, -1, models.MaxDosesPerDayLimit + 1} {
		_, err := services.CreateMedication(db, services.MedicationInput{
			PersonID:       alice.ID,
			Name:           "Ibuprofen",
			Dosage:         "200mg",
			Frequency:      "As needed",
			MaxDosesPerDay: maxDoses,
		})
		assertCustomError(t, err, 400, services.ErrTypeValidation)
	}

	_, err = services.CreateMedication(db, services.MedicationInput{
		PersonID:       9999,
		Name:           "Ibuprofen",
		Dosage:         "200mg",
		Frequency:      "As needed",
		MaxDosesPerDay: 4,
	})
	assertCustomError(t, err, 404, services.ErrTypeNotFound)
}

// TestListMedicationsAggregation tests per-day dose counts and last-taken
// timestamps
func TestListMedicationsAggregation(t *testing.T) {
	db := setupTestDB(t)
	alice := createPerson(t, db, "Alice")
	ibuprofen := createMedication(t, db, alice.ID, "Ibuprofen", 4)
	vitamin := createMedication(t, db, alice.ID, "Vitamin D", 1)

	first, err := services.RecordDose(db, ibuprofen.ID, nil, 0)
	if err != nil {
		t.Fatalf("Failed to record dose: %v", err)
	}
	second, err := services.RecordDose(db, ibuprofen.ID, nil, 0)
	if err != nil {
		t.Fatalf("Failed to record dose: %v", err)
	}

	list, err := services.ListMedications(db, nil, nil, nil, 0, 0, 100)
	if err != nil {
		t.Fatalf("Failed to list medications: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("Expected 2 medications, got %d", len(list))
	}

	byID := map[uint]services.MedicationWithDoses{}
	for _, m := range list {
		byID[m.ID] = m
	}

	taken := byID[ibuprofen.ID]
	if taken.DosesTakenToday != 2 {
		t.Errorf("Expected 2 doses today, got %d", taken.DosesTakenToday)
	}
	if taken.LastTakenAt == nil {
		t.Fatal("Expected a last-taken timestamp")
	}
	if !taken.LastTakenAt.Equal(second.TakenAt) && !taken.LastTakenAt.Equal(first.TakenAt) {
		t.Errorf("Last taken %v should match a recorded dose", taken.LastTakenAt)
	}

	untaken := byID[vitamin.ID]
	if untaken.DosesTakenToday != 0 {
		t.Errorf("Expected 0 doses today, got %d", untaken.DosesTakenToday)
	}
	if untaken.LastTakenAt != nil {
		t.Error("Expected no last-taken timestamp")
	}
}

// TestListMedicationsPersonFilter tests the person_id filter
func TestListMedicationsPersonFilter(t *testing.T) {
	db := setupTestDB(t)
	alice := createPerson(t, db, "Alice")
	bob := createPerson(t, db, "Bob")
	createMedication(t, db, alice.ID, "Lisinopril", 1)
	createMedication(t, db, bob.ID, "Ibuprofen", 4)

	list, err := services.ListMedications(db, &bob.ID, nil, nil, 0, 0, 100)
	if err != nil {
		t.Fatalf("Failed to list medications: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("Expected 1 medication for Bob, got %d", len(list))
	}
	if list[0].Name != "Ibuprofen" {
		t.Errorf("Expected Ibuprofen, got %s", list[0].Name)
	}
}

// TestUpdateMedicationPartial tests that only supplied fields change
func TestUpdateMedicationPartial(t *testing.T) {
	db := setupTestDB(t)
	alice := createPerson(t, db, "Alice")
	medication := createMedication(t, db, alice.ID, "Ibuprofen", 4)

	newMax := 6
	updated, err := services.UpdateMedication(db, medication.ID, services.MedicationUpdateInput{
		MaxDosesPerDay: &newMax,
	})
	if err != nil {
		t.Fatalf("Failed to update medication: %v", err)
	}
	if updated.Name != "Ibuprofen" {
		t.Errorf("Name should be unchanged, got %q", updated.Name)
	}

	var reloaded models.Medication
	db.First(&reloaded, medication.ID)
	if reloaded.MaxDosesPerDay != 6 {
		t.Errorf("Expected max doses 6, got %d", reloaded.MaxDosesPerDay)
	}

	badMax := 0
	_, err = services.UpdateMedication(db, medication.ID, services.MedicationUpdateInput{
		MaxDosesPerDay: &badMax,
	})
	assertCustomError(t, err, 400, services.ErrTypeValidation)
}

// TestDeleteMedicationPreservesHistory tests that dose rows survive with the
// medication name stamped on them
func TestDeleteMedicationPreservesHistory(t *testing.T) {
	db := setupTestDB(t)
	alice := createPerson(t, db, "Alice")
	medication := createMedication(t, db, alice.ID, "Ibuprofen", 4)

	for i := 0; i < 2; i++ {
		if _, err := services.RecordDose(db, medication.ID, nil, 0); err != nil {
			t.Fatalf("Failed to record dose: %v", err)
		}
	}

	if err := services.DeleteMedication(db, medication.ID); err != nil {
		t.Fatalf("Failed to delete medication: %v", err)
	}

	var doses []models.Dose
	if err := db.Find(&doses).Error; err != nil {
		t.Fatalf("Failed to load doses: %v", err)
	}
	if len(doses) != 2 {
		t.Fatalf("Expected 2 surviving doses, got %d", len(doses))
	}
	for _, dose := range doses {
		if dose.MedicationID != nil {
			t.Error("Dose should be unlinked from the deleted medication")
		}
		if dose.MedicationName == nil || *dose.MedicationName != "Ibuprofen" {
			t.Error("Dose should carry the medication name")
		}
	}

	_, err := services.GetMedication(db, medication.ID, nil, nil, 0)
	assertCustomError(t, err, 404, services.ErrTypeNotFound)
}

// TestDeleteMedicationWithoutDoses tests the plain delete path
func TestDeleteMedicationWithoutDoses(t *testing.T) {
	db := setupTestDB(t)
	alice := createPerson(t, db, "Alice")
	medication := createMedication(t, db, alice.ID, "Vitamin D", 1)

	if err := services.DeleteMedication(db, medication.ID); err != nil {
		t.Fatalf("Failed to delete medication: %v", err)
	}

	var count int64
	db.Model(&models.Dose{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected no doses, got %d", count)
	}
}

// TestGetMedicationExplicitDate tests aggregation for a date other than today
func TestGetMedicationExplicitDate(t *testing.T) {
	db := setupTestDB(t)
	alice := createPerson(t, db, "Alice")
	medication := createMedication(t, db, alice.ID, "Ibuprofen", 4)

	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	if _, err := services.RecordDoseAt(db, medication.ID, yesterday, "08:30", nil, 0); err != nil {
		t.Fatalf("Failed to record dated dose: %v", err)
	}

	today, err := services.GetMedication(db, medication.ID, nil, nil, 0)
	if err != nil {
		t.Fatalf("Failed to get medication: %v", err)
	}
	if today.DosesTakenToday != 0 {
		t.Errorf("Yesterday's dose should not count for today, got %d", today.DosesTakenToday)
	}

	list, err := services.ListMedications(db, nil, &yesterday, nil, 0, 0, 100)
	if err != nil {
		t.Fatalf("Failed to list medications: %v", err)
	}
	if list[0].DosesTakenToday != 1 {
		t.Errorf("Expected 1 dose for yesterday, got %d", list[0].DosesTakenToday)
	}
}
