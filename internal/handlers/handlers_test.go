package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/sjafferali/meditrack/internal/config"
	"github.com/sjafferali/meditrack/internal/handlers"
	"github.com/sjafferali/meditrack/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.Person{},
		&models.Medication{},
		&models.Dose{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// setupTestApp wires the API routes the same way the server does
func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	db := setupTestDB(t)
	cfg := &config.Config{TimezoneOffset: 0, DBType: "sqlite", DBDatabase: ":memory:", Environment: "test"}

	app := fiber.New()
	api := app.Group("/api/v1")

	personsHandler := &handlers.PersonsHandler{DB: db}
	medicationsHandler := &handlers.MedicationsHandler{DB: db, Cfg: cfg}
	dosesHandler := &handlers.DosesHandler{DB: db, Cfg: cfg}
	healthHandler := &handlers.HealthHandler{DB: db, Cfg: cfg}

	api.Get("/health", healthHandler.GetHealth)

	api.Get("/persons", personsHandler.ListPersons)
	api.Post("/persons", personsHandler.CreatePerson)
	api.Get("/persons/:id", personsHandler.GetPerson)
	api.Put("/persons/:id", personsHandler.UpdatePerson)
	api.Delete("/persons/:id", personsHandler.DeletePerson)
	api.Put("/persons/:id/set-default", personsHandler.SetDefaultPerson)

	api.Get("/medications", medicationsHandler.ListMedications)
	api.Post("/medications", medicationsHandler.CreateMedication)
	api.Get("/medications/:id", medicationsHandler.GetMedication)
	api.Put("/medications/:id", medicationsHandler.UpdateMedication)
	api.Delete("/medications/:id", medicationsHandler.DeleteMedication)

	api.Post("/medications/:id/dose", dosesHandler.RecordDose)
	api.Post("/medications/:id/dose/:date", dosesHandler.RecordDoseAt)
	api.Get("/medications/:id/doses", dosesHandler.ListDoses)
	api.Get("/medications/:id/doses/:date", dosesHandler.ListDosesOn)
	api.Delete("/doses/:id", dosesHandler.DeleteDose)

	api.Get("/daily-summary", dosesHandler.GetDailySummary)
	api.Get("/daily-summary/:date", dosesHandler.GetDailySummaryFor)

	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &result); err != nil {
			// Endpoints returning arrays are decoded by the caller
			result = nil
		}
	}

	return resp.StatusCode, result
}

func createTestPerson(t *testing.T, app *fiber.App, firstName string) uint {
	t.Helper()
	status, body := doJSON(t, app, "POST", "/api/v1/persons", map[string]interface{}{
		"first_name": firstName,
	})
	if status != 201 {
		t.Fatalf("Expected 201 creating person, got %d", status)
	}
	return uint(body["id"].(float64))
}

func createTestMedication(t *testing.T, app *fiber.App, personID uint, name string, maxDoses int) uint {
	t.Helper()
	status, body := doJSON(t, app, "POST", "/api/v1/medications", map[string]interface{}{
		"person_id":         personID,
		"name":              name,
		"dosage":            "200mg",
		"frequency":         "As needed",
		"max_doses_per_day": maxDoses,
	})
	if status != 201 {
		t.Fatalf("Expected 201 creating medication, got %d", status)
	}
	return uint(body["id"].(float64))
}

// TestPersonEndpoints tests the person lifecycle over HTTP
func TestPersonEndpoints(t *testing.T) {
	app, _ := setupTestApp(t)

	aliceID := createTestPerson(t, app, "Alice")
	bobID := createTestPerson(t, app, "Bob")

	status, body := doJSON(t, app, "GET", fmt.Sprintf("/api/v1/persons/%d", aliceID), nil)
	if status != 200 {
		t.Fatalf("Expected 200, got %d", status)
	}
	if body["is_default"] != true {
		t.Error("First person should be the default")
	}

	// Deleting the default person is rejected with the error envelope
	status, body = doJSON(t, app, "DELETE", fmt.Sprintf("/api/v1/persons/%d", aliceID), nil)
	if status != 400 {
		t.Fatalf("Expected 400 deleting default person, got %d", status)
	}
	if body["ok"] != false || body["type"] != "business" {
		t.Errorf("Expected business error envelope, got %v", body)
	}

	status, _ = doJSON(t, app, "PUT", fmt.Sprintf("/api/v1/persons/%d/set-default", bobID), nil)
	if status != 200 {
		t.Fatalf("Expected 200 setting default, got %d", status)
	}

	status, _ = doJSON(t, app, "DELETE", fmt.Sprintf("/api/v1/persons/%d", aliceID), nil)
	if status != 204 {
		t.Fatalf("Expected 204 after default moved, got %d", status)
	}

	status, _ = doJSON(t, app, "GET", "/api/v1/persons/9999", nil)
	if status != 404 {
		t.Errorf("Expected 404 for unknown person, got %d", status)
	}

	status, _ = doJSON(t, app, "GET", "/api/v1/persons/abc", nil)
	if status != 400 {
		t.Errorf("Expected 400 for malformed id, got %d", status)
	}
}

// TestMedicationEndpoints tests medication CRUD over HTTP
func TestMedicationEndpoints(t *testing.T) {
	app, _ := setupTestApp(t)

	aliceID := createTestPerson(t, app, "Alice")
	medicationID := createTestMedication(t, app, aliceID, "Ibuprofen", 4)

	status, body := doJSON(t, app, "GET", fmt.Sprintf("/api/v1/medications/%d", medicationID), nil)
	if status != 200 {
		t.Fatalf("Expected 200, got %d", status)
	}
	if body["doses_taken_today"] != float64(0) {
		t.Errorf("Expected 0 doses today, got %v", body["doses_taken_today"])
	}

	status, body = doJSON(t, app, "POST", "/api/v1/medications", map[string]interface{}{
		"person_id":         aliceID,
		"name":              "Bad",
		"dosage":            "1mg",
		"frequency":         "Daily",
		"max_doses_per_day": 0,
	})
	if status != 400 {
		t.Fatalf("Expected 400 for invalid cap, got %d", status)
	}
	if body["type"] != "validation" {
		t.Errorf("Expected validation error, got %v", body["type"])
	}

	status, _ = doJSON(t, app, "PUT", fmt.Sprintf("/api/v1/medications/%d", medicationID), map[string]interface{}{
		"dosage": "400mg",
	})
	if status != 200 {
		t.Fatalf("Expected 200 updating medication, got %d", status)
	}

	status, _ = doJSON(t, app, "DELETE", fmt.Sprintf("/api/v1/medications/%d", medicationID), nil)
	if status != 204 {
		t.Fatalf("Expected 204 deleting medication, got %d", status)
	}

	status, _ = doJSON(t, app, "GET", fmt.Sprintf("/api/v1/medications/%d", medicationID), nil)
	if status != 404 {
		t.Errorf("Expected 404 after delete, got %d", status)
	}
}

// TestGetMedicationWithDateQuery tests that the date query parameter moves
// the aggregation window off today
func TestGetMedicationWithDateQuery(t *testing.T) {
	app, _ := setupTestApp(t)

	aliceID := createTestPerson(t, app, "Alice")
	medicationID := createTestMedication(t, app, aliceID, "Ibuprofen", 4)

	status, _ := doJSON(t, app, "POST", fmt.Sprintf("/api/v1/medications/%d/dose/2025-03-10", medicationID),
		map[string]interface{}{"time": "08:30"})
	if status != 201 {
		t.Fatalf("Expected 201 recording dated dose, got %d", status)
	}

	status, body := doJSON(t, app, "GET", fmt.Sprintf("/api/v1/medications/%d?date=2025-03-10", medicationID), nil)
	if status != 200 {
		t.Fatalf("Expected 200, got %d", status)
	}
	if body["doses_taken_today"] != float64(1) {
		t.Errorf("Expected the dated dose to be counted for 2025-03-10, got %v", body["doses_taken_today"])
	}

	// Without the date parameter the window is today, which has no doses
	status, body = doJSON(t, app, "GET", fmt.Sprintf("/api/v1/medications/%d", medicationID), nil)
	if status != 200 {
		t.Fatalf("Expected 200, got %d", status)
	}
	if body["doses_taken_today"] != float64(0) {
		t.Errorf("Expected 0 doses for today, got %v", body["doses_taken_today"])
	}

	status, _ = doJSON(t, app, "GET", fmt.Sprintf("/api/v1/medications/%d?date=bogus", medicationID), nil)
	if status != 400 {
		t.Errorf("Expected 400 for malformed date, got %d", status)
	}
}

// TestDoseEndpoints tests dose recording and the daily summary over HTTP
func TestDoseEndpoints(t *testing.T) {
	app, _ := setupTestApp(t)

	aliceID := createTestPerson(t, app, "Alice")
	medicationID := createTestMedication(t, app, aliceID, "Vitamin D", 1)

	status, body := doJSON(t, app, "POST", fmt.Sprintf("/api/v1/medications/%d/dose", medicationID), nil)
	if status != 201 {
		t.Fatalf("Expected 201 recording dose, got %d", status)
	}
	doseID := uint(body["id"].(float64))

	// The cap is 1, so the next dose is rejected
	status, body = doJSON(t, app, "POST", fmt.Sprintf("/api/v1/medications/%d/dose", medicationID), nil)
	if status != 400 {
		t.Fatalf("Expected 400 over the cap, got %d", status)
	}
	if body["message"] != "Maximum doses (1) taken today" {
		t.Errorf("Unexpected cap message: %v", body["message"])
	}

	status, body = doJSON(t, app, "GET", "/api/v1/daily-summary", nil)
	if status != 200 {
		t.Fatalf("Expected 200 for summary, got %d", status)
	}
	medications := body["medications"].([]interface{})
	if len(medications) != 1 {
		t.Fatalf("Expected 1 summary entry, got %d", len(medications))
	}
	entry := medications[0].(map[string]interface{})
	if entry["doses_taken"] != float64(1) {
		t.Errorf("Expected 1 dose taken, got %v", entry["doses_taken"])
	}

	status, _ = doJSON(t, app, "DELETE", fmt.Sprintf("/api/v1/doses/%d", doseID), nil)
	if status != 204 {
		t.Fatalf("Expected 204 deleting dose, got %d", status)
	}

	status, _ = doJSON(t, app, "POST", "/api/v1/medications/9999/dose", nil)
	if status != 404 {
		t.Errorf("Expected 404 for unknown medication, got %d", status)
	}
}

// TestDatedDoseEndpoints tests the explicit-date dose route
func TestDatedDoseEndpoints(t *testing.T) {
	app, _ := setupTestApp(t)

	aliceID := createTestPerson(t, app, "Alice")
	medicationID := createTestMedication(t, app, aliceID, "Ibuprofen", 4)

	// A past date with an explicit time, offset sent as a string
	status, _ := doJSON(t, app, "POST", fmt.Sprintf("/api/v1/medications/%d/dose/2025-03-10", medicationID),
		map[string]interface{}{"time": "08:30", "timezone_offset": "300"})
	if status != 201 {
		t.Fatalf("Expected 201 recording dated dose, got %d", status)
	}

	status, body := doJSON(t, app, "POST", fmt.Sprintf("/api/v1/medications/%d/dose/2999-01-01", medicationID),
		map[string]interface{}{"time": "08:30"})
	if status != 400 {
		t.Fatalf("Expected 400 for future date, got %d", status)
	}
	if body["message"] != "Cannot record doses for future dates" {
		t.Errorf("Unexpected message: %v", body["message"])
	}

	status, _ = doJSON(t, app, "POST", fmt.Sprintf("/api/v1/medications/%d/dose/not-a-date", medicationID),
		map[string]interface{}{"time": "08:30"})
	if status != 400 {
		t.Errorf("Expected 400 for malformed date, got %d", status)
	}

	status, _ = doJSON(t, app, "POST", fmt.Sprintf("/api/v1/medications/%d/dose/2025-03-10", medicationID),
		map[string]interface{}{"time": "25:00"})
	if status != 400 {
		t.Errorf("Expected 400 for bad clock, got %d", status)
	}

	// The recorded dose shows up in the day view with the same offset
	req := httptest.NewRequest("GET",
		fmt.Sprintf("/api/v1/medications/%d/doses/2025-03-10?timezone_offset=300", medicationID), nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("Expected 200 listing day doses, got %d", resp.StatusCode)
	}
	var doses []map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&doses); err != nil {
		t.Fatalf("Failed to decode doses: %v", err)
	}
	if len(doses) != 1 {
		t.Errorf("Expected 1 dose on the local day, got %d", len(doses))
	}
}

// TestHealthEndpoint tests the health route
func TestHealthEndpoint(t *testing.T) {
	app, _ := setupTestApp(t)

	status, body := doJSON(t, app, "GET", "/api/v1/health", nil)
	if status != 200 {
		t.Fatalf("Expected 200, got %d", status)
	}
	if body["status"] != "healthy" {
		t.Errorf("Expected healthy, got %v", body["status"])
	}
}
