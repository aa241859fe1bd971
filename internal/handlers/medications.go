// medications.go
//
// Medication catalog routes.

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sjafferali/meditrack/internal/config"
	"github.com/sjafferali/meditrack/internal/services"
	"gorm.io/gorm"
)

// MedicationsHandler handles medication routes
type MedicationsHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

// ListMedications handles GET /api/v1/medications
// @Summary List medications
// @Description Get medications with dose counts for the resolved day, optionally filtered by person
// @Tags Medications
// @Accept json
// @Produce json
// @Param person_id query int false "Filter by person"
// @Param date query string false "Aggregation date (YYYY-MM-DD), defaults to today"
// @Param timezone_offset query int false "Timezone offset in minutes"
// @Param skip query int false "Rows to skip"
// @Param limit query int false "Maximum rows to return"
// @Success 200 {array} services.MedicationWithDoses
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /medications [get]
func (h *MedicationsHandler) ListMedications(c *fiber.Ctx) error {
	skip, limit := parseSkipLimit(c)
	personID := parsePersonID(c)
	offset := parseTimezoneOffset(c)

	date, err := parseDateQuery(c)
	if err != nil {
		return serviceError(c, err)
	}

	medications, err := services.ListMedications(h.DB, personID, date, offset, h.Cfg.TimezoneOffset, skip, limit)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(medications)
}

// GetMedication handles GET /api/v1/medications/:id
// @Summary Get a medication
// @Description Get one medication with dose counts for the resolved day
// @Tags Medications
// @Accept json
// @Produce json
// @Param id path int true "Medication ID"
// @Param date query string false "Aggregation date (YYYY-MM-DD), defaults to today"
// @Param timezone_offset query int false "Timezone offset in minutes"
// @Success 200 {object} services.MedicationWithDoses
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /medications/{id} [get]
func (h *MedicationsHandler) GetMedication(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return serviceError(c, err)
	}
	offset := parseTimezoneOffset(c)
	date, err := parseDateQuery(c)
	if err != nil {
		return serviceError(c, err)
	}

	medication, err := services.GetMedication(h.DB, id, date, offset, h.Cfg.TimezoneOffset)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(medication)
}

// CreateMedication handles POST /api/v1/medications
// @Summary Create a medication
// @Description Create a medication for a person
// @Tags Medications
// @Accept json
// @Produce json
// @Param medication body services.MedicationInput true "Medication fields"
// @Success 201 {object} models.Medication
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /medications [post]
func (h *MedicationsHandler) CreateMedication(c *fiber.Ctx) error {
	var input services.MedicationInput
	if err := c.BodyParser(&input); err != nil {
		return serviceError(c, invalidBodyError())
	}

	medication, err := services.CreateMedication(h.DB, input)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(medication)
}

// UpdateMedication handles PUT /api/v1/medications/:id
// @Summary Update a medication
// @Description Update the supplied medication fields
// @Tags Medications
// @Accept json
// @Produce json
// @Param id path int true "Medication ID"
// @Param medication body services.MedicationUpdateInput true "Fields to update"
// @Success 200 {object} models.Medication
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /medications/{id} [put]
func (h *MedicationsHandler) UpdateMedication(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return serviceError(c, err)
	}

	var input services.MedicationUpdateInput
	if err := c.BodyParser(&input); err != nil {
		return serviceError(c, invalidBodyError())
	}

	medication, err := services.UpdateMedication(h.DB, id, input)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(medication)
}

// DeleteMedication handles DELETE /api/v1/medications/:id
// @Summary Delete a medication
// @Description Delete a medication, preserving its dose history by name
// @Tags Medications
// @Accept json
// @Produce json
// @Param id path int true "Medication ID"
// @Success 204
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /medications/{id} [delete]
func (h *MedicationsHandler) DeleteMedication(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return serviceError(c, err)
	}

	if err := services.DeleteMedication(h.DB, id); err != nil {
		return serviceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
