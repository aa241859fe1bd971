// doses.go
//
// Dose ledger and daily summary routes.

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sjafferali/meditrack/internal/config"
	"github.com/sjafferali/meditrack/internal/services"
	"github.com/sjafferali/meditrack/internal/types"
	"gorm.io/gorm"
)

// DosesHandler handles dose routes
type DosesHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

// recordDoseBody is the optional body for the dated dose endpoint. The
// timezone offset arrives as a number or a string depending on the client.
type recordDoseBody struct {
	Time           string         `json:"time"`
	TimezoneOffset *types.FlexInt `json:"timezone_offset"`
}

// resolveOffset prefers the query parameter, then the body value.
func (b *recordDoseBody) resolveOffset(query *int) *int {
	if query != nil {
		return query
	}
	if b != nil && b.TimezoneOffset != nil {
		v := b.TimezoneOffset.Int()
		return &v
	}
	return nil
}

// RecordDose handles POST /api/v1/medications/:id/dose
// @Summary Record a dose now
// @Description Record a dose taken at the current time, subject to the daily cap
// @Tags Doses
// @Accept json
// @Produce json
// @Param id path int true "Medication ID"
// @Param timezone_offset query int false "Timezone offset in minutes"
// @Success 201 {object} models.Dose
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /medications/{id}/dose [post]
func (h *DosesHandler) RecordDose(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return serviceError(c, err)
	}

	var body recordDoseBody
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return serviceError(c, invalidBodyError())
		}
	}
	offset := body.resolveOffset(parseTimezoneOffset(c))

	dose, err := services.RecordDose(h.DB, id, offset, h.Cfg.TimezoneOffset)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dose)
}

// RecordDoseAt handles POST /api/v1/medications/:id/dose/:date
// @Summary Record a dose for a specific date
// @Description Record a dose at an explicit date and time of day; future dates are rejected
// @Tags Doses
// @Accept json
// @Produce json
// @Param id path int true "Medication ID"
// @Param date path string true "Dose date (YYYY-MM-DD)"
// @Param time query string false "Time of day (HH:MM); may also be sent in the body"
// @Param body body recordDoseBody false "Time of day (HH:MM) and optional timezone offset"
// @Success 201 {object} models.Dose
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /medications/{id}/dose/{date} [post]
func (h *DosesHandler) RecordDoseAt(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return serviceError(c, err)
	}
	date, err := parseDateParam(c, "date")
	if err != nil {
		return serviceError(c, err)
	}

	var body recordDoseBody
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return serviceError(c, invalidBodyError())
		}
	}
	offset := body.resolveOffset(parseTimezoneOffset(c))

	// The time of day can arrive as a query parameter or in the body
	clock := c.Query("time", body.Time)

	dose, err := services.RecordDoseAt(h.DB, id, date, clock, offset, h.Cfg.TimezoneOffset)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dose)
}

// ListDoses handles GET /api/v1/medications/:id/doses
// @Summary List dose history
// @Description Get a medication's dose history, newest first
// @Tags Doses
// @Accept json
// @Produce json
// @Param id path int true "Medication ID"
// @Param skip query int false "Rows to skip"
// @Param limit query int false "Maximum rows to return"
// @Success 200 {array} models.Dose
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /medications/{id}/doses [get]
func (h *DosesHandler) ListDoses(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return serviceError(c, err)
	}
	skip, limit := parseSkipLimit(c)

	doses, err := services.ListDoses(h.DB, id, skip, limit)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(doses)
}

// ListDosesOn handles GET /api/v1/medications/:id/doses/:date
// @Summary List doses for a day
// @Description Get a medication's doses for one calendar day, oldest first
// @Tags Doses
// @Accept json
// @Produce json
// @Param id path int true "Medication ID"
// @Param date path string true "Day (YYYY-MM-DD)"
// @Param timezone_offset query int false "Timezone offset in minutes"
// @Success 200 {array} models.Dose
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /medications/{id}/doses/{date} [get]
func (h *DosesHandler) ListDosesOn(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return serviceError(c, err)
	}
	date, err := parseDateParam(c, "date")
	if err != nil {
		return serviceError(c, err)
	}
	offset := parseTimezoneOffset(c)

	doses, err := services.ListDosesOn(h.DB, id, date, offset, h.Cfg.TimezoneOffset)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(doses)
}

// DeleteDose handles DELETE /api/v1/doses/:id
// @Summary Delete a dose
// @Description Remove one dose from the ledger
// @Tags Doses
// @Accept json
// @Produce json
// @Param id path int true "Dose ID"
// @Success 204
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /doses/{id} [delete]
func (h *DosesHandler) DeleteDose(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return serviceError(c, err)
	}

	if err := services.DeleteDose(h.DB, id); err != nil {
		return serviceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetDailySummary handles GET /api/v1/daily-summary
// @Summary Daily summary for today
// @Description Per-medication dose counts and timestamps for today in the resolved timezone
// @Tags Doses
// @Accept json
// @Produce json
// @Param timezone_offset query int false "Timezone offset in minutes"
// @Success 200 {object} services.DailySummary
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /daily-summary [get]
func (h *DosesHandler) GetDailySummary(c *fiber.Ctx) error {
	offset := parseTimezoneOffset(c)

	summary, err := services.GetDailySummary(h.DB, nil, offset, h.Cfg.TimezoneOffset)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(summary)
}

// GetDailySummaryFor handles GET /api/v1/daily-summary/:date
// @Summary Daily summary for a date
// @Description Per-medication dose counts and timestamps for one calendar day
// @Tags Doses
// @Accept json
// @Produce json
// @Param date path string true "Day (YYYY-MM-DD)"
// @Param timezone_offset query int false "Timezone offset in minutes"
// @Success 200 {object} services.DailySummary
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /daily-summary/{date} [get]
func (h *DosesHandler) GetDailySummaryFor(c *fiber.Ctx) error {
	date, err := parseDateParam(c, "date")
	if err != nil {
		return serviceError(c, err)
	}
	offset := parseTimezoneOffset(c)

	summary, err := services.GetDailySummary(h.DB, &date, offset, h.Cfg.TimezoneOffset)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(summary)
}
