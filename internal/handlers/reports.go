// reports.go
//
// Printable report routes.

package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sjafferali/meditrack/internal/config"
	"github.com/sjafferali/meditrack/internal/reports"
	"github.com/sjafferali/meditrack/internal/services"
	"gorm.io/gorm"
)

// ReportsHandler handles report routes
type ReportsHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

// MedicationTrackingPDF handles GET /api/v1/reports/medications/pdf/:date
// @Summary Medication tracking form PDF
// @Description Generate a printable tracking form starting at the given date
// @Tags Reports
// @Accept json
// @Produce application/pdf
// @Param date path string true "Start date (YYYY-MM-DD)"
// @Param days query int false "Number of days (1-7)"
// @Param person_id query int false "Limit to one person's medications"
// @Param timezone_offset query int false "Timezone offset in minutes"
// @Success 200 {file} binary
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /reports/medications/pdf/{date} [get]
func (h *ReportsHandler) MedicationTrackingPDF(c *fiber.Ctx) error {
	date, err := parseDateParam(c, "date")
	if err != nil {
		return serviceError(c, err)
	}
	days := c.QueryInt("days", 1)
	personID := parsePersonID(c)
	offset := parseTimezoneOffset(c)

	form, err := services.BuildTrackingForm(h.DB, date, days, personID, offset, h.Cfg.TimezoneOffset)
	if err != nil {
		return serviceError(c, err)
	}

	pdfBytes, err := reports.Render(reports.TrackingForm{
		Title:       form.Title,
		Dates:       form.Dates,
		Medications: form.Medications,
		GeneratedAt: form.GeneratedAt,
	})
	if err != nil {
		return serviceError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="medication_tracking_%s.pdf"`, date.Format("2006-01-02")))
	return c.Status(fiber.StatusOK).Send(pdfBytes)
}
