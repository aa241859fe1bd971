// pdf.go
//
// Printable medication tracking form, letter size with 0.75 inch margins.
// One section per requested day, one heading and blank time-slot grid per
// medication, page numbers on every page.

package reports

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/sjafferali/meditrack/internal/models"
)

const (
	margin       = 0.75 // inches
	slotsPerRow  = 3
	slotHeight   = 0.4
	headingH     = 0.3
	lineH        = 0.18
	footerOffset = 0.5
)

// TrackingForm describes one printable medication log.
type TrackingForm struct {
	Title       string
	Dates       []time.Time
	Medications []models.Medication
	GeneratedAt time.Time
}

// Render lays out the tracking form and returns the PDF bytes.
func Render(form TrackingForm) ([]byte, error) {
	pdf := fpdf.New("P", "in", "Letter", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)

	pdf.SetHeaderFunc(func() {
		// Title and a handwriting line for the date on the first page only.
		if pdf.PageNo() != 1 {
			return
		}
		pdf.SetFont("Helvetica", "B", 16)
		pdf.CellFormat(4.5, headingH, form.Title, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 12)
		pdf.CellFormat(0, headingH, "Date: ____________________", "", 1, "R", false, 0, "")
		pdf.Ln(0.1)
	})

	pdf.SetFooterFunc(func() {
		pdf.SetY(-footerOffset)
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 0.25, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()

	pageWidth, _ := pdf.GetPageSize()
	contentWidth := pageWidth - 2*margin
	colWidth := contentWidth / slotsPerRow

	for _, date := range form.Dates {
		if len(form.Dates) > 1 {
			pdf.SetFont("Helvetica", "B", 14)
			pdf.CellFormat(0, headingH, date.Format("Monday, January 2, 2006"), "", 1, "L", false, 0, "")
			pdf.Ln(0.05)
		}

		for _, medication := range form.Medications {
			writeMedicationSection(pdf, medication, colWidth)
		}
	}

	pdf.Ln(0.3)
	pdf.SetFont("Helvetica", "", 9)
	footer := fmt.Sprintf(
		"Instructions: Record the time when each dose is taken in the blank spaces provided. Generated: %s",
		form.GeneratedAt.Format("2006-01-02 15:04:05"),
	)
	pdf.MultiCell(0, 0.16, footer, "", "C", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render tracking form: %w", err)
	}
	return buf.Bytes(), nil
}

func writeMedicationSection(pdf *fpdf.Fpdf, medication models.Medication, colWidth float64) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, headingH, fmt.Sprintf("%s %s", medication.Name, medication.Dosage), "", 1, "L", false, 0, "")

	instructions := "No specific instructions provided"
	if medication.Instructions != nil && *medication.Instructions != "" {
		instructions = *medication.Instructions
	}
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, lineH, instructions, "", "L", false)

	// One blank slot per allowed dose, three to a row.
	pdf.SetFont("Helvetica", "", 10)
	for slot := 1; slot <= medication.MaxDosesPerDay; slot++ {
		ln := 0
		if slot%slotsPerRow == 0 || slot == medication.MaxDosesPerDay {
			ln = 1
		}
		pdf.CellFormat(colWidth, slotHeight, fmt.Sprintf("%d: _______________ (AM/PM)", slot), "", ln, "L", false, 0, "")
	}
	pdf.Ln(0.1)
}
