package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"fieldservice/internal/models"
)

// ReportGenerator renders a unit's merged history timeline as a PDF.
type ReportGenerator struct{}

func NewReportGenerator() *ReportGenerator {
	return &ReportGenerator{}
}

func (g *ReportGenerator) UnitHistory(unit *models.Unit, entries []models.UnitHistoryEntry) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetMargins(15, 15, 15)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 16)
	doc.Cell(0, 10, "Unit history report")
	doc.Ln(12)

	doc.SetFont("Helvetica", "", 11)
	doc.Cell(0, 6, fmt.Sprintf("Unit: %s (serial %s)", unit.Name, unit.SerialNumber))
	doc.Ln(6)
	doc.Cell(0, 6, fmt.Sprintf("Location: %s", unit.Location))
	doc.Ln(10)

	doc.SetFont("Helvetica", "B", 10)
	doc.CellFormat(35, 7, "Date", "1", 0, "", false, 0, "")
	doc.CellFormat(35, 7, "Type", "1", 0, "", false, 0, "")
	doc.CellFormat(110, 7, "Description", "1", 0, "", false, 0, "")
	doc.Ln(-1)

	doc.SetFont("Helvetica", "", 9)
	for _, e := range entries {
		doc.CellFormat(35, 6, e.Date.Format("2006-01-02 15:04"), "1", 0, "", false, 0, "")
		doc.CellFormat(35, 6, e.Type, "1", 0, "", false, 0, "")
		desc := e.Description
		if len(desc) > 70 {
			desc = desc[:67] + "..."
		}
		doc.CellFormat(110, 6, desc, "1", 0, "", false, 0, "")
		doc.Ln(-1)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render history report: %w", err)
	}
	return buf.Bytes(), nil
}
