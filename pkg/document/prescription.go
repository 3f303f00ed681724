// Package document renders patient-facing documents as PDF.
package document

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

// Medicine is one line of a prescription.
type Medicine struct {
	Name string
	Dose string
	Tip  string
}

// PrescriptionData is everything printed on a prescription.
type PrescriptionData struct {
	PatientName string
	DoctorName  string
	IssuedAt    time.Time
	Medicines   []Medicine
}

// PDFRenderer renders prescriptions with fpdf core fonts.
type PDFRenderer struct {
	clinicName string
}

func NewPDFRenderer(clinicName string) *PDFRenderer {
	return &PDFRenderer{clinicName: clinicName}
}

// RenderPrescription returns the PDF bytes for a single prescription.
func (r *PDFRenderer) RenderPrescription(data PrescriptionData) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Prescription", true)
	pdf.SetCreator(r.clinicName, true)
	pdf.SetCreationDate(data.IssuedAt)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Prescription", "", 1, "C", false, 0, "")
	if r.clinicName != "" {
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 6, tr(r.clinicName), "", 1, "C", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 14)
	pdf.CellFormat(0, 8, tr("Patient Name: "+data.PatientName), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, tr("Doctor Name: "+data.DoctorName), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, "Date: "+data.IssuedAt.Format("Jan 2, 2006"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "Prescription Details:", "", 1, "L", false, 0, "")

	if len(data.Medicines) == 0 {
		pdf.SetFont("Helvetica", "", 12)
		pdf.CellFormat(0, 8, "No details provided.", "", 1, "L", false, 0, "")
	} else {
		writeMedicineTable(pdf, tr, data.Medicines)
	}

	if pdf.Err() {
		return nil, fmt.Errorf("rendering prescription: %w", pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing prescription pdf: %w", err)
	}
	return buf.Bytes(), nil
}

const medicineLineHeight = 6

func writeMedicineTable(pdf *fpdf.Fpdf, tr func(string) string, medicines []Medicine) {
	widths := []float64{10, 60, 50, 70}
	headers := []string{"#", "Medicine", "Dose", "Tip"}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 11)
	left, _, _, bottom := pdf.GetMargins()
	_, pageHeight := pdf.GetPageSize()
	for i, m := range medicines {
		row := []string{fmt.Sprintf("%d", i+1), tr(m.Name), tr(m.Dose), tr(m.Tip)}
		height := rowHeight(pdf, row, widths)
		if pdf.GetY()+height > pageHeight-bottom {
			pdf.AddPage()
		}

		x, y := pdf.GetXY()
		for j, cell := range row {
			pdf.Rect(x, y, widths[j], height, "D")
			pdf.SetXY(x, y)
			pdf.MultiCell(widths[j], medicineLineHeight, cell, "", "L", false)
			x += widths[j]
		}
		pdf.SetXY(left, y+height)
	}
}

// rowHeight is the height of the tallest cell once each is wrapped to its column.
// Cells are already translated to the core font code page, so they are split as bytes.
func rowHeight(pdf *fpdf.Fpdf, row []string, widths []float64) float64 {
	lines := 1
	for j, cell := range row {
		if n := len(pdf.SplitLines([]byte(cell), widths[j])); n > lines {
			lines = n
		}
	}
	return float64(lines) * medicineLineHeight
}
