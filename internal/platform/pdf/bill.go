// Package pdf renders printable bill documents.
package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

// BillDocument carries everything the printed bill shows. Amounts arrive
// pre-formatted so the renderer stays ignorant of money handling.
type BillDocument struct {
	BillID      int64
	Status      string
	Notes       string
	Total       string
	PatientName string
	PatientAge  int
	Gender      string
	VisitDate   time.Time
	Diagnosis   string
	Fee         string
	DoctorName  string
	CreatedAt   time.Time
}

// Renderer produces the PDF bytes for a bill.
type Renderer interface {
	Render(doc BillDocument) ([]byte, error)
}

// FPDF renders bills with the fpdf drawing primitives.
type FPDF struct {
	ClinicName string
}

// NewRenderer returns a bill renderer with the given clinic letterhead.
func NewRenderer(clinicName string) *FPDF {
	if clinicName == "" {
		clinicName = "OPD Clinic"
	}
	return &FPDF{ClinicName: clinicName}
}

// Render draws the bill onto a single A4 page.
func (r *FPDF) Render(doc BillDocument) ([]byte, error) {
	p := fpdf.New("P", "mm", "A4", "")
	p.SetTitle(fmt.Sprintf("Bill %d", doc.BillID), false)
	p.AddPage()

	p.SetFont("Helvetica", "B", 18)
	p.CellFormat(0, 10, r.ClinicName, "", 1, "C", false, 0, "")
	p.SetFont("Helvetica", "", 11)
	p.CellFormat(0, 6, "Outpatient Department Bill", "", 1, "C", false, 0, "")
	p.Ln(6)

	p.SetFont("Helvetica", "B", 12)
	p.CellFormat(0, 8, fmt.Sprintf("Bill No. %d", doc.BillID), "", 1, "L", false, 0, "")
	p.SetFont("Helvetica", "", 11)
	p.CellFormat(0, 6, "Date: "+doc.CreatedAt.Format("02 Jan 2006"), "", 1, "L", false, 0, "")
	p.Ln(4)

	row := func(label, value string) {
		p.SetFont("Helvetica", "B", 11)
		p.CellFormat(50, 7, label, "1", 0, "L", false, 0, "")
		p.SetFont("Helvetica", "", 11)
		p.CellFormat(0, 7, value, "1", 1, "L", false, 0, "")
	}

	row("Patient", doc.PatientName)
	row("Age / Gender", fmt.Sprintf("%d / %s", doc.PatientAge, doc.Gender))
	row("Attending doctor", "Dr. "+doc.DoctorName)
	row("Visit date", doc.VisitDate.Format("02 Jan 2006"))
	row("Diagnosis", doc.Diagnosis)
	p.Ln(6)

	row("Consultation fee", doc.Fee)
	row("Total", doc.Total)
	row("Status", doc.Status)
	if doc.Notes != "" {
		p.Ln(4)
		p.SetFont("Helvetica", "I", 10)
		p.MultiCell(0, 5, "Notes: "+doc.Notes, "", "L", false)
	}

	p.Ln(10)
	p.SetFont("Helvetica", "I", 9)
	p.CellFormat(0, 5, "This is a computer-generated bill and needs no signature.", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := p.Output(&buf); err != nil {
		return nil, fmt.Errorf("render bill %d: %w", doc.BillID, err)
	}
	return buf.Bytes(), nil
}
