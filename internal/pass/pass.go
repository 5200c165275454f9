// Package pass renders the visitor pass PDF. The layout is fixed: title,
// subtitle, the visitor's details line by line, a verification statement and
// a signature block. Rendering is a pure function of the visitor record, so
// the download and email paths produce byte-identical documents for the same
// input.
package pass

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/gatepass/visitor-management/internal/model"
)

const (
	title    = "Visitor Pass"
	subtitle = "Visitor Management System"

	verificationHeading = "Verification"
	verificationText    = "This document certifies that the visitor mentioned above completed their visit as per the records in our Visitor Management System."
	signatureLine       = "_______________________"
	signatureLabel      = "Authorized Signature"
)

// creationDate is frozen so repeated renders of the same record are
// byte-identical. Compression is disabled for the same reason; it also keeps
// the text streams greppable.
var creationDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Filename returns the attachment name for a pass.
func Filename(visitorNumber int) string {
	return fmt.Sprintf("visitor-%d.pdf", visitorNumber)
}

// Render produces the single-page pass PDF for a visitor. Callers are
// responsible for the status gate; Render itself prints whatever record it
// is given.
func Render(v model.Visitor) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(creationDate)
	pdf.SetCompression(false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 25)
	pdf.CellFormat(0, 12, title, "", 1, "C", false, 0, "")
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 16)
	pdf.CellFormat(0, 8, subtitle, "", 1, "C", false, 0, "")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 12)
	for _, line := range []string{
		fmt.Sprintf("Visitor Number: %d", v.VisitorNumber),
		fmt.Sprintf("Name: %s", v.Username),
		fmt.Sprintf("ID Type: %s", model.IDTypeLabel(v.IDType)),
		fmt.Sprintf("ID Number: %s", v.IDNumber),
		fmt.Sprintf("Vehicle Type: %s", v.VehicleType),
		fmt.Sprintf("Vehicle Number: %s", v.VehicleNumber),
		fmt.Sprintf("Date of Visit: %s", formatVisitDate(v.DateOfVisit)),
		fmt.Sprintf("In Time: %s", v.InTime),
		fmt.Sprintf("Duration: %d minutes", v.Duration),
		fmt.Sprintf("Status: %s", v.Status),
	} {
		pdf.CellFormat(0, 7, line, "", 1, "L", false, 0, "")
	}
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, verificationHeading, "", 1, "C", false, 0, "")
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 12)
	pdf.MultiCell(0, 6, verificationText, "", "L", false)
	pdf.Ln(12)

	pdf.CellFormat(0, 7, signatureLine, "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, signatureLabel, "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pass: %w", err)
	}
	return buf.Bytes(), nil
}

// formatVisitDate prints the visit date the way the pass has always shown
// it: en-US calendar style (M/D/YYYY), no timezone involvement.
func formatVisitDate(d model.Date) string {
	return fmt.Sprintf("%d/%d/%d", int(d.Month()), d.Day(), d.Year())
}
