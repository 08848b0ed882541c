package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Receipt holds the printable fields of a fee payment.
type Receipt struct {
	PaymentID   string
	Reference   string
	LicenseType string
	Amount      int
	CardHolder  string
	CardLast4   string
	PaidAt      time.Time
}

// RenderReceipt draws a single page payment receipt.
func RenderReceipt(r Receipt) ([]byte, error) {
	if r.PaymentID == "" {
		return nil, fmt.Errorf("receipt requires a payment id")
	}
	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(12, 15, 12)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "Driving License Portal", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 8, "Payment Receipt", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	lines := [][2]string{
		{"Receipt No.", r.PaymentID},
		{"Fee", r.LicenseType},
		{"Reference", r.Reference},
		{"Amount", fmt.Sprintf("Rs. %d.00", r.Amount)},
		{"Card Holder", r.CardHolder},
		{"Card", "**** **** **** " + r.CardLast4},
		{"Paid At", r.PaidAt.UTC().Format("2006-01-02 15:04 MST")},
	}
	for _, line := range lines {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(40, 8, line[0], "B", 0, "", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 8, line[1], "B", 1, "", false, 0, "")
	}

	pdf.Ln(8)
	pdf.SetFont("Arial", "I", 8)
	pdf.MultiCell(0, 5, "This is a system generated receipt for a simulated payment.", "", "C", false)

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return buf.Bytes(), nil
}
