package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// Invoice is the content of a payment receipt.
type Invoice struct {
	Number        string
	IssuedOn      string
	StudentID     string
	StudentName   string
	InstallmentID string
	DueDate       string
	PaymentDate   string
	PaymentMethod string
	Amount        string
	Currency      string
}

// RenderInvoice lays out a single page receipt.
func RenderInvoice(inv Invoice) ([]byte, error) {
	if inv.Number == "" {
		return nil, fmt.Errorf("invoice number required")
	}
	pdf := gofpdf.New(Portrait, "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 12, "INVOICE", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, tr("No. "+inv.Number), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr("Issued "+inv.IssuedOn), "", 1, "L", false, 0, "")
	pdf.Ln(8)

	rows := [][2]string{
		{"Student", fmt.Sprintf("%s (%s)", inv.StudentName, inv.StudentID)},
		{"Installment", inv.InstallmentID},
		{"Due date", inv.DueDate},
		{"Payment date", inv.PaymentDate},
		{"Payment method", inv.PaymentMethod},
	}
	for _, r := range rows {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(50, 8, r[0], "1", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 8, tr(r[1]), "1", 1, "L", false, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(50, 10, "Amount paid", "1", 0, "L", false, 0, "")
	pdf.CellFormat(0, 10, tr(inv.Amount+" "+inv.Currency), "1", 1, "R", false, 0, "")

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render invoice: %w", err)
	}
	return buf.Bytes(), nil
}
