// Package pdfgen renders printable documents. Only invoices for now.
package pdfgen

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/pfotenwerk/backoffice/internal/model"
)

const dateLayout = "02.01.2006"

// Invoice renders an invoice as a single page A4 PDF.
func Invoice(inv *model.Invoice, customer *model.Customer) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr("Rechnung "+inv.InvoiceNumber))
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 5, tr(customer.FirstName+" "+customer.LastName))
	pdf.Ln(5)
	if customer.Street != "" {
		pdf.Cell(0, 5, tr(customer.Street))
		pdf.Ln(5)
	}
	if customer.ZipCode != "" || customer.City != "" {
		pdf.Cell(0, 5, tr(customer.ZipCode+" "+customer.City))
		pdf.Ln(5)
	}
	pdf.Ln(5)

	pdf.Cell(0, 5, tr("Rechnungsdatum: "+inv.IssueDate.Format(dateLayout)))
	pdf.Ln(5)
	pdf.Cell(0, 5, tr("Zahlbar bis: "+inv.DueDate.Format(dateLayout)))
	pdf.Ln(10)

	// Item table
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(90, 7, tr("Beschreibung"), "1", 0, "L", false, 0, "")
	pdf.CellFormat(20, 7, tr("Menge"), "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 7, tr("Einzelpreis"), "1", 0, "R", false, 0, "")
	pdf.CellFormat(15, 7, tr("USt %"), "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, tr("Betrag"), "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range inv.Items {
		pdf.CellFormat(90, 7, tr(item.Description), "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 7, formatQty(item.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, formatEUR(item.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(15, 7, fmt.Sprintf("%.0f", item.TaxRate), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, formatEUR(item.Amount), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(3)
	pdf.CellFormat(155, 6, tr("Zwischensumme"), "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 6, formatEUR(inv.Subtotal), "", 1, "R", false, 0, "")
	pdf.CellFormat(155, 6, tr("Umsatzsteuer"), "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 6, formatEUR(inv.TaxAmount), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(155, 6, tr("Gesamtbetrag"), "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 6, formatEUR(inv.TotalAmount), "", 1, "R", false, 0, "")

	if inv.Notes != "" {
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.MultiCell(0, 5, tr(inv.Notes), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", inv.InvoiceNumber, err)
	}
	return buf.Bytes(), nil
}

func formatEUR(v float64) string {
	return fmt.Sprintf("%.2f EUR", v)
}

func formatQty(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
