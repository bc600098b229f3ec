package quotes

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// ExportPDF writes a quote as a PDF document to w.
func ExportPDF(quote *Quote, w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, fmt.Sprintf("Orcamento #%d", quote.ID), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Cliente: %s", quote.ClientName), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Status: %s", quote.Status), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(68, 114, 196)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(80, 8, "Descricao", "1", 0, "L", true, 0, "")
	pdf.CellFormat(20, 8, "Qtd", "1", 0, "R", true, 0, "")
	pdf.CellFormat(45, 8, "Custo unit.", "1", 0, "R", true, 0, "")
	pdf.CellFormat(45, 8, "Subtotal", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	for _, item := range quote.Items {
		unit := item.ItemSubtotal
		if item.Quantity > 0 {
			unit = item.ItemSubtotal / item.Quantity
		}
		pdf.CellFormat(80, 7, item.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 7, fmt.Sprintf("%d", item.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(45, 7, formatReais(unit), "1", 0, "R", false, 0, "")
		pdf.CellFormat(45, 7, formatReais(item.ItemSubtotal), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(145, 7, "Subtotal", "", 0, "R", false, 0, "")
	pdf.CellFormat(45, 7, formatReais(quote.Subtotal), "", 1, "R", false, 0, "")
	pdf.CellFormat(145, 7, fmt.Sprintf("Lucro (%.1f%%)", quote.ProfitMarginPct), "", 0, "R", false, 0, "")
	pdf.CellFormat(45, 7, formatReais(quote.ProfitAmount), "", 1, "R", false, 0, "")
	pdf.CellFormat(145, 7, fmt.Sprintf("Impostos (%.1f%%)", quote.TaxRatePct), "", 0, "R", false, 0, "")
	pdf.CellFormat(45, 7, formatReais(quote.TaxAmount), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(145, 9, "Total", "", 0, "R", false, 0, "")
	pdf.CellFormat(45, 9, formatReais(quote.FinalPrice), "", 1, "R", false, 0, "")

	return pdf.Output(w)
}

func formatReais(cents int64) string {
	return fmt.Sprintf("R$ %.2f", float64(cents)/100.0)
}
