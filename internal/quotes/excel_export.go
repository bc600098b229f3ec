package quotes

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ExportExcel writes a quote as an .xlsx workbook to w.
func ExportExcel(quote *Quote, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Orçamento"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	f.SetCellValue(sheet, "A1", fmt.Sprintf("Orçamento #%d", quote.ID))
	f.SetCellValue(sheet, "A2", fmt.Sprintf("Cliente: %s", quote.ClientName))
	f.SetCellValue(sheet, "A3", fmt.Sprintf("Status: %s", quote.Status))

	headers := []string{"Descrição", "Qtd", "Custo máquina", "Custo mão de obra", "Matéria-prima", "Ferramental", "Terceiros", "Subtotal"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 5)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	row := 6
	for _, item := range quote.Items {
		values := []interface{}{
			item.Description,
			item.Quantity,
			centsToReais(item.TotalMachineCost),
			centsToReais(item.TotalLaborCost),
			centsToReais(item.RawMaterialCost * item.Quantity),
			centsToReais(item.ToolingCost),
			centsToReais(item.ThirdPartyCost),
			centsToReais(item.ItemSubtotal),
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			f.SetCellValue(sheet, cell, v)
		}
		row++
	}

	row++
	f.SetCellValue(sheet, fmt.Sprintf("G%d", row), "Subtotal")
	f.SetCellValue(sheet, fmt.Sprintf("H%d", row), centsToReais(quote.Subtotal))
	row++
	f.SetCellValue(sheet, fmt.Sprintf("G%d", row), fmt.Sprintf("Lucro (%.1f%%)", quote.ProfitMarginPct))
	f.SetCellValue(sheet, fmt.Sprintf("H%d", row), centsToReais(quote.ProfitAmount))
	row++
	f.SetCellValue(sheet, fmt.Sprintf("G%d", row), fmt.Sprintf("Impostos (%.1f%%)", quote.TaxRatePct))
	f.SetCellValue(sheet, fmt.Sprintf("H%d", row), centsToReais(quote.TaxAmount))
	row++
	f.SetCellValue(sheet, fmt.Sprintf("G%d", row), "Total")
	f.SetCellValue(sheet, fmt.Sprintf("H%d", row), centsToReais(quote.FinalPrice))

	f.SetColWidth(sheet, "A", "A", 40)
	f.SetColWidth(sheet, "B", "H", 16)

	return f.Write(w)
}

func centsToReais(cents int64) float64 {
	return float64(cents) / 100.0
}
