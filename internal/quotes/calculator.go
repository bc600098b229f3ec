package quotes

import "math"

// Pure cost arithmetic over integer cents. Rounding happens once per
// computed amount, never on intermediates, to keep totals reproducible.

// ItemCostInput carries the inputs for one quote item computation.
type ItemCostInput struct {
	MachineHourlyCost  int64 // cents/h
	OperatorHourlyCost int64 // cents/h
	MachiningMinutes   int64
	SetupMinutes       int64
	RawMaterialCost    int64 // cents per piece
	Quantity           int64
	ToolingCost        int64 // cents, per batch
	ThirdPartyCost     int64 // cents, per batch
}

// ItemCostResult is the computed cost breakdown of one item.
type ItemCostResult struct {
	TotalMachineCost int64
	TotalLaborCost   int64
	RawMaterialCost  int64
	ItemSubtotal     int64
}

// ComputeItemCost computes an item's cost breakdown. Machine and labor
// costs cover the whole batch (machining plus setup time); only the raw
// material cost scales with quantity.
func ComputeItemCost(in ItemCostInput) ItemCostResult {
	totalHours := float64(in.MachiningMinutes+in.SetupMinutes) / 60.0

	machineCost := int64(math.Round(float64(in.MachineHourlyCost) * totalHours))
	laborCost := int64(math.Round(float64(in.OperatorHourlyCost) * totalHours))

	quantity := in.Quantity
	if quantity < 1 {
		quantity = 1
	}

	subtotal := machineCost + laborCost + in.RawMaterialCost*quantity + in.ToolingCost + in.ThirdPartyCost

	return ItemCostResult{
		TotalMachineCost: machineCost,
		TotalLaborCost:   laborCost,
		RawMaterialCost:  in.RawMaterialCost,
		ItemSubtotal:     subtotal,
	}
}

// RawMaterialCostFromArea converts a material's milli-cents/mm² rate into
// the per-piece cost of a widthMm x lengthMm blank, in cents.
func RawMaterialCostFromArea(costPerMm2MilliCents, widthMm, lengthMm int64) int64 {
	if widthMm <= 0 || lengthMm <= 0 {
		return 0
	}
	area := float64(widthMm * lengthMm)
	return int64(math.Round(float64(costPerMm2MilliCents) * area / 1000.0))
}

// QuoteTotals is the computed price summary of a quote.
type QuoteTotals struct {
	Subtotal     int64
	ProfitAmount int64
	TaxAmount    int64
	FinalPrice   int64
}

// ComputeQuoteTotals sums the item subtotals and applies profit margin
// then tax. Tax is charged on subtotal plus profit.
func ComputeQuoteTotals(itemSubtotals []int64, profitMarginPct, taxRatePct float64) QuoteTotals {
	var subtotal int64
	for _, s := range itemSubtotals {
		subtotal += s
	}
	profit := int64(math.Round(float64(subtotal) * profitMarginPct / 100.0))
	tax := int64(math.Round(float64(subtotal+profit) * taxRatePct / 100.0))
	return QuoteTotals{
		Subtotal:     subtotal,
		ProfitAmount: profit,
		TaxAmount:    tax,
		FinalPrice:   subtotal + profit + tax,
	}
}
