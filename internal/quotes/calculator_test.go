package quotes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeItemCost(t *testing.T) {
	// 90min machining + 30min setup = 2h.
	// Machine R$50,00/h -> R$100,00; operator R$30,00/h -> R$60,00.
	// Raw material R$12,00 x 5 pieces = R$60,00; tooling R$20,00; third party R$15,00.
	result := ComputeItemCost(ItemCostInput{
		MachineHourlyCost:  5000,
		OperatorHourlyCost: 3000,
		MachiningMinutes:   90,
		SetupMinutes:       30,
		RawMaterialCost:    1200,
		Quantity:           5,
		ToolingCost:        2000,
		ThirdPartyCost:     1500,
	})

	assert.Equal(t, int64(10000), result.TotalMachineCost)
	assert.Equal(t, int64(6000), result.TotalLaborCost)
	assert.Equal(t, int64(10000+6000+1200*5+2000+1500), result.ItemSubtotal)
}

func TestComputeItemCostBatchCostsNotMultiplied(t *testing.T) {
	one := ComputeItemCost(ItemCostInput{
		MachineHourlyCost: 6000,
		MachiningMinutes:  60,
		RawMaterialCost:   1000,
		Quantity:          1,
		ToolingCost:       5000,
	})
	ten := ComputeItemCost(ItemCostInput{
		MachineHourlyCost: 6000,
		MachiningMinutes:  60,
		RawMaterialCost:   1000,
		Quantity:          10,
		ToolingCost:       5000,
	})

	// Only the raw material portion grows with quantity.
	assert.Equal(t, one.TotalMachineCost, ten.TotalMachineCost)
	assert.Equal(t, one.ItemSubtotal+1000*9, ten.ItemSubtotal)
}

func TestComputeItemCostZeroQuantityTreatedAsOne(t *testing.T) {
	result := ComputeItemCost(ItemCostInput{RawMaterialCost: 700, Quantity: 0})
	assert.Equal(t, int64(700), result.ItemSubtotal)
}

func TestRawMaterialCostFromArea(t *testing.T) {
	// 125 milli-cents/mm² * 200x100mm = 125 * 20000 / 1000 = 2500 cents.
	assert.Equal(t, int64(2500), RawMaterialCostFromArea(125, 200, 100))
	assert.Equal(t, int64(0), RawMaterialCostFromArea(125, 0, 100))
}

func TestComputeQuoteTotals(t *testing.T) {
	// Subtotal R$1.000,00; 20% profit = R$200,00; 10% tax on R$1.200,00 = R$120,00.
	totals := ComputeQuoteTotals([]int64{60000, 40000}, 20, 10)

	assert.Equal(t, int64(100000), totals.Subtotal)
	assert.Equal(t, int64(20000), totals.ProfitAmount)
	assert.Equal(t, int64(12000), totals.TaxAmount)
	assert.Equal(t, int64(132000), totals.FinalPrice)
}

func TestComputeQuoteTotalsRounding(t *testing.T) {
	// 333 cents * 15% = 49.95 -> 50; (333+50) * 7% = 26.81 -> 27.
	totals := ComputeQuoteTotals([]int64{333}, 15, 7)

	assert.Equal(t, int64(50), totals.ProfitAmount)
	assert.Equal(t, int64(27), totals.TaxAmount)
	assert.Equal(t, int64(410), totals.FinalPrice)
}
