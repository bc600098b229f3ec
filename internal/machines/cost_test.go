package machines

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHourlyCostOverrideWins(t *testing.T) {
	override := int64(15000)
	m := &Machine{
		PurchasePrice:      50000000,
		UsefulLifeHours:    20000,
		WorkingHoursYear:   2000,
		AnnualRent:         1200000,
		HourlyRateOverride: &override,
	}
	assert.Equal(t, int64(15000), HourlyCost(m))
}

func TestHourlyCostAmortization(t *testing.T) {
	// R$500.000,00 machine over 20.000h = R$25,00/h depreciation.
	// R$12.000 + R$6.000 + R$4.000 + R$2.000 per year over 2.000h = R$12,00/h.
	m := &Machine{
		PurchasePrice:     50000000,
		UsefulLifeHours:   20000,
		WorkingHoursYear:  2000,
		AnnualRent:        1200000,
		AnnualElectricity: 600000,
		AnnualMaintenance: 400000,
		AnnualConsumables: 200000,
	}
	assert.Equal(t, int64(3700), HourlyCost(m))
}

func TestHourlyCostZeroDivisors(t *testing.T) {
	m := &Machine{PurchasePrice: 1000000}
	assert.Equal(t, int64(0), HourlyCost(m))
}

func TestHourlyCostRounding(t *testing.T) {
	// 100001 cents over 3 hours of life = 33333.67 -> 33334
	m := &Machine{PurchasePrice: 100001, UsefulLifeHours: 3}
	assert.Equal(t, int64(33334), HourlyCost(m))
}
