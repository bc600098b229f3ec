package machines

import "math"

// HourlyCost returns the machine's cost per hour in cents.
// A manual override wins; otherwise the cost is the sum of per-hour
// amortizations: depreciation over the useful life plus rent, electricity,
// maintenance and consumables spread over the working hours per year.
func HourlyCost(m *Machine) int64 {
	if m.HourlyRateOverride != nil {
		return *m.HourlyRateOverride
	}

	var total float64
	if m.UsefulLifeHours > 0 {
		total += float64(m.PurchasePrice) / float64(m.UsefulLifeHours)
	}
	if m.WorkingHoursYear > 0 {
		perYear := float64(m.AnnualRent + m.AnnualElectricity + m.AnnualMaintenance + m.AnnualConsumables)
		total += perYear / float64(m.WorkingHoursYear)
	}
	return int64(math.Round(total))
}
