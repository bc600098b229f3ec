package materials

import (
	"math"
	"time"
)

// Material is a raw material sheet in the catalog. PurchasePrice is in
// cents; CostPerMm2 is stored in milli-cents per mm² so small per-area
// costs survive integer storage. Consumers divide the factor back out.
type Material struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"not null" json:"name"`
	Supplier      string    `json:"supplier"`
	PurchasePrice int64     `gorm:"not null" json:"purchase_price"`
	WidthMm       int64     `gorm:"not null" json:"width_mm"`
	LengthMm      int64     `gorm:"not null" json:"length_mm"`
	CostPerMm2    int64     `json:"cost_per_mm2"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Material) TableName() string {
	return "materials"
}

// CostPerMm2Factor converts between milli-cents/mm² and cents/mm².
const CostPerMm2Factor = 1000

// ComputeCostPerMm2 returns the sheet cost per mm² in milli-cents.
func ComputeCostPerMm2(purchasePrice, widthMm, lengthMm int64) int64 {
	area := widthMm * lengthMm
	if area <= 0 {
		return 0
	}
	return int64(math.Round(float64(purchasePrice) * CostPerMm2Factor / float64(area)))
}
