package machines

import "time"

// Machine is a workshop machine. All money values are integer cents.
// HourlyRateOverride, when set, replaces the computed hourly cost.
type Machine struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Name               string    `gorm:"not null" json:"name"`
	Type               string    `json:"type"` // torno, fresadora, centro de usinagem...
	PurchasePrice      int64     `gorm:"not null" json:"purchase_price"`
	UsefulLifeHours    int64     `gorm:"not null" json:"useful_life_hours"`
	WorkingHoursYear   int64     `gorm:"not null" json:"working_hours_year"`
	AnnualRent         int64     `json:"annual_rent"`
	AnnualElectricity  int64     `json:"annual_electricity"`
	AnnualMaintenance  int64     `json:"annual_maintenance"`
	AnnualConsumables  int64     `json:"annual_consumables"`
	HourlyRateOverride *int64    `json:"hourly_rate_override"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (Machine) TableName() string {
	return "machines"
}
