package settings

import "time"

// WorkshopSettings is a singleton row holding workshop-wide defaults used
// by the quote calculator. Money values are integer cents; margins and
// rates are percentages.
type WorkshopSettings struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	OperatorHourlyRate int64     `gorm:"not null;default:0" json:"operator_hourly_rate"`
	DefaultProfitPct   float64   `gorm:"not null;default:20" json:"default_profit_pct"`
	DefaultTaxPct      float64   `gorm:"not null;default:10" json:"default_tax_pct"`
	Currency           string    `gorm:"not null;default:'BRL'" json:"currency"`
	WorkshopName       string    `json:"workshop_name"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (WorkshopSettings) TableName() string {
	return "workshop_settings"
}
