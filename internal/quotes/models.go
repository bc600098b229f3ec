package quotes

import "time"

// Quote statuses.
const (
	StatusRascunho = "rascunho"
	StatusEnviado  = "enviado"
	StatusAprovado = "aprovado"
	StatusRecusado = "recusado"
)

// Quote is a cost estimate for a set of machined parts. All money values
// are integer cents; ProfitMarginPct and TaxRatePct are percentages.
type Quote struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	ClientID        *uint       `gorm:"index" json:"client_id"`
	ClientName      string      `gorm:"not null" json:"client_name"`
	Status          string      `gorm:"not null;default:'rascunho'" json:"status"`
	ProfitMarginPct float64     `gorm:"not null" json:"profit_margin_pct"`
	TaxRatePct      float64     `gorm:"not null" json:"tax_rate_pct"`
	Subtotal        int64       `json:"subtotal"`
	ProfitAmount    int64       `json:"profit_amount"`
	TaxAmount       int64       `json:"tax_amount"`
	FinalPrice      int64       `json:"final_price"`
	Notes           string      `gorm:"type:text" json:"notes"`
	Items           []QuoteItem `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

func (Quote) TableName() string {
	return "quotes"
}

// QuoteItem is one machined part within a quote. Machine, labor, tooling
// and third-party costs are per batch; the raw material cost is per piece
// and multiplied by Quantity.
type QuoteItem struct {
	ID                 uint   `gorm:"primaryKey" json:"id"`
	QuoteID            uint   `gorm:"not null;index" json:"quote_id"`
	Description        string `gorm:"not null" json:"description"`
	MachineID          *uint  `json:"machine_id"`
	MaterialID         *uint  `json:"material_id"`
	Quantity           int64  `gorm:"not null;default:1" json:"quantity"`
	WidthMm            int64  `json:"width_mm"`
	LengthMm           int64  `json:"length_mm"`
	MachiningMinutes   int64  `json:"machining_minutes"`
	SetupMinutes       int64  `json:"setup_minutes"`
	ToolingCost        int64  `json:"tooling_cost"`
	ThirdPartyCost     int64  `json:"third_party_cost"`
	MachineHourlyCost  int64  `json:"machine_hourly_cost"`
	OperatorHourlyCost int64  `json:"operator_hourly_cost"`
	TotalMachineCost   int64  `json:"total_machine_cost"`
	TotalLaborCost     int64  `json:"total_labor_cost"`
	RawMaterialCost    int64  `json:"raw_material_cost"`
	ItemSubtotal       int64  `json:"item_subtotal"`
}

func (QuoteItem) TableName() string {
	return "quote_items"
}
