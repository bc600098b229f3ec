package procurement

import (
	"time"
)

// Audit actions recorded in material_approvals.
const (
	ActionApproved  = "approved"
	ActionRejected  = "rejected"
	ActionPurchased = "purchased"
	ActionReceived  = "received"
)

// ProjectMaterial is a procurement request line item. Money is integer
// cents. Status only changes through the approval workflow; non-status
// fields are editable only while the request is pending.
type ProjectMaterial struct {
	ID                       uint       `gorm:"primaryKey" json:"id"`
	ProjectID                uint       `gorm:"not null;index" json:"project_id"`
	ItemName                 string     `gorm:"not null" json:"item_name"`
	Quantity                 int64      `gorm:"not null" json:"quantity"`
	Unit                     string     `json:"unit"`
	UnitPrice                int64      `json:"unit_price"`
	Supplier                 string     `json:"supplier"`
	RequestingSector         string     `json:"requesting_sector"`
	ApprovalStatus           string     `gorm:"not null;default:'pending';index" json:"approval_status"`
	RecommendedQuotationID   *uint      `json:"recommended_quotation_id"`
	PurchaseDate             *time.Time `json:"purchase_date"`
	ExpectedDeliveryDate     *time.Time `json:"expected_delivery_date"`
	ReceivedDate             *time.Time `json:"received_date"`
	ReceivedBy               string     `json:"received_by"`
	RequestedByID            *uint      `gorm:"index" json:"requested_by_id"`

	Approvals  []MaterialApproval  `gorm:"foreignKey:MaterialID" json:"approvals,omitempty"`
	Quotations []MaterialQuotation `gorm:"foreignKey:MaterialID" json:"quotations,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ProjectMaterial) TableName() string {
	return "project_materials"
}

// MaterialApproval is one immutable audit record of a workflow transition.
// Rows are only ever inserted.
type MaterialApproval struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	MaterialID   uint      `gorm:"not null;index" json:"material_id"`
	ApproverID   uint      `gorm:"not null" json:"approver_id"`
	ApproverName string    `gorm:"not null" json:"approver_name"`
	ApproverRole string    `gorm:"not null" json:"approver_role"`
	Action       string    `gorm:"not null" json:"action"`
	FromStatus   string    `gorm:"not null" json:"from_status"`
	ToStatus     string    `gorm:"not null" json:"to_status"`
	Comments     string    `gorm:"type:text" json:"comments"`
	CreatedAt    time.Time `json:"created_at"`
}

func (MaterialApproval) TableName() string {
	return "material_approvals"
}

// MaterialQuotation is a supplier quote for a material request. At most
// one quotation per material carries IsRecommended.
type MaterialQuotation struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	MaterialID    uint      `gorm:"not null;index" json:"material_id"`
	SupplierName  string    `gorm:"not null" json:"supplier_name"`
	QuotedPrice   int64     `gorm:"not null" json:"quoted_price"`
	DeliveryDays  int       `json:"delivery_days"`
	PaymentTerms  string    `json:"payment_terms"`
	Notes         string    `gorm:"type:text" json:"notes"`
	IsRecommended bool      `gorm:"not null;default:false" json:"is_recommended"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (MaterialQuotation) TableName() string {
	return "material_quotations"
}
