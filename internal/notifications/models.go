package notifications

import (
	"time"

	"gorm.io/datatypes"
)

// Notification types.
const (
	TypeApprovalPending  = "approval_pending"
	TypeMaterialRejected = "material_rejected"
	TypeGeneral          = "general"
)

// Notification is an in-app notification targeted at one user.
type Notification struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	Type      string         `gorm:"not null" json:"type"`
	Title     string         `gorm:"not null" json:"title"`
	Message   string         `gorm:"type:text" json:"message"`
	Metadata  datatypes.JSON `gorm:"type:jsonb" json:"metadata"`
	Read      bool           `gorm:"not null;default:false;index" json:"read"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// PushMessage is the payload pushed to websocket clients.
type PushMessage struct {
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Metadata  datatypes.JSON `json:"metadata,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}
