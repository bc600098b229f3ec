package team

import (
	"time"
)

// Member is a workshop team member. HierarchyLevel gates which procurement
// approval transitions the member may perform.
type Member struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"not null" json:"name"`
	Email          string    `gorm:"uniqueIndex;not null" json:"email"`
	HierarchyLevel string    `gorm:"not null;default:'colaborador'" json:"hierarchy_level"`
	Sector         string    `json:"sector"`
	Phone          string    `json:"phone"`
	UserID         *uint     `gorm:"index" json:"user_id"`
	Active         bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Member) TableName() string {
	return "team_members"
}
