package auth

import (
	"time"

	"github.com/google/uuid"
)

// User is an application login account. A user may be linked to a team
// member, which carries the hierarchy level used by the approval workflow.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"not null;default:'user'" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// PasswordResetToken is a single-use, time-limited token emailed to users.
type PasswordResetToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Token     uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"-"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Used      bool      `gorm:"not null;default:false" json:"used"`
	CreatedAt time.Time `json:"created_at"`
}

func (PasswordResetToken) TableName() string {
	return "password_reset_tokens"
}

// Context is the per-request authorization context resolved once by the
// middleware: the authenticated user plus the linked team member, if any.
type Context struct {
	UserID         uint
	Name           string
	Email          string
	Role           string
	TeamMemberID   uint
	HierarchyLevel string
}

// HasTeamMember reports whether the caller is linked to a team member.
func (c *Context) HasTeamMember() bool {
	return c.TeamMemberID != 0
}
