package projects

import (
	"time"

	"usinahub/usinahub-backend/internal/team"
)

// Project lifecycle phases, in fixed order. The project phase only moves
// forward (see CheckAndAdvancePhase); it never regresses automatically.
const (
	PhasePlanejamento    = "planejamento"
	PhaseDesenvolvimento = "desenvolvimento"
	PhaseTestes          = "testes"
	PhaseEntrega         = "entrega"
	PhaseFinalizado      = "finalizado"
)

// PhaseOrder is the canonical phase sequence.
var PhaseOrder = []string{
	PhasePlanejamento,
	PhaseDesenvolvimento,
	PhaseTestes,
	PhaseEntrega,
	PhaseFinalizado,
}

// Project statuses.
const (
	StatusAtivo     = "ativo"
	StatusPausado   = "pausado"
	StatusConcluido = "concluido"
	StatusCancelado = "cancelado"
)

// Project is a machining project. Budget is integer cents.
type Project struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	ClientID    *uint           `gorm:"index" json:"client_id"`
	LeaderID    *uint           `gorm:"index" json:"leader_id"`
	Phase       string          `gorm:"not null;default:'planejamento'" json:"phase"`
	Status      string          `gorm:"not null;default:'ativo'" json:"status"`
	StartDate   *time.Time      `json:"start_date"`
	EndDate     *time.Time      `json:"end_date"`
	Budget      int64           `json:"budget"`
	Members     []team.Member   `gorm:"many2many:project_members" json:"members,omitempty"`
	Activities  []PhaseActivity `gorm:"foreignKey:ProjectID" json:"activities,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (Project) TableName() string {
	return "projects"
}

// PhaseActivity is a task scoped to one project phase. When the activity
// has subtasks, its dates and progress are derived from them; with zero
// subtasks the user sets progress and completion directly.
type PhaseActivity struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	ProjectID    uint           `gorm:"not null;index" json:"project_id"`
	Name         string         `gorm:"not null" json:"name"`
	Phase        string         `gorm:"not null" json:"phase"`
	StartDate    *time.Time     `json:"start_date"`
	EndDate      *time.Time     `json:"end_date"`
	Completed    bool           `gorm:"not null;default:false" json:"completed"`
	Progress     int            `gorm:"not null;default:0" json:"progress"`
	DisplayOrder int            `gorm:"not null;default:0" json:"display_order"`
	AssigneeID   *uint          `gorm:"index" json:"assignee_id"`
	CompletedAt  *time.Time     `json:"completed_at"`
	Subtasks     []PhaseSubtask `gorm:"foreignKey:ActivityID" json:"subtasks,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func (PhaseActivity) TableName() string {
	return "phase_activities"
}

// PhaseSubtask is a child of an activity.
type PhaseSubtask struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	ActivityID   uint       `gorm:"not null;index" json:"activity_id"`
	Name         string     `gorm:"not null" json:"name"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	Completed    bool       `gorm:"not null;default:false" json:"completed"`
	DisplayOrder int        `gorm:"not null;default:0" json:"display_order"`
	AssigneeID   *uint      `gorm:"index" json:"assignee_id"`
	CompletedAt  *time.Time `json:"completed_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (PhaseSubtask) TableName() string {
	return "phase_subtasks"
}

// TaskComment is a comment on an activity.
type TaskComment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ActivityID uint      `gorm:"not null;index" json:"activity_id"`
	AuthorID   uint      `gorm:"not null" json:"author_id"`
	AuthorName string    `gorm:"not null" json:"author_name"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

func (TaskComment) TableName() string {
	return "task_comments"
}
