package workflows

// Approval statuses for a project material request.
const (
	StatusPending   = "pending"
	StatusLeader    = "leader"
	StatusManager   = "manager"
	StatusQuotation = "quotation"
	StatusDirector  = "director"
	StatusFinancial = "financial"
	StatusPurchased = "purchased"
	StatusReceived  = "received"
	StatusRejected  = "rejected"
)

// Team member hierarchy levels. Used only to gate approval transitions.
const (
	LevelColaborador = "colaborador"
	LevelLider       = "lider"
	LevelGerente     = "gerente"
	LevelComprador   = "comprador"
	LevelDiretor     = "diretor"
	LevelFinanceiro  = "financeiro"
)

// Transition describes one forward step of the approval workflow: the
// hierarchy level allowed to act on the current status and the status an
// approval moves the material to.
type Transition struct {
	RequiredLevel string
	Next          string
}

// StateMachine enforces the ordered, role-gated procurement approval flow.
type StateMachine struct {
	transitions map[string]Transition
}

// NewStateMachine creates the procurement approval state machine.
// Purchase confirmation (financial -> purchased) and receipt confirmation
// (purchased -> received) are separate operations, not part of the
// approve/reject table; purchased, received and rejected have no entries.
func NewStateMachine() *StateMachine {
	return &StateMachine{
		transitions: map[string]Transition{
			StatusPending:   {RequiredLevel: LevelLider, Next: StatusLeader},
			StatusLeader:    {RequiredLevel: LevelGerente, Next: StatusManager},
			StatusManager:   {RequiredLevel: LevelComprador, Next: StatusQuotation},
			StatusQuotation: {RequiredLevel: LevelDiretor, Next: StatusDirector},
			StatusDirector:  {RequiredLevel: LevelFinanceiro, Next: StatusFinancial},
		},
	}
}

// TransitionFor returns the forward transition for the given status, if any.
func (sm *StateMachine) TransitionFor(status string) (Transition, bool) {
	t, ok := sm.transitions[status]
	return t, ok
}

// RequiredLevel returns the hierarchy level allowed to approve or reject
// a material in the given status.
func (sm *StateMachine) RequiredLevel(status string) (string, bool) {
	t, ok := sm.transitions[status]
	return t.RequiredLevel, ok
}

// CanApprove reports whether level may act on the given status.
func (sm *StateMachine) CanApprove(status, level string) bool {
	t, ok := sm.transitions[status]
	return ok && t.RequiredLevel == level
}

// LevelLabel returns the human-readable Portuguese label for a hierarchy
// level, used in error and notification messages.
func LevelLabel(level string) string {
	switch level {
	case LevelColaborador:
		return "Colaborador"
	case LevelLider:
		return "Líder"
	case LevelGerente:
		return "Gerente"
	case LevelComprador:
		return "Comprador"
	case LevelDiretor:
		return "Diretor"
	case LevelFinanceiro:
		return "Financeiro"
	default:
		return level
	}
}
