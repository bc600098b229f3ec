package workflows

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransitionChain(t *testing.T) {
	sm := NewStateMachine()

	chain := []struct {
		from  string
		level string
		next  string
	}{
		{StatusPending, LevelLider, StatusLeader},
		{StatusLeader, LevelGerente, StatusManager},
		{StatusManager, LevelComprador, StatusQuotation},
		{StatusQuotation, LevelDiretor, StatusDirector},
		{StatusDirector, LevelFinanceiro, StatusFinancial},
	}

	for _, step := range chain {
		tr, ok := sm.TransitionFor(step.from)
		assert.True(t, ok, "expected transition from %s", step.from)
		assert.Equal(t, step.level, tr.RequiredLevel)
		assert.Equal(t, step.next, tr.Next)
	}
}

func TestNoForwardTransitionFromTerminalStates(t *testing.T) {
	sm := NewStateMachine()

	for _, status := range []string{StatusFinancial, StatusPurchased, StatusReceived, StatusRejected} {
		_, ok := sm.TransitionFor(status)
		assert.False(t, ok, "status %s must have no approve/reject entry", status)
	}
}

func TestCanApprove(t *testing.T) {
	sm := NewStateMachine()

	assert.True(t, sm.CanApprove(StatusPending, LevelLider))
	assert.False(t, sm.CanApprove(StatusPending, LevelGerente))
	assert.False(t, sm.CanApprove(StatusPending, LevelColaborador))
	assert.False(t, sm.CanApprove(StatusRejected, LevelLider))
}

func TestLevelLabel(t *testing.T) {
	assert.Equal(t, "Líder", LevelLabel(LevelLider))
	assert.Equal(t, "Financeiro", LevelLabel(LevelFinanceiro))
	assert.Equal(t, "unknown", LevelLabel("unknown"))
}
