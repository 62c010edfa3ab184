package engine

import (
	"chartengine/internal/model"
	"chartengine/internal/state"
)

// Snapshot is a read-only view of the engine for status panels.
type Snapshot struct {
	ID              string          `json:"id"`
	Symbol          string          `json:"symbol"`
	Timeframe       model.Timeframe `json:"timeframe"`
	IndicatorsCount int             `json:"indicatorsCount"`
	Follow          string          `json:"follow"`
	Animating       bool            `json:"animating"`
	State           state.State     `json:"state"`
}

// State returns a deep copy of the current (target) state.
func (e *Engine) State() state.State { return e.st.Clone() }

// GetState returns a snapshot of the engine. Mutating it does not affect
// the engine.
func (e *Engine) GetState() Snapshot {
	return Snapshot{
		ID:              e.id,
		Symbol:          e.symbol,
		Timeframe:       e.tf,
		IndicatorsCount: e.registry.Len(),
		Follow:          e.follow.State().String(),
		Animating:       e.ip.Animating(),
		State:           e.st.Clone(),
	}
}

// DisplayedState returns the state most recently painted.
func (e *Engine) DisplayedState() (state.State, bool) {
	s, ok := e.ip.Displayed()
	if !ok {
		return state.State{}, false
	}
	return s.Clone(), true
}
