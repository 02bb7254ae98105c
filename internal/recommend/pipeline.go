// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

package recommend

import (
	"fmt"

	"github.com/rs/zerolog"
)

// State is a ranking pipeline stage.
type State int

// Pipeline states. FINALIZED and REJECTED are terminal.
const (
	StateInit State = iota
	StateScoring
	StateBlending
	StateDiversifying
	StateFinalized
	StateRejected
)

var stateNames = [...]string{
	StateInit:         "INIT",
	StateScoring:      "SCORING",
	StateBlending:     "BLENDING",
	StateDiversifying: "DIVERSIFYING",
	StateFinalized:    "FINALIZED",
	StateRejected:     "REJECTED",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateFinalized || s == StateRejected
}

// INIT may finish directly when nothing survives the filters.
var transitions = map[State][]State{
	StateInit:         {StateScoring, StateFinalized, StateRejected},
	StateScoring:      {StateBlending, StateRejected},
	StateBlending:     {StateDiversifying, StateRejected},
	StateDiversifying: {StateFinalized, StateRejected},
}

// pipeline tracks one request through the state machine.
type pipeline struct {
	state  State
	logger zerolog.Logger
}

//nolint:gocritic // zerolog.Logger is designed to be passed by value
func newPipeline(logger zerolog.Logger) *pipeline {
	return &pipeline{state: StateInit, logger: logger}
}

// advance moves to next or fails if the edge does not exist.
func (p *pipeline) advance(next State) error {
	for _, allowed := range transitions[p.state] {
		if allowed == next {
			p.logger.Debug().Stringer("from", p.state).Stringer("to", next).Msg("pipeline transition")
			p.state = next
			return nil
		}
	}
	return fmt.Errorf("illegal pipeline transition %s -> %s", p.state, next)
}

// reject moves to REJECTED from any non-terminal state and returns err.
func (p *pipeline) reject(err error) error {
	if !p.state.Terminal() {
		p.logger.Debug().Stringer("from", p.state).Err(err).Msg("pipeline rejected")
		p.state = StateRejected
	}
	return err
}
