package workflow

import (
	"context"
	"sync"

	"github.com/robocore-nitk/club-admin/pkg/serrors"
)

var (
	ErrInFlight = serrors.NewError("WORKFLOW_IN_FLIGHT", "action already in progress", "")
	ErrNotOpen  = serrors.NewError("WORKFLOW_NOT_OPEN", "form is not open", "")
)

type GateState int

const (
	GateIdle GateState = iota
	GateConfirming
	GateInFlight
)

func (s GateState) String() string {
	switch s {
	case GateConfirming:
		return "confirming"
	case GateInFlight:
		return "in_flight"
	default:
		return "idle"
	}
}

// ConfirmGate holds a destructive action until the admin confirms it.
type ConfirmGate[ID comparable] struct {
	mu     sync.Mutex
	state  GateState
	target ID
	action func(ctx context.Context, target ID) error
}

func NewConfirmGate[ID comparable](action func(ctx context.Context, target ID) error) *ConfirmGate[ID] {
	return &ConfirmGate[ID]{action: action}
}

// Request asks for confirmation of target. A pending request for another
// target is replaced.
func (g *ConfirmGate[ID]) Request(target ID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == GateInFlight {
		return ErrInFlight
	}
	g.state = GateConfirming
	g.target = target
	return nil
}

// Cancel drops the pending request. It is refused while the action runs.
func (g *ConfirmGate[ID]) Cancel() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == GateInFlight {
		return ErrInFlight
	}
	g.reset()
	return nil
}

// Confirm runs the action for the pending target. It reports false, and calls
// nothing, when no request is pending.
func (g *ConfirmGate[ID]) Confirm(ctx context.Context) (bool, error) {
	g.mu.Lock()
	if g.state != GateConfirming {
		g.mu.Unlock()
		return false, nil
	}
	g.state = GateInFlight
	target := g.target
	g.mu.Unlock()

	err := g.action(ctx, target)

	g.mu.Lock()
	g.reset()
	g.mu.Unlock()
	return true, err
}

func (g *ConfirmGate[ID]) State() GateState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *ConfirmGate[ID]) Target() (ID, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.target, g.state != GateIdle
}

func (g *ConfirmGate[ID]) reset() {
	var zero ID
	g.state = GateIdle
	g.target = zero
}
