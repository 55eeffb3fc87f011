package rl

import (
	"fmt"
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/franzvrolijk/reinforcement-learning/rl/nn"
)

// Action is a move an agent can make. The network's output layer has one
// node per action, in this order.
type Action int

const (
	Up Action = iota
	Down
	Left
	Right

	NumActions = 4
)

func (a Action) String() string {
	switch a {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Valid reports whether a is one of the defined actions.
func (a Action) Valid() bool {
	return a >= Up && a <= Right
}

// TranslateOutput picks the action with the highest softmax probability.
// Ties go to the lowest index.
func TranslateOutput(outputs []float64) (Action, error) {
	if len(outputs) == 0 {
		return 0, errors.Wrap(ErrUnknownAction, "empty network output")
	}
	a := Action(floats.MaxIdx(nn.Softmax(outputs)))
	if !a.Valid() {
		return 0, errors.Wrapf(ErrUnknownAction, "output index %d", int(a))
	}
	return a, nil
}

// Environment is the agent simulation the navigation task runs against.
type Environment interface {
	// Distance is the current distance from the agent to its goal.
	Distance() float64
	// BestPossibleReduction is the largest distance reduction a single move
	// can achieve from the current state.
	BestPossibleReduction() float64
	// Observe returns the normalized feature vector fed to the network.
	Observe() []float64
	ApplyMove(a Action) error
	UndoMove(a Action) error
}

// Scorer scores one episode of a network. The rng is owned by the calling
// task and may be used to generate the episode's environment.
type Scorer interface {
	Score(net *nn.Network, rng *rand.Rand) (float64, error)
}

// Navigation turns an environment into loss and fitness measurements: the
// network picks one move, and the move is judged by how much of the best
// possible distance reduction it achieved.
type Navigation struct {
	NewEnvironment func(rng *rand.Rand) Environment
	ClampScore     bool // Floor episode scores at 0
}

// Improvement lets net choose a move in env and returns the achieved
// distance reduction relative to the best possible one. The move is undone
// before returning, so env is left unchanged.
func (t *Navigation) Improvement(net *nn.Network, env Environment) (float64, error) {
	out, err := net.Propagate(env.Observe())
	if err != nil {
		return 0, err
	}
	action, err := TranslateOutput(out)
	if err != nil {
		return 0, err
	}

	before := env.Distance()
	if err := env.ApplyMove(action); err != nil {
		return 0, errors.Wrapf(err, "applying %v", action)
	}
	after := env.Distance()
	if err := env.UndoMove(action); err != nil {
		return 0, errors.Wrapf(err, "undoing %v", action)
	}

	best := env.BestPossibleReduction()
	if best == 0 {
		return 0, nil
	}
	return (before - after) / best, nil
}

// Score implements Scorer using a freshly generated environment.
func (t *Navigation) Score(net *nn.Network, rng *rand.Rand) (float64, error) {
	score, err := t.Improvement(net, t.NewEnvironment(rng))
	if err != nil {
		return 0, err
	}
	if t.ClampScore && score < 0 {
		score = 0
	}
	return score, nil
}

// Objective returns a loss of 1 - improvement, measured against a single
// environment sample generated now, so that repeated evaluations during one
// gradient update are comparable.
func (t *Navigation) Objective(rng *rand.Rand) Objective {
	env := t.NewEnvironment(rng)
	return ObjectiveFunc(func(net *nn.Network) (float64, error) {
		improvement, err := t.Improvement(net, env)
		if err != nil {
			return 0, err
		}
		return 1 - improvement, nil
	})
}
