// Package board implements the navigation environment: an agent on a
// continuous width x height plane that moves one unit per step towards a
// target.
package board

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/franzvrolijk/reinforcement-learning/rl"
)

// StepLength is the distance covered by one move.
const StepLength = 1.0

// Board holds the agent and target positions. It implements rl.Environment.
type Board struct {
	width, height float64
	target        []float64 // x, y
	current       []float64 // x, y

	history []undoEntry // Positions before each ApplyMove
}

type undoEntry struct {
	action rl.Action
	x, y   float64
}

var _ rl.Environment = (*Board)(nil)

// New creates a board with the given target and start positions.
func New(width, height int, targetX, targetY, startX, startY float64) *Board {
	return &Board{
		width:   float64(width),
		height:  float64(height),
		target:  []float64{targetX, targetY},
		current: []float64{startX, startY},
	}
}

// Generate creates a board with uniformly random start and target positions
// more than one step apart.
func Generate(rng *rand.Rand, width, height int) *Board {
	w, h := float64(width), float64(height)
	sx, sy := rng.Float64()*w, rng.Float64()*h
	tx, ty := rng.Float64()*w, rng.Float64()*h
	for math.Hypot(tx-sx, ty-sy) <= StepLength {
		tx, ty = rng.Float64()*w, rng.Float64()*h
	}
	return New(width, height, tx, ty, sx, sy)
}

// Factory returns an environment generator for rl.Navigation.
func Factory(width, height int) func(rng *rand.Rand) rl.Environment {
	return func(rng *rand.Rand) rl.Environment {
		return Generate(rng, width, height)
	}
}

// Positions returns target x, target y, current x, current y.
func (b *Board) Positions() []float64 {
	return []float64{b.target[0], b.target[1], b.current[0], b.current[1]}
}

// Observe returns the positions normalized by the board size.
func (b *Board) Observe() []float64 {
	return []float64{
		b.target[0] / b.width,
		b.target[1] / b.height,
		b.current[0] / b.width,
		b.current[1] / b.height,
	}
}

// Distance returns the Euclidean distance between agent and target.
func (b *Board) Distance() float64 {
	return floats.Distance(b.target, b.current, 2)
}

// BestPossibleReduction is the length of one step. Overshooting a target
// closer than one step is not accounted for.
func (b *Board) BestPossibleReduction() float64 {
	return StepLength
}

// Step moves the agent one step in the direction given as a fraction of a
// full turn: 0 is +x, 0.25 is +y.
func (b *Board) Step(direction float64) {
	radians := direction * 2 * math.Pi
	b.current[0] += math.Cos(radians) * StepLength
	b.current[1] += math.Sin(radians) * StepLength
}

// StepBack moves the agent one step opposite to direction.
func (b *Board) StepBack(direction float64) {
	if direction < 0.5 {
		b.Step(direction + 0.5)
	} else {
		b.Step(direction - 0.5)
	}
}

// Direction converts an action to a fraction of a full turn.
func Direction(a rl.Action) (float64, error) {
	switch a {
	case rl.Right:
		return 0, nil
	case rl.Up:
		return 0.25, nil
	case rl.Left:
		return 0.5, nil
	case rl.Down:
		return 0.75, nil
	default:
		return 0, errors.Wrapf(rl.ErrUnknownAction, "%v", a)
	}
}

// ApplyMove implements rl.Environment.
func (b *Board) ApplyMove(a rl.Action) error {
	dir, err := Direction(a)
	if err != nil {
		return err
	}
	b.history = append(b.history, undoEntry{action: a, x: b.current[0], y: b.current[1]})
	b.Step(dir)
	return nil
}

// UndoMove reverts the most recent ApplyMove of the same action exactly.
// Without a matching applied move, the agent steps in the opposite direction.
func (b *Board) UndoMove(a rl.Action) error {
	dir, err := Direction(a)
	if err != nil {
		return err
	}
	if n := len(b.history); n > 0 && b.history[n-1].action == a {
		last := b.history[n-1]
		b.history = b.history[:n-1]
		b.current[0], b.current[1] = last.x, last.y
		return nil
	}
	b.StepBack(dir)
	return nil
}
