package rl

import (
	"io"
	"log"
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	"github.com/franzvrolijk/reinforcement-learning/rl/nn"
)

// EpochStats summarizes one epoch of gradient training.
type EpochStats struct {
	Epoch     int
	LearnRate float64
	MeanLoss  float64 // Mean pre-update loss over the epoch's samples
	Elapsed   time.Duration
}

// GradientTrainer repeatedly applies a GradientEstimator to a single
// network, drawing a new environment sample for every update and decaying
// the learning rate between epochs.
type GradientTrainer struct {
	Estimator        GradientEstimator
	Task             *Navigation
	InitialLearnRate float64
	Decay            float64
	Delta            float64
	Iterations       int // Updates per epoch
	Logger           *log.Logger
}

// NewGradientTrainer builds a trainer from the gradient section of a config.
func NewGradientTrainer(cfg GradientConfig, task *Navigation, logger *log.Logger) *GradientTrainer {
	var committer Committer = SerialCommitter{}
	if cfg.ParallelCommit {
		committer = ParallelCommitter{}
	}
	return &GradientTrainer{
		Estimator:        GradientEstimator{Committer: committer},
		Task:             task,
		InitialLearnRate: cfg.LearnRate,
		Decay:            cfg.LearnRateDecay,
		Delta:            cfg.Delta,
		Iterations:       cfg.Iterations,
		Logger:           logger,
	}
}

// LearnRate returns the learning rate for an epoch:
// InitialLearnRate / (1 + Decay*epoch).
func (t *GradientTrainer) LearnRate(epoch int) float64 {
	return t.InitialLearnRate / (1 + t.Decay*float64(epoch))
}

// RunEpoch performs Iterations updates on net.
func (t *GradientTrainer) RunEpoch(net *nn.Network, epoch int, rng *rand.Rand) (EpochStats, error) {
	if t.Iterations <= 0 {
		return EpochStats{}, errors.New("iterations per epoch must be positive")
	}
	start := time.Now()
	lr := t.LearnRate(epoch)
	losses := make([]float64, t.Iterations)
	for i := range losses {
		loss, err := t.Estimator.Update(net, t.Task.Objective(rng), lr, t.Delta)
		if err != nil {
			return EpochStats{}, errors.Wrapf(err, "epoch %d update %d", epoch, i)
		}
		losses[i] = loss
	}
	stats := EpochStats{
		Epoch:     epoch,
		LearnRate: lr,
		MeanLoss:  stat.Mean(losses, nil),
		Elapsed:   time.Since(start),
	}
	t.logger().Printf("Average loss for epoch %d: %.6f (learn rate %.6f, %s)", epoch, stats.MeanLoss, lr, stats.Elapsed)
	return stats, nil
}

// Run trains net epoch after epoch, starting at epoch 1, until stop returns
// true.
func (t *GradientTrainer) Run(net *nn.Network, rng *rand.Rand, stop func(EpochStats) bool) error {
	for epoch := 1; ; epoch++ {
		stats, err := t.RunEpoch(net, epoch, rng)
		if err != nil {
			return err
		}
		if stop != nil && stop(stats) {
			return nil
		}
	}
}

func (t *GradientTrainer) logger() *log.Logger {
	if t.Logger == nil {
		return log.New(io.Discard, "", 0)
	}
	return t.Logger
}
