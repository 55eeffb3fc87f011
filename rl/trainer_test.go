package rl

import (
	"bytes"
	"log"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/franzvrolijk/reinforcement-learning/rl/nn"
)

func lineTask() *Navigation {
	return &Navigation{NewEnvironment: func(rng *rand.Rand) Environment {
		return &lineEnv{x: rng.Float64(), target: 10 + rng.Float64(), best: 1}
	}}
}

func TestLearnRateDecay(t *testing.T) {
	tr := &GradientTrainer{InitialLearnRate: 100, Decay: 0.1}
	assert.InDelta(t, 100/1.1, tr.LearnRate(1), 1e-12)
	assert.InDelta(t, 50.0, tr.LearnRate(10), 1e-12)

	tr.Decay = 0
	assert.Equal(t, 100.0, tr.LearnRate(7))
}

func TestGradientTrainerRun(t *testing.T) {
	var buf bytes.Buffer
	cfg := GradientConfig{LearnRate: 0.5, LearnRateDecay: 0.1, Delta: 1e-4, Iterations: 3, ParallelCommit: true}
	tr := NewGradientTrainer(cfg, lineTask(), log.New(&buf, "", 0))
	assert.IsType(t, ParallelCommitter{}, tr.Estimator.Committer)

	net, err := nn.NewRandom([]int{4, 3, NumActions}, nn.Uniform(nn.Tanh), rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	var epochs []EpochStats
	err = tr.Run(net, rand.New(rand.NewSource(2)), func(s EpochStats) bool {
		epochs = append(epochs, s)
		return s.Epoch == 3
	})
	require.NoError(t, err)

	require.Len(t, epochs, 3)
	for i, s := range epochs {
		assert.Equal(t, i+1, s.Epoch)
		assert.InDelta(t, tr.LearnRate(i+1), s.LearnRate, 1e-15)
		assert.GreaterOrEqual(t, s.MeanLoss, 0.0)
		assert.LessOrEqual(t, s.MeanLoss, 2.0)
	}
	assert.Contains(t, buf.String(), "Average loss for epoch 3")
}

func TestGradientTrainerRejectsZeroDelta(t *testing.T) {
	tr := NewGradientTrainer(GradientConfig{LearnRate: 1, Iterations: 1}, lineTask(), nil)
	assert.IsType(t, SerialCommitter{}, tr.Estimator.Committer)

	net, err := nn.NewRandom([]int{4, NumActions}, nn.Uniform(nn.Tanh), rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	_, err = tr.RunEpoch(net, 1, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, ErrZeroDelta)
}
