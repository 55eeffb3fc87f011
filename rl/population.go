package rl

import (
	"io"
	"log"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/sourcegraph/conc/pool"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/franzvrolijk/reinforcement-learning/rl/nn"
)

// GenerationStats summarizes the evaluation of one generation.
type GenerationStats struct {
	Generation   int
	Best         float64
	BestIndex    int
	Mean         float64
	Worst        float64
	StdDev       float64
	Survivors    int
	MutationRate float64 // Probability used to mutate this generation's offspring
	Elapsed      time.Duration
}

// PopulationTrainer evolves a fixed-size population of networks by
// truncation selection. Every generation each network is scored, the best
// RetainFraction survive unchanged, and every other slot is refilled with a
// mutated copy of a random survivor.
type PopulationTrainer struct {
	Config  PopulationConfig
	Scorer  Scorer
	Mutator Mutator
	Rate    MutationRate
	Logger  *log.Logger

	networks   []*nn.Network
	scores     []float64
	generation int
	rng        *rand.Rand // Selection and replacement; evaluation tasks own their own
}

// NewPopulationTrainer creates a trainer with a randomly initialized
// population. Network i is initialized from a generator seeded with the run
// seed and i, so populations are reproducible.
func NewPopulationTrainer(cfg PopulationConfig, layers []int, acts nn.Activations, scorer Scorer, mutator Mutator, rate MutationRate, logger *log.Logger) (*PopulationTrainer, error) {
	if cfg.PopSize <= 0 {
		return nil, errors.New("population size must be positive")
	}
	if cfg.NumIter <= 0 {
		return nil, errors.New("episodes per network must be positive")
	}
	if cfg.RetainFraction <= 0 || cfg.RetainFraction > 1 {
		return nil, errors.Errorf("retain fraction %v must be in (0, 1]", cfg.RetainFraction)
	}
	if scorer == nil || mutator == nil || rate == nil {
		return nil, errors.New("scorer, mutator and mutation rate are required")
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	networks := make([]*nn.Network, cfg.PopSize)
	for i := range networks {
		net, err := nn.NewRandom(layers, acts, rand.New(rand.NewSource(taskSeed(cfg.Seed, 0, i))))
		if err != nil {
			return nil, errors.Wrapf(err, "creating network %d", i)
		}
		networks[i] = net
	}

	return &PopulationTrainer{
		Config:   cfg,
		Scorer:   scorer,
		Mutator:  mutator,
		Rate:     rate,
		Logger:   logger,
		networks: networks,
		rng:      rand.New(rand.NewSource(cfg.Seed)),
	}, nil
}

// Networks returns the current population.
func (p *PopulationTrainer) Networks() []*nn.Network {
	return p.networks
}

// Scores returns the scores of the most recent evaluation, indexed like the
// population was at that time.
func (p *PopulationTrainer) Scores() []float64 {
	return p.scores
}

// Best returns the highest-scoring network of the most recent evaluation,
// or nil before the first generation. Survivors are never replaced, so it
// is still part of the population.
func (p *PopulationTrainer) Best() *nn.Network {
	if p.scores == nil {
		return nil
	}
	return p.networks[rank(p.scores)[0]]
}

// Generation returns the number of completed generations.
func (p *PopulationTrainer) Generation() int {
	return p.generation
}

// RunGeneration evaluates, selects and replaces once. The returned stats
// describe the population as it was evaluated, before replacement.
func (p *PopulationTrainer) RunGeneration() (GenerationStats, error) {
	start := time.Now()
	gen := p.generation + 1

	scores, err := p.evaluate(gen)
	if err != nil {
		return GenerationStats{}, errors.Wrapf(err, "evaluating generation %d", gen)
	}
	p.scores = scores

	ranked := rank(scores)
	survivors := survivorCount(p.Config.RetainFraction, len(scores))

	stats := GenerationStats{
		Generation: gen,
		Best:       scores[ranked[0]],
		BestIndex:  ranked[0],
		Mean:       stat.Mean(scores, nil),
		Worst:      floats.Min(scores),
		StdDev:     stat.StdDev(scores, nil),
		Survivors:  survivors,
	}
	stats.MutationRate = p.Rate.Rate(stats)

	p.replace(ranked[:survivors], ranked[survivors:], stats.MutationRate)

	p.generation = gen
	stats.Elapsed = time.Since(start)
	p.Logger.Printf("Generation %d: best %.4f (network %d), mean %.4f, worst %.4f, mutation rate %.3f, %s",
		gen, stats.Best, stats.BestIndex, stats.Mean, stats.Worst, stats.MutationRate, stats.Elapsed)
	return stats, nil
}

// Run executes generations until stop returns true for a generation's stats.
func (p *PopulationTrainer) Run(stop func(GenerationStats) bool) error {
	for {
		stats, err := p.RunGeneration()
		if err != nil {
			return err
		}
		if stop != nil && stop(stats) {
			return nil
		}
	}
}

// evaluate scores every network on its own task. Task i writes only
// scores[i], and uses a generator derived from the run seed, the generation
// and i.
func (p *PopulationTrainer) evaluate(generation int) ([]float64, error) {
	workers := p.Config.Workers
	if workers <= 0 {
		workers = defaultParallelism()
	}

	scores := make([]float64, len(p.networks))
	tasks := pool.New().WithErrors().WithFirstError().WithMaxGoroutines(workers)
	for i, net := range p.networks {
		i, net := i, net
		tasks.Go(func() error {
			rng := rand.New(rand.NewSource(taskSeed(p.Config.Seed, generation, i)))
			episodes := make([]float64, p.Config.NumIter)
			for e := range episodes {
				score, err := p.Scorer.Score(net, rng)
				if err != nil {
					return errors.Wrapf(err, "network %d episode %d", i, e)
				}
				episodes[e] = score
			}
			scores[i] = stat.Mean(episodes, nil)
			return nil
		})
	}
	if err := tasks.Wait(); err != nil {
		return nil, err
	}
	return scores, nil
}

// replace fills every non-survivor slot with a mutated copy of a uniformly
// chosen survivor. Survivors are not modified.
func (p *PopulationTrainer) replace(survivors, losers []int, rate float64) {
	for _, slot := range losers {
		parent := p.networks[survivors[p.rng.Intn(len(survivors))]]
		child := parent.Copy()
		p.Mutator.Mutate(child, rate, p.rng)
		p.networks[slot] = child
	}
}

// rank returns network indices ordered by descending score. Equal scores
// keep ascending index order.
func rank(scores []float64) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	return order
}

// survivorCount returns ceil(fraction*n), kept within [1, n].
func survivorCount(fraction float64, n int) int {
	k := int(math.Ceil(fraction * float64(n)))
	if k < 1 {
		k = 1
	}
	if k > n {
		k = n
	}
	return k
}
