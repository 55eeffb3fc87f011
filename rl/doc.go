// Package rl trains small feed-forward networks to navigate towards a
// target, using one of two strategies:
//
//   - GradientEstimator / GradientTrainer: sign-only coordinate descent on
//     finite-difference loss measurements, one network at a time.
//   - PopulationTrainer: truncation selection over a population of
//     networks evaluated concurrently, refilled with mutated copies of the
//     survivors.
//
// Networks live in the nn subpackage and the navigation environment in the
// board subpackage.
//
// Basic usage:
//
//	// Load configuration
//	config, err := rl.LoadConfig("configs/navigate.ini")
//	if err != nil {
//		log.Fatalf("Error loading config: %v", err)
//	}
//
//	acts, _ := nn.NewActivations(config.Network.HiddenActivation, config.Network.OutputActivation)
//	task := &rl.Navigation{NewEnvironment: board.Factory(config.Board.Width, config.Board.Height)}
//	mutator, _ := rl.NewMutator(config.Mutation.Policy)
//
//	trainer, err := rl.NewPopulationTrainer(config.Population, config.Network.Layers, acts,
//		task, mutator, config.Mutation.MutationRate(), log.Default())
//	if err != nil {
//		log.Fatalf("Error creating population: %v", err)
//	}
//
//	// Run until the mean score is good enough
//	err = trainer.Run(func(s rl.GenerationStats) bool { return s.Mean > 0.9 })
package rl
