package rl

import (
	"math"
	"runtime"

	"github.com/klauspost/cpuid/v2"
)

// clamp restricts a value to a given range [minVal, maxVal].
func clamp(value, minVal, maxVal float64) float64 {
	return math.Max(minVal, math.Min(value, maxVal))
}

// clampAll clamps every element of values in place.
func clampAll(values []float64, minVal, maxVal float64) {
	for i, v := range values {
		values[i] = clamp(v, minVal, maxVal)
	}
}

// defaultParallelism reports the number of logical cores, as detected by
// cpuid, falling back to the Go runtime's view when detection fails.
func defaultParallelism() int {
	if n := cpuid.CPU.LogicalCores; n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// taskSeed derives an independent seed for one evaluation task from the run
// seed, the generation and the task index (splitmix64 finalizer).
func taskSeed(seed int64, generation, index int) int64 {
	z := uint64(seed) + uint64(generation)*0x9E3779B97F4A7C15 + uint64(index)*0xBF58476D1CE4E5B9
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return int64(z ^ (z >> 31))
}
