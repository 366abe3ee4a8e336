package schema

import (
	"math"
	"sort"
)

// TimingStat holds timing statistics for one benchmark phase.
// Values are immutable once computed.
type TimingStat struct {
	Iterations uint32   `json:"iterations"`
	MeanMS     float64  `json:"mean_ms"`
	MedianMS   *float64 `json:"median_ms,omitempty"`
	StddevMS   *float64 `json:"stddev_ms,omitempty"`
	MinMS      float64  `json:"min_ms"`
	MaxMS      float64  `json:"max_ms"`
	P95MS      *float64 `json:"p95_ms,omitempty"`
}

// TimingStatFromSamples reduces a sequence of millisecond samples into a
// TimingStat. Empty input yields a zeroed struct with nil percentile fields;
// this is a defined degenerate case, not an error.
func TimingStatFromSamples(samples []float64) TimingStat {
	n := len(samples)
	if n == 0 {
		return TimingStat{}
	}

	var sum float64
	min := math.Inf(1)
	max := math.Inf(-1)
	for _, s := range samples {
		sum += s
		min = math.Min(min, s)
		max = math.Max(max, s)
	}
	mean := sum / float64(n)

	// Population stddev (divide by n, not n-1)
	var variance float64
	for _, s := range samples {
		variance += (s - mean) * (s - mean)
	}
	variance /= float64(n)
	stddev := math.Sqrt(variance)

	sorted := make([]float64, n)
	copy(sorted, samples)
	sort.Float64s(sorted)

	var median float64
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2.0
	} else {
		median = sorted[n/2]
	}

	// p95 index = ceil(0.95 * n) - 1, clamped to [0, n-1]
	p95Idx := int(math.Ceil(0.95*float64(n))) - 1
	if p95Idx < 0 {
		p95Idx = 0
	}
	if p95Idx > n-1 {
		p95Idx = n - 1
	}
	p95 := sorted[p95Idx]

	return TimingStat{
		Iterations: uint32(n),
		MeanMS:     mean,
		MedianMS:   &median,
		StddevMS:   &stddev,
		MinMS:      min,
		MaxMS:      max,
		P95MS:      &p95,
	}
}

// SingleSample builds a TimingStat from one millisecond measurement.
func SingleSample(ms float64) TimingStat {
	return TimingStatFromSamples([]float64{ms})
}
