package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimingStatFromSamples(t *testing.T) {
	samples := []float64{100, 110, 105, 115, 120}
	stat := TimingStatFromSamples(samples)

	assert.Equal(t, uint32(5), stat.Iterations)
	assert.InDelta(t, 110.0, stat.MeanMS, 0.001)
	assert.Equal(t, 100.0, stat.MinMS)
	assert.Equal(t, 120.0, stat.MaxMS)

	// Median of [100, 105, 110, 115, 120] = 110
	require.NotNil(t, stat.MedianMS)
	assert.Equal(t, 110.0, *stat.MedianMS)

	// Population stddev: sqrt((100+0+25+25+100)/5) = sqrt(50)
	require.NotNil(t, stat.StddevMS)
	assert.InDelta(t, 7.071, *stat.StddevMS, 0.01)

	// p95 with 5 samples: index = ceil(0.95*5)-1 = 4 -> 120
	require.NotNil(t, stat.P95MS)
	assert.Equal(t, 120.0, *stat.P95MS)
}

func TestTimingStatEmptySamples(t *testing.T) {
	stat := TimingStatFromSamples(nil)

	assert.Equal(t, uint32(0), stat.Iterations)
	assert.Equal(t, 0.0, stat.MeanMS)
	assert.Equal(t, 0.0, stat.MinMS)
	assert.Equal(t, 0.0, stat.MaxMS)
	assert.Nil(t, stat.MedianMS)
	assert.Nil(t, stat.StddevMS)
	assert.Nil(t, stat.P95MS)
}

func TestTimingStatSingleSample(t *testing.T) {
	stat := TimingStatFromSamples([]float64{42})

	assert.Equal(t, uint32(1), stat.Iterations)
	assert.Equal(t, 42.0, stat.MeanMS)
	assert.Equal(t, 42.0, stat.MinMS)
	assert.Equal(t, 42.0, stat.MaxMS)
	require.NotNil(t, stat.MedianMS)
	assert.Equal(t, 42.0, *stat.MedianMS)
	require.NotNil(t, stat.StddevMS)
	assert.Equal(t, 0.0, *stat.StddevMS)
	require.NotNil(t, stat.P95MS)
	assert.Equal(t, 42.0, *stat.P95MS)
}

func TestTimingStatEvenSampleMedian(t *testing.T) {
	stat := TimingStatFromSamples([]float64{10, 20, 30, 40})

	require.NotNil(t, stat.MedianMS)
	assert.Equal(t, 25.0, *stat.MedianMS)

	// p95 with 4 samples: index = ceil(3.8)-1 = 3 -> 40
	require.NotNil(t, stat.P95MS)
	assert.Equal(t, 40.0, *stat.P95MS)
}

func TestTimingStatOrderIndependent(t *testing.T) {
	a := TimingStatFromSamples([]float64{120, 100, 115, 105, 110})
	b := TimingStatFromSamples([]float64{100, 105, 110, 115, 120})

	assert.Equal(t, a.MeanMS, b.MeanMS)
	assert.Equal(t, *a.MedianMS, *b.MedianMS)
	assert.Equal(t, *a.P95MS, *b.P95MS)
}

func TestSingleSample(t *testing.T) {
	stat := SingleSample(250)
	assert.Equal(t, uint32(1), stat.Iterations)
	assert.Equal(t, 250.0, stat.MeanMS)
}
