package grid

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cloud-bulldozer/memperf/pkg/config"
	"github.com/cloud-bulldozer/memperf/pkg/sample"
	"github.com/cloud-bulldozer/memperf/pkg/sampler"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type call struct {
	size    int
	workers int
}

// fakeMeasurer records calls and fails on a chosen cell.
type fakeMeasurer struct {
	calls    []call
	active   int32
	overlap  bool
	failOn   call
	failWith error
}

func (f *fakeMeasurer) Measure(ctx context.Context, size, repetitions, workers int) (sample.Measurement, error) {
	if atomic.AddInt32(&f.active, 1) > 1 {
		f.overlap = true
	}
	defer atomic.AddInt32(&f.active, -1)
	f.calls = append(f.calls, call{size, workers})
	if f.failWith != nil && f.failOn == (call{size, workers}) {
		return sample.Measurement{}, f.failWith
	}
	return sample.Measurement{
		Size:        size,
		Workers:     workers,
		Repetitions: repetitions,
		Mean:        time.Second,
		Throughput:  float64(size * workers),
	}, nil
}

func testConfig(t *testing.T) config.Config {
	cfg := config.Config{BlockSizes: []string{"1Mi", "2Mi"}, Repetitions: 2, MinWorkers: 1, MaxWorkers: 3}
	require.NoError(t, config.Complete(&cfg, 3))
	return cfg
}

func TestRunOrder(t *testing.T) {
	f := &fakeMeasurer{}
	sr, err := Run(context.Background(), testConfig(t), f)
	require.NoError(t, err)
	require.False(t, f.overlap)

	want := []call{
		{1 << 20, 1}, {1 << 20, 2}, {1 << 20, 3},
		{2 << 20, 1}, {2 << 20, 2}, {2 << 20, 3},
	}
	require.Equal(t, want, f.calls)
	require.Len(t, sr.Results, len(want))
	for i, c := range want {
		require.Equal(t, c.size, sr.Results[i].Size)
		require.Equal(t, c.workers, sr.Results[i].Workers)
		require.Equal(t, float64(c.size*c.workers), sr.Results[i].Throughput)
	}
	require.Equal(t, 2, sr.Repetitions)
	require.Equal(t, 3, sr.MaxWorkers)
	require.Equal(t, 1<<20, sr.ChunkSize)
}

func TestRunAbortsOnFirstFault(t *testing.T) {
	f := &fakeMeasurer{
		failOn:   call{2 << 20, 2},
		failWith: errors.Wrap(sampler.ErrAllocation, "destination buffer"),
	}
	sr, err := Run(context.Background(), testConfig(t), f)
	require.Error(t, err)
	require.ErrorIs(t, err, sampler.ErrAllocation)

	var cell *sampler.CellError
	require.True(t, errors.As(err, &cell))
	require.Equal(t, 2<<20, cell.Size)
	require.Equal(t, 2, cell.Workers)

	require.Len(t, f.calls, 5)
	require.Len(t, sr.Results, 4)
}

func TestRunWithSampler(t *testing.T) {
	cfg := config.Config{BlockSizes: []string{"1500000"}, Repetitions: 1, MinWorkers: 1, MaxWorkers: 2}
	require.NoError(t, config.Complete(&cfg, 2))
	sr, err := Run(context.Background(), cfg, sampler.New())
	require.NoError(t, err)
	require.Len(t, sr.Results, 2)
	for _, r := range sr.Results {
		require.Greater(t, r.Throughput, 0.0)
	}
}
