package grid

import (
	"context"
	"time"

	"github.com/cloud-bulldozer/memperf/pkg/config"
	log "github.com/cloud-bulldozer/memperf/pkg/logging"
	result "github.com/cloud-bulldozer/memperf/pkg/results"
	"github.com/cloud-bulldozer/memperf/pkg/sample"
	"github.com/cloud-bulldozer/memperf/pkg/sampler"
	"github.com/sirupsen/logrus"
)

// Measurer takes one bandwidth measurement. *sampler.Sampler satisfies it.
type Measurer interface {
	Measure(ctx context.Context, size, repetitions, workers int) (sample.Measurement, error)
}

// Run measures every (block size, worker count) cell of cfg, one cell at a
// time so that measurements never compete for memory bandwidth. The first
// failing cell aborts the sweep with a *sampler.CellError.
func Run(ctx context.Context, cfg config.Config, m Measurer) (result.ScenarioResults, error) {
	sr := result.ScenarioResults{
		Metadata: result.Metadata{
			Repetitions: cfg.Repetitions,
			ChunkSize:   cfg.Chunk,
			MinWorkers:  cfg.MinWorkers,
			MaxWorkers:  cfg.MaxWorkers,
		},
	}
	total := len(cfg.Sizes) * (cfg.MaxWorkers - cfg.MinWorkers + 1)
	n := 0
	for _, size := range cfg.Sizes {
		for workers := cfg.MinWorkers; workers <= cfg.MaxWorkers; workers++ {
			n++
			log.WithFields(logrus.Fields{
				"size":    result.HumanBytes(size),
				"workers": workers,
			}).Debugf("Measuring cell %d/%d", n, total)
			start := time.Now()
			ms, err := m.Measure(ctx, size, cfg.Repetitions, workers)
			if err != nil {
				return sr, &sampler.CellError{Size: size, Workers: workers, Err: err}
			}
			d := result.NewData(ms, cfg.Chunk, start, time.Now())
			log.Debugf("%s with %d workers: %s", result.HumanBytes(size), workers, result.HumanBytesPerSec(d.Throughput))
			sr.Results = append(sr.Results, d)
		}
	}
	return sr, nil
}
