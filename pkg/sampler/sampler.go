package sampler

import (
	"context"
	"runtime"
	"time"

	log "github.com/cloud-bulldozer/memperf/pkg/logging"
	"github.com/cloud-bulldozer/memperf/pkg/sample"
	"github.com/pkg/errors"
	"k8s.io/utils/clock"
)

// Sampler measures memory copy bandwidth. A Sampler holds no state between
// calls; every Measure builds its own worker pool and buffers.
type Sampler struct {
	clock     clock.PassiveClock
	chunkSize int
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithClock sets the clock used to time trials.
func WithClock(c clock.PassiveClock) Option {
	return func(s *Sampler) {
		s.clock = c
	}
}

// WithChunkSize sets the partition unit. Non-positive values are ignored.
func WithChunkSize(n int) Option {
	return func(s *Sampler) {
		if n > 0 {
			s.chunkSize = n
		}
	}
}

// New returns a Sampler using the monotonic wall clock and 1 MiB chunks.
func New(opts ...Option) *Sampler {
	s := &Sampler{
		clock:     clock.RealClock{},
		chunkSize: ChunkSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Measure is a shorthand for New().Measure returning only the throughput.
func Measure(size, repetitions, workers int) (float64, error) {
	m, err := New().Measure(context.Background(), size, repetitions, workers)
	if err != nil {
		return 0, err
	}
	return m.Throughput, nil
}

// Measure copies size bytes repetitions times with workers goroutines and
// returns the average throughput in bytes/s. The context is checked
// between trials; a trial that has started always runs to completion.
func (s *Sampler) Measure(ctx context.Context, size, repetitions, workers int) (sample.Measurement, error) {
	m := sample.Measurement{Size: size, Workers: workers, Repetitions: repetitions}
	if size <= 0 {
		return m, errors.Wrapf(ErrInvalidRequest, "size must be > 0, got %d", size)
	}
	if repetitions < 1 {
		return m, errors.Wrapf(ErrInvalidRequest, "repetitions must be > 0, got %d", repetitions)
	}
	p, err := newPool(workers)
	if err != nil {
		return m, err
	}
	defer p.close()

	var chunks []Chunk
	var src, dst []byte
	var total time.Duration
	for i := 0; i < repetitions; i++ {
		if err := ctx.Err(); err != nil {
			return m, errors.Wrapf(err, "measurement interrupted after %d of %d trials", i, repetitions)
		}
		// The previous pair is unreachable; reclaim it before allocating the next.
		runtime.GC()
		src, dst, err = allocatePair(size)
		if err != nil {
			return m, err
		}
		if chunks == nil {
			chunks = Partition(size, s.chunkSize)
		}
		// No collection may be in flight once the clock starts.
		runtime.GC()
		d := s.timeCopy(p, dst, src, chunks)
		src, dst = nil, nil
		log.Debugf("trial %d/%d: %d bytes with %d workers in %s", i+1, repetitions, size, workers, d)
		m.Samples = append(m.Samples, sample.Sample{Size: size, Workers: workers, Duration: d})
		total += d
	}

	m.Mean = total / time.Duration(repetitions)
	if m.Mean <= 0 {
		return m, errors.Wrapf(ErrMeasurementFault, "mean trial duration is %s over %d trials", m.Mean, repetitions)
	}
	m.Throughput = float64(size) / m.Mean.Seconds()
	return m, nil
}

// timeCopy times one parallel copy. Only the dispatch and the barrier fall
// inside the timed section.
func (s *Sampler) timeCopy(p *pool, dst, src []byte, chunks []Chunk) time.Duration {
	start := s.clock.Now()
	p.copy(dst, src, chunks)
	return s.clock.Since(start)
}

// Copy copies src into dst with a pool of workers goroutines, using the
// Sampler's chunk size.
func (s *Sampler) Copy(dst, src []byte, workers int) error {
	if len(dst) != len(src) {
		return errors.Wrapf(ErrInvalidRequest, "length mismatch: dst %d, src %d", len(dst), len(src))
	}
	p, err := newPool(workers)
	if err != nil {
		return err
	}
	p.copy(dst, src, Partition(len(src), s.chunkSize))
	return p.close()
}

// ParallelCopy copies src into dst in 1 MiB chunks across workers goroutines.
func ParallelCopy(dst, src []byte, workers int) error {
	return New().Copy(dst, src, workers)
}

// allocatePair returns fresh zeroed source and destination buffers for one
// trial. Measure drops both once the trial's copy is timed.
func allocatePair(size int) (src, dst []byte, err error) {
	if src, err = allocate(size); err != nil {
		return nil, nil, errors.Wrap(err, "source buffer")
	}
	if dst, err = allocate(size); err != nil {
		return nil, nil, errors.Wrap(err, "destination buffer")
	}
	return src, dst, nil
}

// allocate returns a zeroed buffer, turning a refused length into
// ErrAllocation instead of a panic.
func allocate(size int) (buf []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf = nil
			err = errors.Wrapf(ErrAllocation, "%d bytes: %v", size, r)
		}
	}()
	return make([]byte, size), nil
}
