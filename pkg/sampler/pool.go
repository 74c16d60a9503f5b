package sampler

import (
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

type copyTask struct {
	dst  []byte
	src  []byte
	done *sync.WaitGroup
}

// pool is a fixed set of copy goroutines owned by a single measurement.
// The group only joins the workers on close; per-copy completion is
// tracked by the task's WaitGroup.
type pool struct {
	workers int
	tasks   chan copyTask
	group   errgroup.Group
}

func newPool(workers int) (*pool, error) {
	if workers < 1 {
		return nil, errors.Wrapf(ErrPool, "cannot start %d workers", workers)
	}
	p := &pool{
		workers: workers,
		tasks:   make(chan copyTask, workers),
	}
	for i := 0; i < workers; i++ {
		p.group.Go(func() error {
			for t := range p.tasks {
				copy(t.dst, t.src)
				t.done.Done()
			}
			return nil
		})
	}
	return p, nil
}

// copy hands one task per chunk to the workers and returns once every
// chunk has been written.
func (p *pool) copy(dst, src []byte, chunks []Chunk) {
	var done sync.WaitGroup
	done.Add(len(chunks))
	for _, c := range chunks {
		p.tasks <- copyTask{
			dst:  dst[c.Offset:c.End()],
			src:  src[c.Offset:c.End()],
			done: &done,
		}
	}
	done.Wait()
}

// close stops the workers and waits for them to exit.
func (p *pool) close() error {
	close(p.tasks)
	return p.group.Wait()
}
