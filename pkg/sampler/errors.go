package sampler

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidRequest is returned for a non-positive size or repetition count.
	ErrInvalidRequest = errors.New("invalid measurement request")
	// ErrAllocation is returned when a trial buffer cannot be allocated.
	ErrAllocation = errors.New("buffer allocation failed")
	// ErrPool is returned when the worker pool cannot be built as requested.
	ErrPool = errors.New("worker pool construction failed")
	// ErrMeasurementFault is returned when the averaged trial duration is zero.
	ErrMeasurementFault = errors.New("measurement fault")
)

// CellError ties a fault to the grid cell that was being measured.
type CellError struct {
	Size    int
	Workers int
	Err     error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("cell (size=%d bytes, workers=%d): %v", e.Size, e.Workers, e.Err)
}

func (e *CellError) Unwrap() error {
	return e.Err
}

// Kind names the fault class of err, or "unknown" if err does not wrap
// one of the sampler sentinels.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrAllocation):
		return "allocation"
	case errors.Is(err, ErrPool):
		return "pool"
	case errors.Is(err, ErrMeasurementFault):
		return "measurement"
	case errors.Is(err, ErrInvalidRequest):
		return "request"
	default:
		return "unknown"
	}
}
