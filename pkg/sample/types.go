package sample

import "time"

// Sample describes a single timed copy trial.
type Sample struct {
	Size     int
	Workers  int
	Duration time.Duration
}

// Measurement describes the outcome of one measurement request, the
// averaged trials for a (size, workers) pair.
type Measurement struct {
	Size        int
	Workers     int
	Repetitions int
	Samples     []Sample
	Mean        time.Duration
	Throughput  float64
}

// Durations returns the trial durations in seconds.
func (m Measurement) Durations() []float64 {
	d := make([]float64, 0, len(m.Samples))
	for _, s := range m.Samples {
		d = append(d, s.Duration.Seconds())
	}
	return d
}

// Throughputs returns the per-trial throughput in bytes/s. Trials with a
// zero duration are skipped.
func (m Measurement) Throughputs() []float64 {
	t := make([]float64, 0, len(m.Samples))
	for _, s := range m.Samples {
		if s.Duration <= 0 {
			continue
		}
		t = append(t, float64(s.Size)/s.Duration.Seconds())
	}
	return t
}
