package config

import (
	"fmt"
	"os"
	"strings"

	log "github.com/cloud-bulldozer/memperf/pkg/logging"
	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/api/resource"
)

// Defaults used when memperf runs without a configuration file.
const (
	DefaultRepetitions = 5
	DefaultChunkSize   = "1Mi"
)

// DefaultBlockSizes are 100 MiB, 500 MiB and 1 GiB.
var DefaultBlockSizes = []string{"100Mi", "500Mi", "1Gi"}

// Config describes the memory bandwidth sweep
type Config struct {
	BlockSizes  []string `yaml:"blocksizes,omitempty"`
	Repetitions int      `default:"5" yaml:"repetitions,omitempty"`
	MinWorkers  int      `default:"1" yaml:"minworkers,omitempty"`
	MaxWorkers  int      `yaml:"maxworkers,omitempty"`
	ChunkSize   string   `default:"1Mi" yaml:"chunksize,omitempty"`
	// Sizes holds BlockSizes in bytes once the configuration is validated.
	Sizes []int `yaml:"-"`
	// Chunk holds ChunkSize in bytes once the configuration is validated.
	Chunk int `yaml:"-"`
}

// Default returns the fixed sweep: 100 MiB, 500 MiB and 1 GiB blocks,
// 5 repetitions, 1 to cpus workers.
func Default(cpus int) Config {
	cfg := Config{
		BlockSizes:  append([]string(nil), DefaultBlockSizes...),
		Repetitions: DefaultRepetitions,
		MinWorkers:  1,
		MaxWorkers:  cpus,
		ChunkSize:   DefaultChunkSize,
	}
	if err := Complete(&cfg, cpus); err != nil {
		// The defaults are constants, this cannot fail.
		panic(err)
	}
	return cfg
}

// ParseSize converts a quantity such as 100Mi, 1Gi or 1500000 to bytes.
func ParseSize(s string) (int, error) {
	q, err := resource.ParseQuantity(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %v", s, err)
	}
	v := q.Value()
	if q.Cmp(*resource.NewQuantity(v, resource.BinarySI)) != 0 {
		return 0, fmt.Errorf("size %q is not a whole number of bytes", s)
	}
	if v < 1 {
		return 0, fmt.Errorf("size %q must be > 0", s)
	}
	if int64(int(v)) != v {
		return 0, fmt.Errorf("size %q does not fit in an int", s)
	}
	return int(v), nil
}

func validConfig(cfg Config) (bool, error) {
	if len(cfg.BlockSizes) < 1 {
		return false, fmt.Errorf("at least one block size is required")
	}
	if cfg.Repetitions < 1 {
		return false, fmt.Errorf("repetitions must be > 0")
	}
	if cfg.MinWorkers < 1 {
		return false, fmt.Errorf("minworkers must be > 0")
	}
	if cfg.MaxWorkers < cfg.MinWorkers {
		return false, fmt.Errorf("maxworkers (%d) must be >= minworkers (%d)", cfg.MaxWorkers, cfg.MinWorkers)
	}
	return true, nil
}

// Complete fills unset fields with defaults, resolves sizes to bytes and
// validates the result. A zero MaxWorkers means cpus. Repetitions has no
// zero default; callers start from DefaultRepetitions so an explicit 0 is
// rejected.
func Complete(cfg *Config, cpus int) error {
	if len(cfg.BlockSizes) == 0 {
		cfg.BlockSizes = append([]string(nil), DefaultBlockSizes...)
	}
	if cfg.MinWorkers == 0 {
		cfg.MinWorkers = 1
	}
	if cfg.MaxWorkers == 0 {
		cfg.MaxWorkers = cpus
	}
	if cfg.ChunkSize == "" {
		cfg.ChunkSize = DefaultChunkSize
	}
	if ok, err := validConfig(*cfg); !ok {
		return err
	}
	cfg.Sizes = cfg.Sizes[:0]
	for _, bs := range cfg.BlockSizes {
		n, err := ParseSize(bs)
		if err != nil {
			return err
		}
		cfg.Sizes = append(cfg.Sizes, n)
	}
	chunk, err := ParseSize(cfg.ChunkSize)
	if err != nil {
		return fmt.Errorf("chunksize: %v", err)
	}
	cfg.Chunk = chunk
	return nil
}

// ParseConf will read in the memperf configuration file which
// describes the sweep to run
// cpus is used when the file leaves maxworkers unset.
// Returns Config struct
func ParseConf(fn string, cpus int) (Config, error) {
	log.Infof("📒 Reading %s file. ", fn)
	cfg := Config{Repetitions: DefaultRepetitions}
	buf, err := os.ReadFile(fn)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(buf, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("in file %q: %v", fn, err)
	}
	if err := Complete(&cfg, cpus); err != nil {
		return cfg, fmt.Errorf("in file %q: %v", fn, err)
	}
	return cfg, nil
}

// Show Display the sweep config
func Show(c Config) {
	log.Infof("🗒️  Measuring %s with %d repetitions, %d-%d workers, %s chunks",
		strings.Join(c.BlockSizes, ", "), c.Repetitions, c.MinWorkers, c.MaxWorkers, c.ChunkSize)
}
