// Package config provides the process-wide options registry consumed by the
// engine at call time: worker pool sizing, parallelization thresholds and the
// optional call-tracing logger hook.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

// Config holds the recognized engine options.
type Config struct {
	// NThreads is the worker pool size for data-parallel loops.
	// 0 means auto-detect (hardware concurrency).
	NThreads int `json:"nthreads" yaml:"nthreads"`
	// ParallelThreshold is the minimum row count before an operation is
	// split across the worker pool.
	ParallelThreshold int `json:"parallel_threshold" yaml:"parallel_threshold"`
	// ChunkSize is the number of rows per parallel work unit (0 = auto).
	ChunkSize int `json:"chunk_size" yaml:"chunk_size"`
	// VerboseLogging enables call tracing through the configured logger.
	VerboseLogging bool `json:"verbose_logging" yaml:"verbose_logging"`
}

const (
	DefaultParallelThreshold = 1000
	DefaultChunkSize         = 4096
)

var (
	mu           sync.RWMutex
	globalConfig = NewConfig()
	logger       = zap.NewNop()
)

// NewConfig returns a configuration with default values.
func NewConfig() Config {
	return Config{
		NThreads:          0, // auto-detect
		ParallelThreshold: DefaultParallelThreshold,
		ChunkSize:         DefaultChunkSize,
	}
}

// Validate reports the first invalid option, if any.
func (c *Config) Validate() error {
	if c.NThreads < 0 {
		return fmt.Errorf("nthreads must be non-negative, got %d", c.NThreads)
	}
	if c.ParallelThreshold <= 0 {
		return fmt.Errorf("parallel_threshold must be positive, got %d", c.ParallelThreshold)
	}
	if c.ChunkSize < 0 {
		return fmt.Errorf("chunk_size must be non-negative, got %d", c.ChunkSize)
	}
	return nil
}

// WithDefaults fills zero values with defaults. NThreads stays zero so that
// EffectiveThreads can keep tracking hardware concurrency.
func (c Config) WithDefaults() Config {
	d := NewConfig()
	if c.ParallelThreshold == 0 {
		c.ParallelThreshold = d.ParallelThreshold
	}
	if c.ChunkSize == 0 {
		c.ChunkSize = d.ChunkSize
	}
	return c
}

// EffectiveThreads resolves NThreads, defaulting to the CPU count.
func (c Config) EffectiveThreads() int {
	if c.NThreads > 0 {
		return c.NThreads
	}
	return runtime.NumCPU()
}

// Set replaces the global configuration.
func Set(c Config) {
	mu.Lock()
	defer mu.Unlock()
	globalConfig = c.WithDefaults()
}

// Get returns a copy of the global configuration.
func Get() Config {
	mu.RLock()
	defer mu.RUnlock()
	return globalConfig
}

// SetLogger installs the call-tracing logger hook. A nil logger resets to the
// no-op logger.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// Logger returns the configured logger.
func Logger() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// LoadFromFile loads options from a JSON or YAML file.
func LoadFromFile(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file %s: %w", filename, err)
	}

	var c Config
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".json":
		err = json.Unmarshal(data, &c)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &c)
	default:
		return Config{}, fmt.Errorf("unsupported config file format: %s", ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("parsing config file %s: %w", filename, err)
	}
	c = c.WithDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// LoadFromEnv loads options from COLDFRAME_* environment variables.
func LoadFromEnv() Config {
	c := NewConfig()
	if v := os.Getenv("COLDFRAME_NTHREADS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.NThreads = n
		}
	}
	if v := os.Getenv("COLDFRAME_PARALLEL_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.ParallelThreshold = n
		}
	}
	if v := os.Getenv("COLDFRAME_CHUNK_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.ChunkSize = n
		}
	}
	if v := os.Getenv("COLDFRAME_VERBOSE_LOGGING"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.VerboseLogging = b
		}
	}
	return c
}
