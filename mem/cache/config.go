package cache

import (
	"fmt"
	"math/bits"
)

// Write policies.
const (
	WriteBack    = "write-back"
	WriteThrough = "write-through"
)

// Replacement policies.
const (
	ReplaceLRU    = "lru"
	ReplaceRandom = "random"
)

// LevelConfig describes one cache level.
type LevelConfig struct {
	ByteSize    int    `mapstructure:"size" yaml:"size"`
	Ways        int    `mapstructure:"ways" yaml:"ways"`
	BlockSize   int    `mapstructure:"block_size" yaml:"block_size"`
	WritePolicy string `mapstructure:"write_policy" yaml:"write_policy"`
	Replacement string `mapstructure:"replacement" yaml:"replacement"`
}

// NumSets returns the number of sets the level is split into.
func (c LevelConfig) NumSets() int {
	return c.ByteSize / (c.BlockSize * c.Ways)
}

// Validate reports configuration errors.
func (c LevelConfig) Validate() error {
	if c.ByteSize <= 0 || c.Ways <= 0 || c.BlockSize <= 0 {
		return fmt.Errorf("size, ways and block size must be positive")
	}

	if bits.OnesCount(uint(c.BlockSize)) != 1 {
		return fmt.Errorf("block size %d is not a power of two", c.BlockSize)
	}

	if c.ByteSize%(c.BlockSize*c.Ways) != 0 {
		return fmt.Errorf("size %d is not a whole number of %d-way sets of %d bytes",
			c.ByteSize, c.Ways, c.BlockSize)
	}

	if bits.OnesCount(uint(c.NumSets())) != 1 {
		return fmt.Errorf("number of sets %d is not a power of two", c.NumSets())
	}

	switch c.WritePolicy {
	case WriteBack, WriteThrough:
	default:
		return fmt.Errorf("unknown write policy %q", c.WritePolicy)
	}

	switch c.Replacement {
	case ReplaceLRU, ReplaceRandom:
	default:
		return fmt.Errorf("unknown replacement policy %q", c.Replacement)
	}

	return nil
}

// Config describes the L1I, L1D and L2 levels of a hierarchy.
type Config struct {
	L1I  LevelConfig `mapstructure:"l1i" yaml:"l1i"`
	L1D  LevelConfig `mapstructure:"l1d" yaml:"l1d"`
	L2   LevelConfig `mapstructure:"l2" yaml:"l2"`
	Seed int64       `mapstructure:"seed" yaml:"seed"`
}

// DefaultConfig returns the small hierarchy used for course-sized traces:
// 512 B two-way L1s and a 1 KB two-way L2, all with 64 B blocks.
func DefaultConfig() Config {
	return Config{
		L1I: LevelConfig{
			ByteSize:    512,
			Ways:        2,
			BlockSize:   64,
			WritePolicy: WriteBack,
			Replacement: ReplaceLRU,
		},
		L1D: LevelConfig{
			ByteSize:    512,
			Ways:        2,
			BlockSize:   64,
			WritePolicy: WriteBack,
			Replacement: ReplaceLRU,
		},
		L2: LevelConfig{
			ByteSize:    1024,
			Ways:        2,
			BlockSize:   64,
			WritePolicy: WriteBack,
			Replacement: ReplaceLRU,
		},
		Seed: 1,
	}
}

// Validate reports the first configuration error of any level.
func (c Config) Validate() error {
	levels := []struct {
		name string
		cfg  LevelConfig
	}{
		{"l1i", c.L1I},
		{"l1d", c.L1D},
		{"l2", c.L2},
	}

	for _, l := range levels {
		if err := l.cfg.Validate(); err != nil {
			return fmt.Errorf("%s: %w", l.name, err)
		}
	}

	return nil
}
