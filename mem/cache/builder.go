package cache

import (
	"github.com/sarchlab/memtrace/mem/cache/internal/tagging"
)

// Builder can build cache hierarchies.
type Builder struct {
	config Config
}

// MakeBuilder creates a builder with the default configuration.
func MakeBuilder() Builder {
	return Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the whole configuration.
func (b Builder) WithConfig(config Config) Builder {
	b.config = config
	return b
}

// WithL1I sets the instruction cache configuration.
func (b Builder) WithL1I(config LevelConfig) Builder {
	b.config.L1I = config
	return b
}

// WithL1D sets the data cache configuration.
func (b Builder) WithL1D(config LevelConfig) Builder {
	b.config.L1D = config
	return b
}

// WithL2 sets the unified L2 configuration.
func (b Builder) WithL2(config LevelConfig) Builder {
	b.config.L2 = config
	return b
}

// WithSeed sets the seed used by random replacement.
func (b Builder) WithSeed(seed int64) Builder {
	b.config.Seed = seed
	return b
}

// Build creates a hierarchy. It panics if the configuration is invalid; call
// Config.Validate first when the configuration comes from a user.
func (b Builder) Build() *Hierarchy {
	err := b.config.Validate()
	if err != nil {
		panic(err)
	}

	return &Hierarchy{
		L1I: b.buildLevel("L1I", b.config.L1I, b.config.Seed),
		L1D: b.buildLevel("L1D", b.config.L1D, b.config.Seed+1),
		L2:  b.buildLevel("L2", b.config.L2, b.config.Seed+2),
	}
}

func (b Builder) buildLevel(name string, config LevelConfig, seed int64) *Cache {
	return &Cache{
		name:        name,
		writePolicy: config.WritePolicy,
		tags: tagging.NewTagArray(
			config.NumSets(), config.Ways, config.BlockSize),
		victimFinder: b.createVictimFinder(config.Replacement, seed),
	}
}

func (b Builder) createVictimFinder(
	replacement string,
	seed int64,
) tagging.VictimFinder {
	switch replacement {
	case ReplaceLRU:
		return tagging.NewLRUVictimFinder()
	case ReplaceRandom:
		return tagging.NewRandomVictimFinder(seed)
	default:
		panic("unknown replacement policy: " + replacement)
	}
}
