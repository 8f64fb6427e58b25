package tagging

import "math/rand"

// A VictimFinder decides which block is replaced when a set is full.
type VictimFinder interface {
	FindVictim(tags TagArray, address uint64) Block
}

// LRUVictimFinder picks an invalid block if there is one and the least
// recently used block otherwise.
type LRUVictimFinder struct{}

// NewLRUVictimFinder returns a newly constructed LRU victim finder.
func NewLRUVictimFinder() *LRUVictimFinder {
	return &LRUVictimFinder{}
}

// FindVictim returns the block to replace in the set of address.
func (e *LRUVictimFinder) FindVictim(tags TagArray, address uint64) Block {
	set, _ := tags.GetSet(address)

	for _, wayID := range set.LRUQueue {
		if !set.Blocks[wayID].IsValid {
			return set.Blocks[wayID]
		}
	}

	return set.Blocks[set.LRUQueue[0]]
}

// RandomVictimFinder picks an invalid block if there is one and a random way
// otherwise.
type RandomVictimFinder struct {
	rng *rand.Rand
}

// NewRandomVictimFinder returns a victim finder whose choices are determined
// by seed.
func NewRandomVictimFinder(seed int64) *RandomVictimFinder {
	return &RandomVictimFinder{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// FindVictim returns the block to replace in the set of address.
func (e *RandomVictimFinder) FindVictim(tags TagArray, address uint64) Block {
	set, _ := tags.GetSet(address)

	for _, block := range set.Blocks {
		if !block.IsValid {
			return block
		}
	}

	return set.Blocks[e.rng.Intn(len(set.Blocks))]
}
