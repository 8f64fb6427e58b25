// Package tagging keeps track of which blocks a cache level holds.
package tagging

// A TagArray stores the tags of one cache level.
type TagArray interface {
	Lookup(reqAddr uint64) (Block, bool)
	Update(block Block)
	Visit(block Block)
	GetSet(reqAddr uint64) (set *Set, setID int)
	BlockAddress(reqAddr uint64) uint64
	Reset()
}

// NewTagArray creates a tag array with every block invalid.
func NewTagArray(numSets, numWays, blockSize int) TagArray {
	t := &tagArrayImpl{
		numSets:   numSets,
		numWays:   numWays,
		blockSize: blockSize,
	}

	t.Reset()

	return t
}

// A Block is the bookkeeping associated with one cache line. Tag holds the
// block-aligned address of the data stored in the line.
type Block struct {
	Tag     uint64
	SetID   int
	WayID   int
	IsValid bool
	IsDirty bool
}

// A Set is the group of ways an address can be stored in. LRUQueue lists way
// IDs from least to most recently used.
type Set struct {
	Blocks   []Block
	LRUQueue []int
}

type tagArrayImpl struct {
	numSets   int
	numWays   int
	blockSize int
	sets      []Set
}

// TotalSize returns the number of bytes the array can describe.
func (t *tagArrayImpl) TotalSize() uint64 {
	return uint64(t.numSets) * uint64(t.numWays) * uint64(t.blockSize)
}

// BlockAddress aligns reqAddr down to its block.
func (t *tagArrayImpl) BlockAddress(reqAddr uint64) uint64 {
	return reqAddr / uint64(t.blockSize) * uint64(t.blockSize)
}

// GetSet returns the set that reqAddr maps to.
func (t *tagArrayImpl) GetSet(reqAddr uint64) (set *Set, setID int) {
	setID = int(reqAddr / uint64(t.blockSize) % uint64(t.numSets))
	set = &t.sets[setID]

	return
}

// Lookup finds the valid block holding reqAddr.
func (t *tagArrayImpl) Lookup(reqAddr uint64) (Block, bool) {
	tag := t.BlockAddress(reqAddr)
	set, _ := t.GetSet(reqAddr)

	for _, block := range set.Blocks {
		if block.IsValid && block.Tag == tag {
			return block, true
		}
	}

	return Block{}, false
}

// Update overwrites the block at the block's set and way.
func (t *tagArrayImpl) Update(block Block) {
	t.sets[block.SetID].Blocks[block.WayID] = block
}

// Visit makes the block the most recently used of its set.
func (t *tagArrayImpl) Visit(block Block) {
	set := &t.sets[block.SetID]
	queue := make([]int, 0, len(set.LRUQueue))

	for _, wayID := range set.LRUQueue {
		if wayID != block.WayID {
			queue = append(queue, wayID)
		}
	}

	set.LRUQueue = append(queue, block.WayID)
}

// Reset invalidates every block.
func (t *tagArrayImpl) Reset() {
	t.sets = make([]Set, t.numSets)
	for i := 0; i < t.numSets; i++ {
		for j := 0; j < t.numWays; j++ {
			t.sets[i].Blocks = append(t.sets[i].Blocks, Block{
				SetID: i,
				WayID: j,
			})
			t.sets[i].LRUQueue = append(t.sets[i].LRUQueue, j)
		}
	}
}
