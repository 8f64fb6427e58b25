package tagging

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Tags", func() {
	var tags *tagArrayImpl

	BeforeEach(func() {
		tags = NewTagArray(1024, 4, 64).(*tagArrayImpl)
	})

	It("should be able to get total size", func() {
		Expect(tags.TotalSize()).To(Equal(uint64(262144)))
	})

	It("should map addresses to sets", func() {
		_, setID := tags.GetSet(0x100)
		Expect(setID).To(Equal(4))

		_, setID = tags.GetSet(0x100 + 1024*64)
		Expect(setID).To(Equal(4))
	})

	It("should lookup any address within a block", func() {
		set, _ := tags.GetSet(0x100)
		set.Blocks[2].Tag = 0x100
		set.Blocks[2].IsValid = true

		block, ok := tags.Lookup(0x13f)

		Expect(ok).To(BeTrue())
		Expect(block.WayID).To(Equal(2))
	})

	It("should miss when the block is invalid", func() {
		set, _ := tags.GetSet(0x100)
		set.Blocks[0].Tag = 0x100

		block, ok := tags.Lookup(0x100)

		Expect(ok).To(BeFalse())
		Expect(block).To(BeZero())
	})

	It("should update blocks", func() {
		tags.Update(Block{Tag: 0x100, SetID: 4, WayID: 1, IsValid: true, IsDirty: true})

		block, ok := tags.Lookup(0x100)

		Expect(ok).To(BeTrue())
		Expect(block.IsDirty).To(BeTrue())
	})

	It("should update LRU queue when visiting a block", func() {
		set, _ := tags.GetSet(0x100)

		tags.Visit(set.Blocks[1])

		Expect(set.LRUQueue).To(Equal([]int{0, 2, 3, 1}))
	})

	It("should invalidate everything on reset", func() {
		tags.Update(Block{Tag: 0x100, SetID: 4, WayID: 1, IsValid: true})

		tags.Reset()

		_, ok := tags.Lookup(0x100)
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("Victim finders", func() {
	var tags TagArray

	BeforeEach(func() {
		tags = NewTagArray(1, 4, 64)
	})

	fill := func() {
		for way := 0; way < 4; way++ {
			tags.Update(Block{Tag: uint64(way * 64), WayID: way, IsValid: true})
		}
	}

	It("should prefer invalid blocks with LRU", func() {
		tags.Update(Block{Tag: 0, WayID: 0, IsValid: true})

		victim := NewLRUVictimFinder().FindVictim(tags, 0x40)

		Expect(victim.IsValid).To(BeFalse())
		Expect(victim.WayID).To(Equal(1))
	})

	It("should evict the least recently used block", func() {
		fill()
		set, _ := tags.GetSet(0)
		tags.Visit(set.Blocks[0])

		victim := NewLRUVictimFinder().FindVictim(tags, 0x100)

		Expect(victim.WayID).To(Equal(1))
	})

	It("should prefer invalid blocks with random replacement", func() {
		tags.Update(Block{Tag: 0, WayID: 0, IsValid: true})

		victim := NewRandomVictimFinder(1).FindVictim(tags, 0x40)

		Expect(victim.WayID).To(Equal(1))
	})

	It("should make reproducible random choices", func() {
		fill()

		a := NewRandomVictimFinder(42)
		b := NewRandomVictimFinder(42)
		for i := 0; i < 16; i++ {
			Expect(a.FindVictim(tags, 0).WayID).
				To(Equal(b.FindVictim(tags, 0).WayID))
		}
	})
})
