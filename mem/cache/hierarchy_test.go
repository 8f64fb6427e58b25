package cache

import (
	"bytes"
	"context"
	"strings"

	"github.com/sarchlab/memtrace/byutr"
	"github.com/sarchlab/memtrace/hooking"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Hierarchy", func() {
	var h *Hierarchy

	BeforeEach(func() {
		h = MakeBuilder().Build()
	})

	It("should miss everywhere on a cold fetch and hit afterwards", func() {
		h.Fetch(0x0)
		h.Fetch(0x8)

		r := h.Summary()
		Expect(r.L1I.Counters).To(Equal(Counters{ReadHit: 1, ReadMiss: 1}))
		Expect(r.L2.Counters).To(Equal(Counters{ReadMiss: 1}))
		Expect(r.Accesses).To(Equal(uint64(2)))
	})

	It("should fill L1D from L2", func() {
		h.Fetch(0x0)
		h.Read(0x0)

		r := h.Summary()
		Expect(r.L1D.Counters).To(Equal(Counters{ReadMiss: 1}))
		Expect(r.L2.Counters).To(Equal(Counters{ReadHit: 1, ReadMiss: 1}))
	})

	It("should allocate and dirty the block on a write-back miss", func() {
		h.Write(0x100)
		h.Write(0x104)

		r := h.Summary()
		Expect(r.L1D.Counters).To(Equal(Counters{WriteHit: 1, WriteMiss: 1}))
		Expect(r.L2.Counters).To(Equal(Counters{WriteMiss: 1}))
		Expect(h.L1D.IsDirty(0x100)).To(BeTrue())
		Expect(h.L2.IsDirty(0x100)).To(BeFalse())
	})

	It("should write dirty L1 victims back to L2", func() {
		h.Write(0x0)
		h.Read(0x100)
		h.Read(0x200)

		r := h.Summary()
		Expect(r.L1D.Counters).To(Equal(Counters{ReadMiss: 2, WriteMiss: 1}))
		Expect(r.L2.Counters).To(Equal(Counters{
			ReadMiss:  2,
			WriteHit:  1,
			WriteMiss: 1,
		}))
		Expect(h.L1D.Lookup(0x0)).To(BeFalse())
		Expect(h.L2.IsDirty(0x0)).To(BeTrue())
	})

	It("should send dirty L2 victims to memory", func() {
		tiny := LevelConfig{
			ByteSize:    64,
			Ways:        1,
			BlockSize:   64,
			WritePolicy: WriteBack,
			Replacement: ReplaceLRU,
		}
		h = MakeBuilder().WithL1D(tiny).WithL2(tiny).Build()

		h.Write(0x0)
		h.Write(0x40)

		r := h.Summary()
		Expect(r.L2.Counters).To(Equal(Counters{WriteHit: 1, WriteMiss: 2}))
		Expect(r.MemWrites).To(Equal(uint64(1)))
	})

	Context("with a write-through L1D", func() {
		BeforeEach(func() {
			cfg := DefaultConfig()
			cfg.L1D.WritePolicy = WriteThrough
			h = MakeBuilder().WithConfig(cfg).Build()
		})

		It("should propagate every write to L2", func() {
			h.Write(0x40)
			h.Write(0x40)

			r := h.Summary()
			Expect(r.L1D.Counters).To(Equal(Counters{WriteHit: 1, WriteMiss: 1}))
			Expect(r.L2.Counters).To(Equal(Counters{WriteHit: 1, WriteMiss: 1}))
			Expect(h.L1D.IsDirty(0x40)).To(BeFalse())
			Expect(h.L2.IsDirty(0x40)).To(BeTrue())
		})

		It("should count memory writes when L2 is write-through too", func() {
			h.L2.writePolicy = WriteThrough

			h.Write(0x40)
			h.Write(0x80)

			Expect(h.Summary().MemWrites).To(Equal(uint64(2)))
		})
	})

	It("should dispatch records by request type", func() {
		h.Access(byutr.Record{Address: 0x0, Type: byutr.Fetch})
		h.Access(byutr.Record{Address: 0x0, Type: byutr.MemRead})
		h.Access(byutr.Record{Address: 0x0, Type: byutr.MemWrite})
		h.Access(byutr.Record{Address: 0x0, Type: byutr.MemReadInv})

		r := h.Summary()
		Expect(r.Accesses).To(Equal(uint64(3)))
		Expect(r.Ignored).To(Equal(uint64(1)))
		Expect(r.L1I.ReadMiss).To(Equal(uint64(1)))
		Expect(r.L1D.ReadMiss).To(Equal(uint64(1)))
		Expect(r.L1D.WriteHit).To(Equal(uint64(1)))
	})

	It("should replay a trace", func() {
		buf := new(bytes.Buffer)
		w := byutr.NewWriter(buf)
		for i := uint64(0); i < 10; i++ {
			Expect(w.WriteRecord(byutr.Record{
				Address: i * 4, Type: byutr.Fetch, Size: 4,
			})).To(Succeed())
		}
		Expect(w.Flush()).To(Succeed())

		err := h.Replay(context.Background(), byutr.NewReader(buf))

		Expect(err).NotTo(HaveOccurred())
		r := h.Summary()
		Expect(r.Accesses).To(Equal(uint64(10)))
		Expect(r.L1I.ReadMiss).To(Equal(uint64(1)))
		Expect(r.L1I.ReadHit).To(Equal(uint64(9)))
	})

	It("should stop replaying when canceled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := h.Replay(ctx, byutr.NewReader(bytes.NewReader(nil)))

		Expect(err).To(MatchError(context.Canceled))
	})

	It("should invoke hooks on every lookup", func() {
		var events []AccessEvent
		h.AcceptHook(hooking.HookFunc(func(ctx hooking.HookCtx) {
			events = append(events, ctx.Item.(AccessEvent))
		}))

		h.Fetch(0x0)

		Expect(events).To(Equal([]AccessEvent{
			{Level: "L1I", Kind: AccessRead, Address: 0x0, Hit: false},
			{Level: "L2", Kind: AccessRead, Address: 0x0, Hit: false},
		}))
	})

	It("should clear everything on reset", func() {
		h.Fetch(0x0)

		h.Reset()

		Expect(h.Summary()).To(Equal(Summary{
			L1I: LevelSummary{Name: "L1I"},
			L1D: LevelSummary{Name: "L1D"},
			L2:  LevelSummary{Name: "L2"},
		}))
		Expect(h.L1I.Lookup(0x0)).To(BeFalse())
	})

	It("should build with random replacement", func() {
		cfg := DefaultConfig()
		cfg.L2.Replacement = ReplaceRandom
		h = MakeBuilder().WithConfig(cfg).WithSeed(7).Build()

		for i := uint64(0); i < 64; i++ {
			h.Read(i * 64)
		}

		Expect(h.Summary().L2.ReadMiss).To(Equal(uint64(64)))
	})
})

var _ = Describe("Summary", func() {
	It("should print hit rates", func() {
		h := MakeBuilder().Build()
		h.Fetch(0x0)
		h.Fetch(0x0)

		out := new(bytes.Buffer)
		h.Summary().Print(out)

		Expect(out.String()).To(ContainSubstring(
			"-- L1I -- Read_Hits: 1  Read_Miss: 1  [Hit Rate: 50.00%]"))
		Expect(out.String()).To(ContainSubstring("Executed 2 instructions."))
		Expect(strings.Count(out.String(), "Write_Hits")).To(Equal(2))
	})

	It("should report zero rates for unused levels", func() {
		r := LevelSummary{}

		Expect(r.HitRate()).To(BeZero())
		Expect(r.ReadHitRate()).To(BeZero())
		Expect(r.WriteHitRate()).To(BeZero())
	})
})

var _ = Describe("Config", func() {
	It("should accept the defaults", func() {
		Expect(DefaultConfig().Validate()).To(Succeed())
	})

	DescribeTable("invalid levels",
		func(mutate func(*LevelConfig), msg string) {
			cfg := DefaultConfig()
			mutate(&cfg.L2)

			err := cfg.Validate()

			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(HavePrefix("l2: "))
			Expect(err.Error()).To(ContainSubstring(msg))
		},
		Entry("zero ways", func(c *LevelConfig) { c.Ways = 0 }, "positive"),
		Entry("odd block size", func(c *LevelConfig) { c.BlockSize = 48 }, "power of two"),
		Entry("partial sets", func(c *LevelConfig) { c.ByteSize = 1000 }, "whole number"),
		Entry("three sets", func(c *LevelConfig) {
			c.ByteSize = 384
		}, "number of sets 3"),
		Entry("unknown write policy", func(c *LevelConfig) {
			c.WritePolicy = "write-around"
		}, "write policy"),
		Entry("unknown replacement", func(c *LevelConfig) {
			c.Replacement = "fifo"
		}, "replacement"),
	)

	It("should make the builder panic on invalid configurations", func() {
		cfg := DefaultConfig()
		cfg.L1I.Ways = 3

		Expect(func() { MakeBuilder().WithConfig(cfg).Build() }).To(Panic())
	})
})
