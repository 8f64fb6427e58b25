package cache

import (
	"fmt"
	"io"
)

// LevelSummary is the outcome of a replay for one level.
type LevelSummary struct {
	Name string `json:"name"`
	Counters
}

// Reads returns the number of read lookups.
func (r LevelSummary) Reads() uint64 {
	return r.ReadHit + r.ReadMiss
}

// Writes returns the number of write lookups.
func (r LevelSummary) Writes() uint64 {
	return r.WriteHit + r.WriteMiss
}

// HitRate returns the percentage of all lookups that hit.
func (r LevelSummary) HitRate() float64 {
	return percent(r.ReadHit+r.WriteHit, r.Reads()+r.Writes())
}

// ReadHitRate returns the percentage of read lookups that hit.
func (r LevelSummary) ReadHitRate() float64 {
	return percent(r.ReadHit, r.Reads())
}

// WriteHitRate returns the percentage of write lookups that hit.
func (r LevelSummary) WriteHitRate() float64 {
	return percent(r.WriteHit, r.Writes())
}

func percent(part, total uint64) float64 {
	if total == 0 {
		return 0
	}

	return 100 * float64(part) / float64(total)
}

// Summary is the outcome of a replay of every level.
type Summary struct {
	L1I       LevelSummary `json:"l1i"`
	L1D       LevelSummary `json:"l1d"`
	L2        LevelSummary `json:"l2"`
	Accesses  uint64      `json:"accesses"`
	Ignored   uint64      `json:"ignored"`
	MemWrites uint64      `json:"mem_writes"`
}

// Summary returns the current counters of the hierarchy.
func (h *Hierarchy) Summary() Summary {
	return Summary{
		L1I:       LevelSummary{Name: h.L1I.name, Counters: h.L1I.Counters},
		L1D:       LevelSummary{Name: h.L1D.name, Counters: h.L1D.Counters},
		L2:        LevelSummary{Name: h.L2.name, Counters: h.L2.Counters},
		Accesses:  h.accesses,
		Ignored:   h.ignored,
		MemWrites: h.memWrites,
	}
}

// Print writes the report in the classic simulator layout.
func (r Summary) Print(w io.Writer) {
	fmt.Fprintln(w, " ------- FINISHED SIMULATION --------- ")

	fmt.Fprintf(w,
		"-- L1I -- Read_Hits: %d  Read_Miss: %d  [Hit Rate: %.2f%%]  (Read Hit%%: %.2f%%)\n",
		r.L1I.ReadHit, r.L1I.ReadMiss, r.L1I.HitRate(), r.L1I.ReadHitRate())

	r.printLevel(w, "L1D", r.L1D)
	r.printLevel(w, "L2 ", r.L2)

	fmt.Fprintf(w, "Memory writes: %d\n", r.MemWrites)
	if r.Ignored > 0 {
		fmt.Fprintf(w, "Ignored %d records of other request types.\n", r.Ignored)
	}

	fmt.Fprintf(w, "Executed %d instructions.\n\n", r.Accesses)
}

func (Summary) printLevel(w io.Writer, label string, l LevelSummary) {
	fmt.Fprintf(w,
		"-- %s -- Read_Hits: %d  Read_Miss: %d  Write_Hits: %d  Write_Miss: %d  [Hit Rate: %.2f%%]\n",
		label, l.ReadHit, l.ReadMiss, l.WriteHit, l.WriteMiss, l.HitRate())
	fmt.Fprintf(w, "          (Read Hit%%: %.2f%%   Write Hit%%: %.2f%%)\n",
		l.ReadHitRate(), l.WriteHitRate())
}
