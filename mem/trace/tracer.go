// Package trace provides hooks that record what the translator and the cache
// hierarchy do.
package trace

import (
	"log"

	"github.com/sarchlab/memtrace/datarecording"
	"github.com/sarchlab/memtrace/hooking"
	"github.com/sarchlab/memtrace/lackey"
	"github.com/sarchlab/memtrace/mem/cache"
)

// Table names used by the recording hooks.
const (
	MemoryAccessTable = "memory_accesses"
	SkippedLineTable  = "skipped_lines"
	CacheAccessTable  = "cache_accesses"
)

// memoryAccessEntry represents an emitted record in the database. Addresses
// are stored as the bit pattern of a signed integer since SQLite has no
// unsigned 64-bit type.
type memoryAccessEntry struct {
	Line    int    `json:"line"`
	Address int64  `json:"address"`
	Type    string `json:"type"`
	Size    uint8  `json:"size"`
}

// skippedLineEntry represents a line that produced no record.
type skippedLineEntry struct {
	Line  int    `json:"line"`
	Kind  string `json:"kind"`
	Text  string `json:"text"`
	Cause string `json:"cause"`
}

// cacheAccessEntry represents one lookup in one cache level.
type cacheAccessEntry struct {
	Seq     uint64 `json:"seq"`
	Level   string `json:"level"`
	Kind    string `json:"kind"`
	Address int64  `json:"address"`
	Hit     bool   `json:"hit"`
}

// A logTracer writes one line per translated record.
type logTracer struct {
	logger *log.Logger
}

// NewLogTracer creates a hook that logs records and skipped lines.
func NewLogTracer(logger *log.Logger) hooking.Hook {
	return &logTracer{logger: logger}
}

func (t *logTracer) Func(ctx hooking.HookCtx) {
	switch ctx.Pos {
	case lackey.HookPosRecordEmitted:
		item := ctx.Item.(lackey.EmittedRecord)
		t.logger.Printf("record, %d, 0x%x, %s, %d\n",
			item.Line,
			item.Record.Address,
			item.Record.Type,
			item.Record.Size)
	case lackey.HookPosLineSkipped:
		item := ctx.Item.(lackey.SkippedLine)
		t.logger.Printf("skip, %d, %s\n", item.Line, item.Kind)
	}
}

// A dbTracer records the translator's output into a database.
type dbTracer struct {
	dataRecorder datarecording.DataRecorder
}

// NewDBTracer creates a hook that records every emitted record and every
// skipped line.
func NewDBTracer(dataRecorder datarecording.DataRecorder) hooking.Hook {
	t := &dbTracer{dataRecorder: dataRecorder}

	t.dataRecorder.CreateTable(MemoryAccessTable, memoryAccessEntry{})
	t.dataRecorder.CreateTable(SkippedLineTable, skippedLineEntry{})

	return t
}

func (t *dbTracer) Func(ctx hooking.HookCtx) {
	switch ctx.Pos {
	case lackey.HookPosRecordEmitted:
		item := ctx.Item.(lackey.EmittedRecord)
		t.dataRecorder.InsertData(MemoryAccessTable, memoryAccessEntry{
			Line:    item.Line,
			Address: int64(item.Record.Address),
			Type:    item.Record.Type.String(),
			Size:    item.Record.Size,
		})
	case lackey.HookPosLineSkipped:
		item := ctx.Item.(lackey.SkippedLine)

		entry := skippedLineEntry{
			Line: item.Line,
			Kind: item.Kind.String(),
			Text: item.Text,
		}
		if item.Err != nil {
			entry.Cause = item.Err.Error()
		}

		t.dataRecorder.InsertData(SkippedLineTable, entry)
	}
}

// A cacheTracer records every cache lookup into a database.
type cacheTracer struct {
	dataRecorder datarecording.DataRecorder
	seq          uint64
}

// NewCacheTracer creates a hook for the cache hierarchy.
func NewCacheTracer(dataRecorder datarecording.DataRecorder) hooking.Hook {
	t := &cacheTracer{dataRecorder: dataRecorder}

	t.dataRecorder.CreateTable(CacheAccessTable, cacheAccessEntry{})

	return t
}

func (t *cacheTracer) Func(ctx hooking.HookCtx) {
	if ctx.Pos != cache.HookPosCacheAccess {
		return
	}

	event := ctx.Item.(cache.AccessEvent)
	t.dataRecorder.InsertData(CacheAccessTable, cacheAccessEntry{
		Seq:     t.seq,
		Level:   event.Level,
		Kind:    string(event.Kind),
		Address: int64(event.Address),
		Hit:     event.Hit,
	})

	t.seq++
}
