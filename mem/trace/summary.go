package trace

import (
	"github.com/sarchlab/memtrace/datarecording"
	"github.com/sarchlab/memtrace/lackey"
	"github.com/sarchlab/memtrace/mem/cache"
)

// Table names used by the summary writers.
const (
	ConversionRunTable = "conversion_runs"
	CacheReportTable   = "cache_reports"
)

// ConversionRun identifies a conversion and how it ended.
type ConversionRun struct {
	RunID  string
	Input  string
	Output string
	Err    error
}

type conversionRunEntry struct {
	RunID     string
	Input     string
	Output    string
	Lines     uint64
	BytesRead uint64
	Records   uint64
	Fetches   uint64
	Reads     uint64
	Writes    uint64
	Comments  uint64
	Blanks    uint64
	Modifies  uint64
	Unknowns  uint64
	Malformed uint64
	Failed    bool
	Error     string
}

type cacheReportEntry struct {
	RunID        string
	Level        string
	ReadHit      uint64
	ReadMiss     uint64
	WriteHit     uint64
	WriteMiss    uint64
	HitRate      float64
	ReadHitRate  float64
	WriteHitRate float64
}

// RecordConversion writes a one-row summary of a conversion.
func RecordConversion(
	dataRecorder datarecording.DataRecorder,
	run ConversionRun,
	stats lackey.Stats,
) {
	dataRecorder.CreateTable(ConversionRunTable, conversionRunEntry{})

	entry := conversionRunEntry{
		RunID:     run.RunID,
		Input:     run.Input,
		Output:    run.Output,
		Lines:     stats.Lines,
		BytesRead: stats.BytesRead,
		Records:   stats.Records(),
		Fetches:   stats.Fetches,
		Reads:     stats.Reads,
		Writes:    stats.Writes,
		Comments:  stats.Comments,
		Blanks:    stats.Blanks,
		Modifies:  stats.Modifies,
		Unknowns:  stats.Unknowns,
		Malformed: stats.Malformed,
	}

	if run.Err != nil {
		entry.Failed = true
		entry.Error = run.Err.Error()
	}

	dataRecorder.InsertData(ConversionRunTable, entry)
}

// RecordCacheReport writes one row per cache level.
func RecordCacheReport(
	dataRecorder datarecording.DataRecorder,
	runID string,
	report cache.Summary,
) {
	dataRecorder.CreateTable(CacheReportTable, cacheReportEntry{})

	for _, level := range []cache.LevelSummary{report.L1I, report.L1D, report.L2} {
		dataRecorder.InsertData(CacheReportTable, cacheReportEntry{
			RunID:        runID,
			Level:        level.Name,
			ReadHit:      level.ReadHit,
			ReadMiss:     level.ReadMiss,
			WriteHit:     level.WriteHit,
			WriteMiss:    level.WriteMiss,
			HitRate:      level.HitRate(),
			ReadHitRate:  level.ReadHitRate(),
			WriteHitRate: level.WriteHitRate(),
		})
	}
}
