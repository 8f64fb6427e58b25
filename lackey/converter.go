package lackey

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/sarchlab/memtrace/byutr"
	"github.com/sarchlab/memtrace/hooking"
)

// HookPosRecordEmitted is triggered after a record is written. The item is an
// EmittedRecord.
var HookPosRecordEmitted = &hooking.HookPos{Name: "RecordEmitted"}

// HookPosLineSkipped is triggered for every line that produces no record. The
// item is a SkippedLine.
var HookPosLineSkipped = &hooking.HookPos{Name: "LineSkipped"}

// ctxCheckInterval is the number of lines between cancellation checks.
const ctxCheckInterval = 4096

// EmittedRecord is the hook item for HookPosRecordEmitted.
type EmittedRecord struct {
	Line   int
	Record byutr.Record
}

// SkippedLine is the hook item for HookPosLineSkipped. Err is only set for
// malformed lines.
type SkippedLine struct {
	Line int
	Kind LineKind
	Text string
	Err  error
}

// MalformedLinePolicy decides what happens to lines that fail to parse.
type MalformedLinePolicy int

const (
	// FailFast aborts the conversion on the first malformed line.
	FailFast MalformedLinePolicy = iota

	// SkipAndLog logs malformed lines and keeps going.
	SkipAndLog
)

// A ProgressTracker is told how many input bytes have been consumed.
type ProgressTracker interface {
	IncrementFinished(amount uint64)
}

// Stats summarizes a conversion.
type Stats struct {
	Lines     uint64
	BytesRead uint64

	Comments  uint64
	Blanks    uint64
	Modifies  uint64
	Unknowns  uint64
	Malformed uint64

	Fetches uint64
	Reads   uint64
	Writes  uint64
}

// Records returns the number of records written.
func (s Stats) Records() uint64 {
	return s.Fetches + s.Reads + s.Writes
}

// Skipped returns the number of lines that produced no record.
func (s Stats) Skipped() uint64 {
	return s.Comments + s.Blanks + s.Modifies + s.Unknowns + s.Malformed
}

func (s *Stats) count(kind LineKind, rec byutr.Record) {
	switch kind {
	case LineRecord:
		switch rec.Type {
		case byutr.Fetch:
			s.Fetches++
		case byutr.MemRead:
			s.Reads++
		case byutr.MemWrite:
			s.Writes++
		}
	case LineComment:
		s.Comments++
	case LineBlank:
		s.Blanks++
	case LineModify:
		s.Modifies++
	case LineUnknown:
		s.Unknowns++
	case LineMalformed:
		s.Malformed++
	}
}

// Converter turns a Lackey log into a BYU trace, one line at a time.
type Converter struct {
	hooking.HookableBase

	policy   MalformedLinePolicy
	logger   *log.Logger
	progress ProgressTracker
}

// Convert reads lines from r and writes one record per retained line to w.
// With the FailFast policy, the first malformed line stops the conversion and
// is returned as a *ParseError. Records of earlier lines have already been
// handed to w at that point.
func (c *Converter) Convert(
	ctx context.Context,
	r io.Reader,
	w byutr.RecordWriter,
) (Stats, error) {
	var stats Stats

	br := bufio.NewReader(r)
	for lineNo := 1; ; lineNo++ {
		if lineNo%ctxCheckInterval == 1 {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
		}

		text, readErr := br.ReadString('\n')
		if len(text) == 0 {
			if errors.Is(readErr, io.EOF) {
				return stats, nil
			}

			if readErr != nil {
				return stats, readErr
			}
		}

		stats.Lines++
		stats.BytesRead += uint64(len(text))
		if c.progress != nil {
			c.progress.IncrementFinished(uint64(len(text)))
		}

		err := c.translate(lineNo, strings.TrimRight(text, "\r\n"), w, &stats)
		if err != nil {
			return stats, err
		}

		if errors.Is(readErr, io.EOF) {
			return stats, nil
		}

		if readErr != nil {
			return stats, readErr
		}
	}
}

func (c *Converter) translate(
	lineNo int,
	text string,
	w byutr.RecordWriter,
	stats *Stats,
) error {
	rec, kind, err := ParseLine(text)
	if err != nil {
		parseErr := &ParseError{Line: lineNo, Text: text, Err: err}
		if c.policy == FailFast {
			return parseErr
		}

		c.logger.Printf("skipping malformed %v", parseErr)
	}

	stats.count(kind, rec)

	if kind != LineRecord {
		c.InvokeHook(hooking.HookCtx{
			Domain: c,
			Pos:    HookPosLineSkipped,
			Item: SkippedLine{
				Line: lineNo,
				Kind: kind,
				Text: text,
				Err:  err,
			},
		})

		return nil
	}

	err = w.WriteRecord(rec)
	if err != nil {
		return fmt.Errorf("writing record for line %d: %w", lineNo, err)
	}

	c.InvokeHook(hooking.HookCtx{
		Domain: c,
		Pos:    HookPosRecordEmitted,
		Item:   EmittedRecord{Line: lineNo, Record: rec},
	})

	return nil
}

// ConvertFile converts the log at inPath into a trace at outPath. The output
// file is created or truncated. If the conversion aborts, the records written
// before the failing line are kept.
func (c *Converter) ConvertFile(
	ctx context.Context,
	inPath, outPath string,
) (stats Stats, err error) {
	in, err := os.Open(inPath)
	if err != nil {
		return stats, err
	}
	defer in.Close()

	err = checkDistinct(in, outPath)
	if err != nil {
		return stats, err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return stats, err
	}

	defer func() {
		closeErr := out.Close()
		if err == nil {
			err = closeErr
		}
	}()

	w := byutr.NewWriter(out)

	stats, err = c.Convert(ctx, in, w)

	flushErr := w.Flush()
	if err == nil {
		err = flushErr
	}

	return stats, err
}

// checkDistinct fails if outPath is the already opened input. Creating it would
// truncate the log before it is read.
func checkDistinct(in *os.File, outPath string) error {
	inInfo, err := in.Stat()
	if err != nil {
		return err
	}

	outInfo, err := os.Stat(outPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	if err != nil {
		return err
	}

	if os.SameFile(inInfo, outInfo) {
		return fmt.Errorf("%s: %w", outPath, ErrSameFile)
	}

	return nil
}
