package byutr

import (
	"errors"
	"fmt"
	"io"
)

// DumpFormat selects how a Dumper prints records.
type DumpFormat string

// Supported dump formats.
const (
	DumpText DumpFormat = "text"
	DumpCSV  DumpFormat = "csv"
)

// ParseDumpFormat validates a user supplied format name.
func ParseDumpFormat(s string) (DumpFormat, error) {
	switch DumpFormat(s) {
	case DumpText, DumpCSV:
		return DumpFormat(s), nil
	default:
		return "", fmt.Errorf("unknown dump format %q", s)
	}
}

// A Dumper prints the records of a trace in a human readable form.
type Dumper struct {
	out    io.Writer
	format DumpFormat
	limit  uint64
}

// NewDumper creates a Dumper writing to out. A limit of 0 prints every record.
func NewDumper(out io.Writer, format DumpFormat, limit uint64) *Dumper {
	return &Dumper{
		out:    out,
		format: format,
		limit:  limit,
	}
}

// Dump prints records from r until the trace ends or the limit is reached. It
// returns the number of records printed.
func (d *Dumper) Dump(r *Reader) (uint64, error) {
	if d.format == DumpCSV {
		fmt.Fprintln(d.out, "index,address,type,size")
	}

	var n uint64
	for d.limit == 0 || n < d.limit {
		rec, err := r.ReadRecord()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return n, err
		}

		d.print(n, rec)
		n++
	}

	return n, nil
}

func (d *Dumper) print(index uint64, rec Record) {
	switch d.format {
	case DumpCSV:
		fmt.Fprintf(d.out, "%d,0x%x,%s,%d\n",
			index, rec.Address, rec.Type, rec.Size)
	default:
		fmt.Fprintf(d.out, "%8d  %016x  %-6s %3d\n",
			index, rec.Address, rec.Type, rec.Size)
	}
}
