package byutr

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// ErrTruncatedTrace is returned when a trace ends in the middle of a record.
var ErrTruncatedTrace = errors.New("byutr: truncated trace")

// Reader reads records one at a time.
type Reader struct {
	r      *bufio.Reader
	buf    [RecordSize]byte
	offset uint64
}

// NewReader creates a Reader on top of r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// ReadRecord returns the next record. It returns io.EOF when the trace ends on
// a record boundary.
func (r *Reader) ReadRecord() (Record, error) {
	n, err := io.ReadFull(r.r, r.buf[:])
	switch {
	case errors.Is(err, io.EOF):
		return Record{}, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		return Record{}, fmt.Errorf("%w: %d trailing bytes at offset %d",
			ErrTruncatedTrace, n, r.offset)
	case err != nil:
		return Record{}, err
	}

	r.offset += RecordSize

	return Decode(r.buf[:])
}

// Offset returns the byte offset of the next record to be read.
func (r *Reader) Offset() uint64 {
	return r.offset
}
