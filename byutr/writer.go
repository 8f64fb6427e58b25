package byutr

import (
	"bufio"
	"io"
)

// A RecordWriter accepts records in trace order.
type RecordWriter interface {
	WriteRecord(rec Record) error
}

// Writer appends records to an underlying stream.
type Writer struct {
	w     *bufio.Writer
	buf   [RecordSize]byte
	count uint64
}

// NewWriter creates a Writer on top of w. Call Flush when done.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteRecord encodes rec and appends it to the stream.
func (w *Writer) WriteRecord(rec Record) error {
	rec.Encode(w.buf[:])

	_, err := w.w.Write(w.buf[:])
	if err != nil {
		return err
	}

	w.count++

	return nil
}

// Flush pushes buffered records to the underlying stream.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// Count returns the number of records written so far.
func (w *Writer) Count() uint64 {
	return w.count
}
