package lackey

import (
	"errors"
	"fmt"
)

// Causes of a malformed line.
var (
	ErrMissingSeparator = errors.New("missing ',' between address and size")
	ErrEmptyAccess      = errors.New("no access type or address before ','")
	ErrSizeOutOfRange   = errors.New("access size does not fit in 8 bits")
)

// ErrSameFile is returned when the output path names the input file.
var ErrSameFile = errors.New("output file is the input file")

// A ParseError reports a line that could not be translated.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
