package lackey

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sarchlab/memtrace/byutr"
)

const commentMarker = "=="

// LineKind tells what a line turned out to be.
type LineKind int

// Kinds of trace lines.
const (
	LineRecord LineKind = iota
	LineComment
	LineBlank
	LineModify
	LineUnknown
	LineMalformed
)

func (k LineKind) String() string {
	switch k {
	case LineRecord:
		return "record"
	case LineComment:
		return "comment"
	case LineBlank:
		return "blank"
	case LineModify:
		return "modify"
	case LineUnknown:
		return "unknown"
	case LineMalformed:
		return "malformed"
	default:
		return fmt.Sprintf("LineKind(%d)", int(k))
	}
}

// TraceLine holds the raw fields of an access line.
type TraceLine struct {
	AccessType string
	Address    string
	Size       string
}

// SplitLine breaks an access line into its raw fields. The access part may
// contain extra tokens between the type and the address; they are ignored.
func SplitLine(line string) (TraceLine, error) {
	access, size, found := strings.Cut(line, ",")
	if !found {
		return TraceLine{}, ErrMissingSeparator
	}

	tokens := strings.Fields(access)
	if len(tokens) == 0 {
		return TraceLine{}, ErrEmptyAccess
	}

	return TraceLine{
		AccessType: tokens[0],
		Address:    tokens[len(tokens)-1],
		Size:       strings.TrimSpace(size),
	}, nil
}

// ParseLine translates one line. The returned record is only meaningful when
// the kind is LineRecord. A non-nil error always comes with LineMalformed.
//
// Numeric fields are parsed before the access type is looked at, so a modify
// line with a broken address is still malformed.
func ParseLine(line string) (byutr.Record, LineKind, error) {
	if strings.HasPrefix(line, commentMarker) {
		return byutr.Record{}, LineComment, nil
	}

	if strings.TrimSpace(line) == "" {
		return byutr.Record{}, LineBlank, nil
	}

	fields, err := SplitLine(line)
	if err != nil {
		return byutr.Record{}, LineMalformed, err
	}

	address, err := parseAddress(fields.Address)
	if err != nil {
		return byutr.Record{}, LineMalformed, err
	}

	size, err := parseSize(fields.Size)
	if err != nil {
		return byutr.Record{}, LineMalformed, err
	}

	accessType := ParseAccessType(fields.AccessType)
	if accessType == SkipAccess {
		if fields.AccessType == "M" {
			return byutr.Record{}, LineModify, nil
		}

		return byutr.Record{}, LineUnknown, nil
	}

	rec := byutr.Record{
		Address: address,
		Type:    accessType.ReqType(),
		Size:    size,
	}

	return rec, LineRecord, nil
}

func parseAddress(s string) (uint64, error) {
	hex := s
	if len(hex) > 2 && (hex[:2] == "0x" || hex[:2] == "0X") {
		hex = hex[2:]
	}

	address, err := strconv.ParseUint(hex, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("bad address %q: %w", s, err)
	}

	return address, nil
}

func parseSize(s string) (uint8, error) {
	size, err := strconv.ParseUint(s, 10, 8)
	if errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("%w: %s", ErrSizeOutOfRange, s)
	}

	if err != nil {
		return 0, fmt.Errorf("bad size %q: %w", s, err)
	}

	return uint8(size), nil
}
