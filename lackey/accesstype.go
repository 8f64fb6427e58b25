// Package lackey translates memory-access logs produced by Valgrind's Lackey
// tool (--trace-mem=yes) into BYU address trace records.
package lackey

import "github.com/sarchlab/memtrace/byutr"

// AccessType classifies the access-type token at the start of a trace line.
type AccessType int

// Access types. SkipAccess covers modify accesses and every code the translator
// does not understand.
const (
	SkipAccess AccessType = iota
	InstructionRead
	DataRead
	DataWrite
)

var accessTypeTable = map[string]AccessType{
	"I": InstructionRead,
	"L": DataRead,
	"S": DataWrite,
}

// ParseAccessType maps a token to its access type.
func ParseAccessType(token string) AccessType {
	return accessTypeTable[token]
}

// ReqType returns the BYU request type of the access. It panics for SkipAccess,
// which has no encoding.
func (t AccessType) ReqType() byutr.ReqType {
	switch t {
	case InstructionRead:
		return byutr.Fetch
	case DataRead:
		return byutr.MemRead
	case DataWrite:
		return byutr.MemWrite
	default:
		panic("skipped accesses have no request type")
	}
}

func (t AccessType) String() string {
	switch t {
	case InstructionRead:
		return "InstructionRead"
	case DataRead:
		return "DataRead"
	case DataWrite:
		return "DataWrite"
	default:
		return "Skip"
	}
}
