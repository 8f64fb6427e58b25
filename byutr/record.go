// Package byutr reads and writes traces in the BYU Address Trace format.
//
// A trace is a flat sequence of 16-byte little-endian records:
//
//	offset  size  field
//	0       8     address
//	8       1     request type
//	9       1     access size in bytes
//	10      1     attr  (reserved, zero)
//	11      1     proc  (reserved, zero)
//	12      4     time  (reserved, zero)
package byutr

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// RecordSize is the number of bytes a record occupies on disk.
const RecordSize = 16

// ErrShortRecord is returned when decoding from fewer than RecordSize bytes.
var ErrShortRecord = errors.New("byutr: short record")

// ReqType is the request type code of a record.
type ReqType uint8

// Request types defined by the format. The Lackey translator only ever emits
// Fetch, MemRead and MemWrite.
const (
	Fetch                ReqType = 0x00
	MemRead              ReqType = 0x01
	MemReadInv           ReqType = 0x02
	MemWrite             ReqType = 0x03
	IORead               ReqType = 0x10
	IOWrite              ReqType = 0x11
	DeferReply           ReqType = 0x20
	InterruptAck         ReqType = 0x21
	CentralAgentResponse ReqType = 0x22
	BranchTraceRecord    ReqType = 0x23
	Shutdown             ReqType = 0x31
	Flush                ReqType = 0x32
	Halt                 ReqType = 0x33
	Sync                 ReqType = 0x34
	FlushAck             ReqType = 0x35
	StopClockAck         ReqType = 0x36
	SMIAck               ReqType = 0x37
)

var reqTypeNames = map[ReqType]string{
	Fetch:                "fetch",
	MemRead:              "read",
	MemReadInv:           "read-inv",
	MemWrite:             "write",
	IORead:               "io-read",
	IOWrite:              "io-write",
	DeferReply:           "defer-reply",
	InterruptAck:         "inta",
	CentralAgentResponse: "central-agent-rsp",
	BranchTraceRecord:    "branch-trace",
	Shutdown:             "shutdown",
	Flush:                "flush",
	Halt:                 "halt",
	Sync:                 "sync",
	FlushAck:             "flush-ack",
	StopClockAck:         "stop-clock-ack",
	SMIAck:               "smi-ack",
}

func (t ReqType) String() string {
	if name, ok := reqTypeNames[t]; ok {
		return name
	}

	return fmt.Sprintf("0x%02x", uint8(t))
}

// Record is one entry of a BYU address trace.
type Record struct {
	Address uint64
	Type    ReqType
	Size    uint8

	// Reserved fields. Writers produced by this module always leave them zero.
	Attr uint8
	Proc uint8
	Time uint32
}

// Encode writes the record into buf, which must hold at least RecordSize
// bytes.
func (r Record) Encode(buf []byte) {
	_ = buf[RecordSize-1]

	binary.LittleEndian.PutUint64(buf[0:8], r.Address)
	buf[8] = byte(r.Type)
	buf[9] = r.Size
	buf[10] = r.Attr
	buf[11] = r.Proc
	binary.LittleEndian.PutUint32(buf[12:16], r.Time)
}

// MarshalBinary returns the 16-byte encoding of the record.
func (r Record) MarshalBinary() ([]byte, error) {
	buf := make([]byte, RecordSize)
	r.Encode(buf)

	return buf, nil
}

// UnmarshalBinary decodes a record from data.
func (r *Record) UnmarshalBinary(data []byte) error {
	rec, err := Decode(data)
	if err != nil {
		return err
	}

	*r = rec

	return nil
}

// Decode reads a record from the first RecordSize bytes of buf.
func Decode(buf []byte) (Record, error) {
	if len(buf) < RecordSize {
		return Record{}, fmt.Errorf("%w: %d bytes", ErrShortRecord, len(buf))
	}

	return Record{
		Address: binary.LittleEndian.Uint64(buf[0:8]),
		Type:    ReqType(buf[8]),
		Size:    buf[9],
		Attr:    buf[10],
		Proc:    buf[11],
		Time:    binary.LittleEndian.Uint32(buf[12:16]),
	}, nil
}

// HasZeroReserved reports whether all reserved fields are zero.
func (r Record) HasZeroReserved() bool {
	return r.Attr == 0 && r.Proc == 0 && r.Time == 0
}
