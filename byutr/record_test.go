package byutr

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Record", func() {
	It("should lay out fields little endian", func() {
		rec := Record{Address: 0x1048d0, Type: Fetch, Size: 2}

		buf, err := rec.MarshalBinary()

		Expect(err).NotTo(HaveOccurred())
		Expect(buf).To(Equal([]byte{
			0xd0, 0x48, 0x10, 0, 0, 0, 0, 0,
			0x00, 0x02,
			0, 0,
			0, 0, 0, 0,
		}))
	})

	It("should decode what it encodes", func() {
		rec := Record{Address: 0x7ff000123456, Type: MemWrite, Size: 8}
		buf := make([]byte, RecordSize)
		rec.Encode(buf)

		decoded, err := Decode(buf)

		Expect(err).NotTo(HaveOccurred())
		Expect(decoded).To(Equal(rec))
		Expect(decoded.HasZeroReserved()).To(BeTrue())
	})

	It("should keep the full 64-bit address", func() {
		rec := Record{Address: 0xffffffffffffffff, Type: MemRead, Size: 255}
		buf, _ := rec.MarshalBinary()

		var decoded Record
		Expect(decoded.UnmarshalBinary(buf)).To(Succeed())
		Expect(decoded.Address).To(Equal(uint64(0xffffffffffffffff)))
		Expect(decoded.Size).To(Equal(uint8(255)))
	})

	It("should encode reserved fields at their offsets", func() {
		rec := Record{Attr: 0xaa, Proc: 0xbb, Time: 0x01020304}
		buf, _ := rec.MarshalBinary()

		Expect(buf[10]).To(Equal(byte(0xaa)))
		Expect(buf[11]).To(Equal(byte(0xbb)))
		Expect(buf[12:16]).To(Equal([]byte{0x04, 0x03, 0x02, 0x01}))
		Expect(rec.HasZeroReserved()).To(BeFalse())
	})

	It("should reject short buffers", func() {
		_, err := Decode(make([]byte, RecordSize-1))

		Expect(err).To(MatchError(ErrShortRecord))
	})

	It("should name request types", func() {
		Expect(Fetch.String()).To(Equal("fetch"))
		Expect(MemRead.String()).To(Equal("read"))
		Expect(MemWrite.String()).To(Equal("write"))
		Expect(ReqType(0x7f).String()).To(Equal("0x7f"))
	})
})
