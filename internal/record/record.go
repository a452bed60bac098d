package record

import "encoding/binary"

// Size is the fixed on-disk width of one encoded Record.
//
// The layout is the packed C struct order, little-endian:
//
//	timestamp u32 | id u32 | type u8 | unit u8 | value i32 | reserved 2B
const Size = 16

// Record is one fixed-size logged measurement. Records are immutable once
// written; the engine only ever removes a contiguous prefix of them.
type Record struct {
	// Timestamp is seconds since the Unix epoch, or a monotonic fallback when
	// no wall clock is available.
	Timestamp uint32
	// ID is strictly increasing and unique for the lifetime of the log.
	ID uint32
	// Type and Unit are caller-defined semantic tags, opaque to the engine.
	Type uint8
	Unit uint8
	// Value is the measured value multiplied by 1000 (fixed-point).
	Value int32
	// Reserved bytes round-trip verbatim. Zero unless the caller sets them.
	Reserved [2]byte
}

// RealValue returns the measurement as a float.
func (r Record) RealValue() float64 { return float64(r.Value) / 1000 }

// AppendTo appends the encoded record to dst and returns the extended slice.
func (r Record) AppendTo(dst []byte) []byte {
	var buf [Size]byte
	binary.LittleEndian.PutUint32(buf[0:4], r.Timestamp)
	binary.LittleEndian.PutUint32(buf[4:8], r.ID)
	buf[8] = r.Type
	buf[9] = r.Unit
	binary.LittleEndian.PutUint32(buf[10:14], uint32(r.Value))
	buf[14] = r.Reserved[0]
	buf[15] = r.Reserved[1]
	return append(dst, buf[:]...)
}

// Encode returns the fixed-width encoding of r.
func Encode(r Record) []byte {
	return r.AppendTo(make([]byte, 0, Size))
}

// Decode decodes one record from the first Size bytes of b. It reports false
// only when b is too short; any full-width bit pattern decodes to some record.
func Decode(b []byte) (Record, bool) {
	if len(b) < Size {
		return Record{}, false
	}
	var r Record
	r.Timestamp = binary.LittleEndian.Uint32(b[0:4])
	r.ID = binary.LittleEndian.Uint32(b[4:8])
	r.Type = b[8]
	r.Unit = b[9]
	r.Value = int32(binary.LittleEndian.Uint32(b[10:14]))
	r.Reserved[0] = b[14]
	r.Reserved[1] = b[15]
	return r, true
}
