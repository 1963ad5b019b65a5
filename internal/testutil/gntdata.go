// Package testutil builds synthetic GNT byte streams for tests.
package testutil

import "encoding/binary"

// GB2312 byte pairs for a few well-known characters, so tests don't need an
// encoder to construct fixtures.
var (
	LabelNi    = [2]byte{0xC4, 0xE3} // 你
	LabelHao   = [2]byte{0xBA, 0xC3} // 好
	LabelZhong = [2]byte{0xD6, 0xD0} // 中
	LabelWen   = [2]byte{0xCE, 0xC4} // 文
)

// recordOverhead mirrors the fixed header size of the on-disk format: the
// 4-byte length field (which counts itself), 2 label bytes, and 2+2
// dimension bytes.
const recordOverhead = 10

// AppendRecord appends one well-formed GNT record to dst and returns the
// extended slice. width*height must equal len(pixels).
func AppendRecord(dst []byte, label [2]byte, width, height uint16, pixels []byte) []byte {
	if int(width)*int(height) != len(pixels) {
		panic("testutil: pixel count does not match dimensions")
	}
	return AppendRecordDeclared(dst, uint32(recordOverhead+len(pixels)), label, width, height, pixels)
}

// AppendRecordDeclared is AppendRecord with an explicit length field, for
// exercising corrupt or mismatched declarations.
func AppendRecordDeclared(dst []byte, declared uint32, label [2]byte, width, height uint16, pixels []byte) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, declared)
	dst = append(dst, label[0], label[1])
	dst = binary.LittleEndian.AppendUint16(dst, width)
	dst = binary.LittleEndian.AppendUint16(dst, height)
	return append(dst, pixels...)
}

// Gradient returns width*height bytes with a deterministic, position-derived
// pattern, handy for asserting pixel order survives a decode.
func Gradient(width, height uint16) []byte {
	pixels := make([]byte, int(width)*int(height))
	for i := range pixels {
		pixels[i] = byte(i * 7)
	}
	return pixels
}
