package vertex

import "encoding/binary"

// encodeWord writes v into a width-byte little-endian buffer, truncating
// high bits that don't fit. width is normally 1, 4, or 8.
func encodeWord(v uint64, width int) []byte {
	buf := make([]byte, width)
	for i := 0; i < width && i < 8; i++ {
		buf[i] = byte(v >> (8 * i))
	}
	return buf
}

// decodeWord reads a little-endian value out of buf, zero-extending if buf
// is shorter than 8 bytes.
func decodeWord(buf []byte) uint64 {
	var full [8]byte
	copy(full[:], buf)
	return binary.LittleEndian.Uint64(full[:])
}
