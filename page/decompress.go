// decompress.go - Page-level run-length decompression
package page

import (
	"fmt"

	"github.com/wilhasse/go-tps/format"
)

// runLength reads a 1- or 2-byte length. Values above 0x7F borrow the next byte:
// ((next << 8) + ((first & 0x7F) << 1)) >> 1.
func runLength(data []byte, pos int) (int, int, error) {
	if pos >= len(data) {
		return 0, pos, &format.CorruptPageError{Offset: pos, Reason: "missing run length"}
	}
	n := int(data[pos])
	pos++
	if n > 0x7F {
		if pos >= len(data) {
			return 0, pos, &format.CorruptPageError{Offset: pos, Reason: "truncated 2-byte run length"}
		}
		n = ((int(data[pos]) << 8) + ((n & 0x7F) << 1)) >> 1
		pos++
	}
	return n, pos, nil
}

// Decompress expands a compressed page body. The stream alternates a literal run
// (length, bytes) with a repeat run (count) of the last byte emitted.
func Decompress(data []byte) ([]byte, error) {
	out := make([]byte, 0, len(data)*2)
	pos := 0
	for pos < len(data) {
		n, next, err := runLength(data, pos)
		if err != nil {
			return nil, err
		}
		pos = next
		if pos+n > len(data) {
			return nil, &format.CorruptPageError{Offset: pos,
				Reason: fmt.Sprintf("literal run of %d overruns body of %d", n, len(data))}
		}
		out = append(out, data[pos:pos+n]...)
		pos += n

		if pos >= len(data) {
			break
		}
		count, next, err := runLength(data, pos)
		if err != nil {
			return nil, err
		}
		pos = next
		if count == 0 {
			continue
		}
		if len(out) == 0 {
			return nil, &format.CorruptPageError{Offset: pos, Reason: "repeat run before any literal byte"}
		}
		b := out[len(out)-1]
		for i := 0; i < count; i++ {
			out = append(out, b)
		}
	}
	return out, nil
}
