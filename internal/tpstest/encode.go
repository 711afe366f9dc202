// encode.go - Inverse of the page decoders, for building fixtures
package tpstest

import "encoding/binary"

func appendRunLength(b []byte, n int) []byte {
	if n < 0x80 {
		return append(b, byte(n))
	}
	return append(b, 0x80|byte(n&0x7F), byte(n>>7))
}

func runAt(b []byte, pos int) int {
	n := 1
	for pos+n < len(b) && b[pos+n] == b[pos] {
		n++
	}
	return n
}

// Compress run-length encodes a page body: literal runs alternating with
// repeat counts of the last literal byte.
func Compress(body []byte) []byte {
	const maxRun = 0x7FFF
	var out []byte
	pos := 0
	for pos < len(body) {
		start := pos
		for pos < len(body) && pos-start < maxRun {
			long := runAt(body, pos) >= 4
			pos++
			if long {
				break
			}
		}
		out = appendRunLength(out, pos-start)
		out = append(out, body[start:pos]...)
		if pos >= len(body) {
			break
		}
		count := 0
		for pos < len(body) && body[pos] == body[pos-1] && count < maxRun {
			count++
			pos++
		}
		out = appendRunLength(out, count)
	}
	return out
}

// Delta encodes records with prefix sharing against the previous record.
func Delta(records [][]byte) []byte {
	var (
		out  []byte
		prev []byte
		size = -1
	)
	for i, r := range records {
		var ctl byte
		if len(r) != size {
			ctl |= 0x80
		}
		if i == 0 {
			ctl |= 0x40
		}
		share := 0
		for share < len(prev) && share < len(r) && share < 0x3F && prev[share] == r[share] {
			share++
		}
		ctl |= byte(share)
		out = append(out, ctl)
		if ctl&0x80 != 0 {
			out = binary.LittleEndian.AppendUint16(out, uint16(len(r)))
			size = len(r)
		}
		if ctl&0x40 != 0 {
			out = binary.LittleEndian.AppendUint16(out, 0)
		}
		out = append(out, r[share:]...)
		prev = r
	}
	return out
}

// ChildRecord is an interior page record pointing at child.
func ChildRecord(key []byte, child uint32) []byte {
	return binary.LittleEndian.AppendUint32(append([]byte(nil), key...), child)
}
