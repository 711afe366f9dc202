// delta.go - Prefix-share record reconstruction over a page body
package page

import (
	"encoding/binary"
	"fmt"

	"github.com/wilhasse/go-tps/format"
)

// Raw is one reconstructed record, length prefix included.
type Raw struct {
	HeaderSize uint16
	Bytes      []byte // u16 little-endian record size followed by the record
}

// Payload returns the record bytes after the 2-byte length prefix.
func (r Raw) Payload() []byte { return r.Bytes[2:] }

// Reconstruct walks a (decompressed) page body. Each record starts with a control
// byte: 0x80 = new u16 record size follows, 0x40 = new u16 header size follows,
// low 6 bits = how many leading bytes to copy from the previous record.
func Reconstruct(body []byte) ([]Raw, error) {
	var (
		out        []Raw
		prev       []byte
		recordSize int
		headerSize uint16
	)
	pos := 0
	for pos < len(body) {
		start := pos
		ctl := body[pos]
		pos++
		if ctl&0x80 != 0 {
			v, err := format.Le16(body, pos)
			if err != nil {
				return nil, &format.CorruptPageError{Offset: pos, Reason: "truncated record size"}
			}
			recordSize = int(v)
			pos += 2
		}
		if ctl&0x40 != 0 {
			v, err := format.Le16(body, pos)
			if err != nil {
				return nil, &format.CorruptPageError{Offset: pos, Reason: "truncated header size"}
			}
			headerSize = v
			pos += 2
		}
		share := int(ctl & 0x3F)
		if share > len(prev) || share > recordSize {
			return nil, &format.CorruptPageError{Offset: start,
				Reason: fmt.Sprintf("prefix share %d exceeds previous record %d / size %d", share, len(prev), recordSize)}
		}
		fresh := recordSize - share
		if pos+fresh > len(body) {
			return nil, &format.CorruptPageError{Offset: pos,
				Reason: fmt.Sprintf("record of %d bytes overruns body of %d", recordSize, len(body))}
		}

		buf := make([]byte, 2+recordSize)
		binary.LittleEndian.PutUint16(buf, uint16(recordSize))
		copy(buf[2:], prev[:share])
		copy(buf[2+share:], body[pos:pos+fresh])
		pos += fresh

		prev = buf[2:]
		out = append(out, Raw{HeaderSize: headerSize, Bytes: buf})
	}
	return out, nil
}
