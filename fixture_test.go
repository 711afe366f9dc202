package tps

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wilhasse/go-tps/format"
	"github.com/wilhasse/go-tps/internal/tpstest"
)

var customerFields = []tpstest.Field{
	{Type: format.FieldLong, Name: "CUS:ID", Size: 4},
	{Type: format.FieldString, Name: "CUS:NAME", Size: 10},
	{Type: format.FieldLong, Name: "CUS:BORN", Size: 4},
	{Type: format.FieldDecimal, Name: "CUS:BAL", Size: 4, DecimalCount: 2, DecimalSize: 7},
}

func customerPayload(id int32, name []byte, born int32, bal []byte) []byte {
	b := binary.LittleEndian.AppendUint32(nil, uint32(id))
	padded := bytes.Repeat([]byte{' '}, 10)
	copy(padded, name)
	b = append(b, padded...)
	b = binary.LittleEndian.AppendUint32(b, uint32(born))
	return append(b, bal...)
}

// customerFile holds table CUSTOMER (1) with four rows over two data pages.
// Row 3 carries two trailing bytes beyond the record size, and table 2 has
// one data record but neither name nor definition.
func customerFile(t testing.TB) []byte {
	t.Helper()
	blob, size := tpstest.Definition(customerFields, nil, []tpstest.Index{
		{Name: "CUS:KEYID", Fields: []uint16{1}},
	})
	require.Equal(t, uint16(22), size)

	b := tpstest.New()
	b.LastIssuedRow = 4
	b.AddLeaf(false,
		tpstest.TableNameRecord("CUSTOMER", 1),
		tpstest.DefinitionRecord(1, 0, blob),
		tpstest.MetadataRecord(1, 0xF3, 4, 0),
	)
	b.AddLeaf(true,
		tpstest.DataRecord(1, 1, customerPayload(1, []byte("ALICE"), 80000, []byte{0x00, 0x01, 0x23, 0x45})),
		tpstest.DataRecord(1, 2, customerPayload(2, []byte("JOS\xc9"), 0, []byte{0xF0, 0x00, 0x00, 0x50})),
	)
	b.AddLeaf(false,
		tpstest.DataRecord(1, 3, append(customerPayload(3, []byte("CARL"), 1, []byte{0, 0, 0, 0}), 0xEE, 0xEE)),
		tpstest.DataRecord(1, 4, customerPayload(4, []byte("DORA"), 2, []byte{0, 0, 0, 1})),
		tpstest.DataRecord(2, 1, []byte("zz")),
		tpstest.IndexRecord(1, 0x01, []byte{0, 0, 0, 4}, 4),
	)
	return b.Bytes()
}

func openCustomer(t *testing.T, opts ...Option) *File {
	t.Helper()
	data := customerFile(t)
	f, err := OpenReader(bytes.NewReader(data), int64(len(data)), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func collect(f *File) (rows []Row, errs []error) {
	for row, err := range f.Rows() {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		rows = append(rows, row)
	}
	return rows, errs
}
