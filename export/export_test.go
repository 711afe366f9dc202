package export

import (
	"bytes"
	"encoding/binary"
	"io"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/require"
	tps "github.com/wilhasse/go-tps"
	"github.com/wilhasse/go-tps/format"
	"github.com/wilhasse/go-tps/internal/tpstest"
)

func itemPayload(id int32, name string) []byte {
	b := binary.LittleEndian.AppendUint32(nil, uint32(id))
	n := make([]byte, 8)
	copy(n, name)
	return append(b, n...)
}

// openItems returns a file whose ITEMS table has two good rows and, when
// withBad is set, a third row one byte short.
func openItems(t *testing.T, withBad bool) *tps.File {
	t.Helper()
	blob, _ := tpstest.Definition([]tpstest.Field{
		{Type: format.FieldLong, Name: "ITM:ID", Size: 4},
		{Type: format.FieldCString, Name: "ITM:NAME", Size: 8},
	}, nil, nil)
	rows := [][]byte{
		tpstest.TableNameRecord("ITEMS", 3),
		tpstest.DefinitionRecord(3, 0, blob),
		tpstest.DataRecord(3, 1, itemPayload(10, "a,b")),
		tpstest.DataRecord(3, 2, itemPayload(20, "plain")),
	}
	if withBad {
		rows = append(rows, tpstest.DataRecord(3, 3, itemPayload(30, "x")[:11]))
	}
	b := tpstest.New()
	b.AddLeaf(false, rows...)
	data := b.Bytes()
	f, err := tps.OpenReader(bytes.NewReader(data), int64(len(data)), tps.WithTable("ITEMS"))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestTableCSV(t *testing.T) {
	f := openItems(t, false)
	_, td := f.CurrentTable()

	var buf bytes.Buffer
	w, err := NewWriter(&buf, FormatCSV, tps.FieldNames(td))
	require.NoError(t, err)
	written, skipped, err := Table(f, w, false)
	require.NoError(t, err)
	require.Equal(t, 2, written)
	require.Zero(t, skipped)
	require.Equal(t, "RecNo,ITM:ID,ITM:NAME\n1,10,\"a,b\"\n2,20,plain\n", buf.String())
}

func TestTableJSONL(t *testing.T) {
	f := openItems(t, false)
	_, td := f.CurrentTable()

	var buf bytes.Buffer
	w, err := NewWriter(&buf, FormatJSONL, tps.FieldNames(td))
	require.NoError(t, err)
	written, _, err := Table(f, w, false)
	require.NoError(t, err)
	require.Equal(t, 2, written)
	require.Equal(t,
		`{"RecNo":1,"ITM:ID":10,"ITM:NAME":"a,b"}`+"\n"+`{"RecNo":2,"ITM:ID":20,"ITM:NAME":"plain"}`+"\n",
		buf.String())
}

func TestTableBadRows(t *testing.T) {
	t.Run("abort", func(t *testing.T) {
		f := openItems(t, true)
		_, td := f.CurrentTable()
		w, err := NewWriter(io.Discard, FormatCSV, tps.FieldNames(td))
		require.NoError(t, err)
		written, _, err := Table(f, w, false)
		var rs *tps.RowSizeMismatchError
		require.ErrorAs(t, err, &rs)
		require.Equal(t, 2, written)
	})

	t.Run("skip", func(t *testing.T) {
		f := openItems(t, true)
		_, td := f.CurrentTable()
		w, err := NewWriter(io.Discard, FormatJSONL, tps.FieldNames(td))
		require.NoError(t, err)
		written, skipped, err := Table(f, w, true)
		require.NoError(t, err)
		require.Equal(t, 2, written)
		require.Equal(t, 1, skipped)
	})
}

func TestTablePageError(t *testing.T) {
	blob, _ := tpstest.Definition([]tpstest.Field{
		{Type: format.FieldLong, Name: "ITM:ID", Size: 4},
		{Type: format.FieldCString, Name: "ITM:NAME", Size: 8},
	}, nil, nil)
	b := tpstest.New()
	// the catalog stops on the newest page, so this one is first decoded by the export
	b.AddLeaf(false,
		tpstest.DataRecord(3, 1, itemPayload(10, "a")),
		tpstest.DataRecord(3, 2, itemPayload(20, "b")),
		[]byte{0x00, 0x00, 0x00, 0x03, 0xF3, 0x00, 0x01},
	)
	b.AddLeaf(false, tpstest.TableNameRecord("ITEMS", 3), tpstest.DefinitionRecord(3, 0, blob))
	data := b.Bytes()
	f, err := tps.OpenReader(bytes.NewReader(data), int64(len(data)), tps.WithTable("ITEMS"))
	require.NoError(t, err)
	defer f.Close()
	require.Equal(t, 1, f.Catalog().PagesScanned)

	_, td := f.CurrentTable()
	w, err := NewWriter(io.Discard, FormatCSV, tps.FieldNames(td))
	require.NoError(t, err)
	written, skipped, err := Table(f, w, true)
	var fe *tps.FormatError
	require.ErrorAs(t, err, &fe)
	require.ErrorIs(t, err, tps.ErrShortRead)
	require.Zero(t, written)
	require.Zero(t, skipped)
}

func TestIsRowError(t *testing.T) {
	require.True(t, isRowError(&format.RowSizeMismatchError{}))
	require.True(t, isRowError(&format.RowDecodeError{Err: format.ErrShortRead}))
	require.False(t, isRowError(format.ErrShortRead))
	require.False(t, isRowError(&format.FormatError{What: "record", Err: format.ErrShortRead}))
	require.False(t, isRowError(&format.CorruptPageError{}))
	require.False(t, isRowError(io.ErrUnexpectedEOF))
}

func TestCompress(t *testing.T) {
	payload := []byte(strings.Repeat("RecNo,ITM:ID,ITM:NAME\n1,10,plain\n", 50))

	decoders := map[Compression]func(io.Reader) (io.Reader, error){
		CompressionNone: func(r io.Reader) (io.Reader, error) { return r, nil },
		CompressionGzip: func(r io.Reader) (io.Reader, error) { return gzip.NewReader(r) },
		CompressionZstd: func(r io.Reader) (io.Reader, error) {
			d, err := zstd.NewReader(r)
			if err != nil {
				return nil, err
			}
			return d.IOReadCloser(), nil
		},
		CompressionS2:  func(r io.Reader) (io.Reader, error) { return s2.NewReader(r), nil },
		CompressionLZ4: func(r io.Reader) (io.Reader, error) { return lz4.NewReader(r), nil },
	}

	for c, dec := range decoders {
		t.Run(c.String(), func(t *testing.T) {
			var buf bytes.Buffer
			w, err := Compress(&buf, c)
			require.NoError(t, err)
			_, err = w.Write(payload)
			require.NoError(t, err)
			require.NoError(t, w.Close())
			if c != CompressionNone {
				require.Less(t, buf.Len(), len(payload))
			}

			r, err := dec(&buf)
			require.NoError(t, err)
			got, err := io.ReadAll(r)
			require.NoError(t, err)
			require.Equal(t, payload, got)
		})
	}
}

func TestParseNames(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionGzip, CompressionZstd, CompressionS2, CompressionLZ4} {
		got, err := ParseCompression(c.String())
		require.NoError(t, err)
		require.Equal(t, c, got)
	}
	c, err := ParseCompression("GZ")
	require.NoError(t, err)
	require.Equal(t, ".gz", c.Ext())
	_, err = ParseCompression("brotli")
	require.Error(t, err)

	f, err := ParseFormat("json")
	require.NoError(t, err)
	require.Equal(t, FormatJSONL, f)
	_, err = ParseFormat("xml")
	require.Error(t, err)
}
