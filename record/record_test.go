package record

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wilhasse/go-tps/format"
	"github.com/wilhasse/go-tps/internal/tpstest"
	"github.com/wilhasse/go-tps/page"
	"golang.org/x/text/encoding/charmap"
)

func prefixed(b []byte) []byte {
	return append(binary.LittleEndian.AppendUint16(nil, uint16(len(b))), b...)
}

func TestParse(t *testing.T) {
	t.Run("null", func(t *testing.T) {
		rec, err := Parse([]byte{0, 0}, 0, nil)
		require.NoError(t, err)
		require.Equal(t, KindNull, rec.Kind)
	})

	t.Run("data", func(t *testing.T) {
		rec, err := Parse(prefixed(tpstest.DataRecord(0x0102, 77, []byte{1, 2, 3})), 5, nil)
		require.NoError(t, err)
		require.Equal(t, KindData, rec.Kind)
		require.Equal(t, uint32(0x0102), rec.TableNumber)
		require.Equal(t, uint16(5), rec.HeaderSize)
		require.Equal(t, uint32(77), rec.Data.RecordNumber)
		require.Equal(t, []byte{1, 2, 3}, rec.Data.Payload)
	})

	t.Run("metadata", func(t *testing.T) {
		rec, err := Parse(prefixed(tpstest.MetadataRecord(3, 0xF3, 1000, 99)), 0, nil)
		require.NoError(t, err)
		require.Equal(t, KindMetadata, rec.Kind)
		require.Equal(t, Metadata{Type: 0xF3, RecordCount: 1000, LastAccess: 99}, *rec.Metadata)
	})

	t.Run("table definition", func(t *testing.T) {
		rec, err := Parse(prefixed(tpstest.DefinitionRecord(3, 1, []byte("chunk"))), 0, nil)
		require.NoError(t, err)
		require.Equal(t, KindTableDefinition, rec.Kind)
		require.Equal(t, uint16(1), rec.Definition.Number)
		require.Equal(t, []byte("chunk"), rec.Definition.Bytes)
	})

	t.Run("table name", func(t *testing.T) {
		rec, err := Parse(prefixed(tpstest.TableNameRecord("CUSTOMER \x00", 9)), 0, nil)
		require.NoError(t, err)
		require.Equal(t, KindTableName, rec.Kind)
		require.Equal(t, "CUSTOMER", rec.Name)
		require.Equal(t, uint32(9), rec.TableNumber)
	})

	t.Run("table name decoded with code page", func(t *testing.T) {
		rec, err := Parse(prefixed(tpstest.TableNameRecord("CAF\xc9", 1)), 0, charmap.Windows1252)
		require.NoError(t, err)
		require.Equal(t, "CAFÉ", rec.Name)
	})

	t.Run("unknown tag is index", func(t *testing.T) {
		rec, err := Parse(prefixed(tpstest.IndexRecord(4, 0x02, []byte("key"), 513)), 0, nil)
		require.NoError(t, err)
		require.Equal(t, KindIndex, rec.Kind)
		require.Equal(t, uint8(0x02), rec.Index.Tag)
		require.Equal(t, []byte("key"), rec.Index.Bytes)
		require.Equal(t, uint32(513), rec.Index.RecordNumber)
	})

	t.Run("length prefix mismatch", func(t *testing.T) {
		_, err := Parse([]byte{9, 0, 1}, 0, nil)
		var fe *format.FormatError
		require.ErrorAs(t, err, &fe)
	})

	t.Run("truncated data", func(t *testing.T) {
		_, err := Parse(prefixed([]byte{0, 0, 0, 1, byte(format.TagData), 0}), 0, nil)
		require.ErrorIs(t, err, format.ErrShortRead)
	})

	t.Run("truncated metadata", func(t *testing.T) {
		_, err := Parse(prefixed([]byte{0, 0, 0, 1, byte(format.TagMetadata), 1, 2}), 0, nil)
		require.ErrorIs(t, err, format.ErrShortRead)
	})

	t.Run("short table name", func(t *testing.T) {
		_, err := Parse(prefixed([]byte{byte(format.TagTableName), 1}), 0, nil)
		require.ErrorIs(t, err, format.ErrShortRead)
	})
}

func TestParseAll(t *testing.T) {
	body := tpstest.Delta([][]byte{
		tpstest.TableNameRecord("T", 1),
		tpstest.DataRecord(1, 1, []byte("ab")),
		tpstest.DataRecord(1, 2, []byte("ab")),
	})
	raws, err := page.Reconstruct(body)
	require.NoError(t, err)
	recs, err := ParseAll(raws, nil)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	require.Equal(t, KindTableName, recs[0].Kind)
	require.Equal(t, uint32(2), recs[2].Data.RecordNumber)
}

func TestKindString(t *testing.T) {
	require.Equal(t, "TABLE_DEFINITION", KindTableDefinition.String())
	require.Equal(t, "Kind(42)", Kind(42).String())
}
