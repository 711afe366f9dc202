package page

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wilhasse/go-tps/format"
	"github.com/wilhasse/go-tps/internal/tpstest"
)

func TestReconstruct(t *testing.T) {
	t.Run("full prefix share repeats the record", func(t *testing.T) {
		body := []byte{
			0x80, 4, 0, 'a', 'b', 'c', 'd', // size 4, share 0
			0x04, // share all 4 bytes, nothing new
		}
		raws, err := Reconstruct(body)
		require.NoError(t, err)
		require.Len(t, raws, 2)
		require.Equal(t, raws[0].Bytes, raws[1].Bytes)
		require.Equal(t, []byte{4, 0, 'a', 'b', 'c', 'd'}, raws[1].Bytes)
	})

	t.Run("partial share and header size", func(t *testing.T) {
		body := []byte{
			0xC0, 3, 0, 9, 0, 'x', 'y', 'z',
			0x02, 'Q',
		}
		raws, err := Reconstruct(body)
		require.NoError(t, err)
		require.Len(t, raws, 2)
		require.Equal(t, uint16(9), raws[0].HeaderSize)
		require.Equal(t, uint16(9), raws[1].HeaderSize)
		require.Equal(t, []byte("xyQ"), raws[1].Payload())
	})

	t.Run("size change", func(t *testing.T) {
		body := []byte{
			0x80, 2, 0, 'a', 'b',
			0x81, 3, 0, 'c', 'd',
		}
		raws, err := Reconstruct(body)
		require.NoError(t, err)
		require.Equal(t, []byte("acd"), raws[1].Payload())
	})

	t.Run("zero sized record", func(t *testing.T) {
		raws, err := Reconstruct([]byte{0x80, 0, 0})
		require.NoError(t, err)
		require.Len(t, raws, 1)
		require.Equal(t, []byte{0, 0}, raws[0].Bytes)
	})

	t.Run("share larger than previous", func(t *testing.T) {
		_, err := Reconstruct([]byte{0x85, 5, 0, 'a'})
		var cp *format.CorruptPageError
		require.ErrorAs(t, err, &cp)
		require.Equal(t, 0, cp.Offset)
	})

	t.Run("record overruns body", func(t *testing.T) {
		_, err := Reconstruct([]byte{0x80, 10, 0, 'a', 'b'})
		var cp *format.CorruptPageError
		require.ErrorAs(t, err, &cp)
	})

	t.Run("truncated size", func(t *testing.T) {
		_, err := Reconstruct([]byte{0x80, 1})
		var cp *format.CorruptPageError
		require.ErrorAs(t, err, &cp)
	})

	t.Run("round trip with encoder", func(t *testing.T) {
		recs := [][]byte{
			tpstest.DataRecord(1, 1, []byte("alpha.....")),
			tpstest.DataRecord(1, 2, []byte("alpha.....")),
			tpstest.DataRecord(1, 3, []byte("beta")),
			tpstest.TableNameRecord("T", 1),
		}
		raws, err := Reconstruct(tpstest.Delta(recs))
		require.NoError(t, err)
		require.Len(t, raws, len(recs))
		for i, r := range raws {
			require.Equal(t, recs[i], r.Payload())
		}
	})
}
