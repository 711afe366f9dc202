package tps

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	t.Run("catalog", func(t *testing.T) {
		f := openCustomer(t)
		require.Equal(t, []string{"CUSTOMER"}, f.Tables())
		require.Equal(t, uint32(4), f.Header().LastIssuedRow)
		require.False(t, f.IsEncrypted())
		require.Empty(t, f.Warnings())

		tbl, err := f.Table("customer")
		require.NoError(t, err)
		require.Equal(t, uint32(1), tbl.Number)
		require.True(t, tbl.IsComplete())
		require.Equal(t, uint32(4), tbl.Statistics[0xF3].RecordCount)

		// table 2 is never named, so every page had to be scanned
		require.Equal(t, 3, f.Catalog().PagesScanned)
		require.Equal(t, 2, f.Catalog().Len())
	})

	t.Run("unknown table", func(t *testing.T) {
		f := openCustomer(t)
		err := f.SetCurrentTable("ORDERS")
		var ute *UnknownTableError
		require.ErrorAs(t, err, &ute)
		require.Equal(t, "ORDERS", ute.Name)

		data := customerFile(t)
		_, err = OpenReader(bytes.NewReader(data), int64(len(data)), WithTable("ORDERS"))
		require.ErrorAs(t, err, &ute)
	})

	t.Run("bad magic", func(t *testing.T) {
		data := customerFile(t)
		data[14] = 'x'
		_, err := OpenReader(bytes.NewReader(data), int64(len(data)))
		var fe *FormatError
		require.ErrorAs(t, err, &fe)
		require.ErrorIs(t, err, ErrBadMagic)
	})

	t.Run("truncated header", func(t *testing.T) {
		data := customerFile(t)[:100]
		_, err := OpenReader(bytes.NewReader(data), int64(len(data)))
		require.ErrorIs(t, err, ErrShortRead)
	})

	t.Run("unaligned file size warns", func(t *testing.T) {
		data := append(customerFile(t), 0)
		f, err := OpenReader(bytes.NewReader(data), int64(len(data)))
		require.NoError(t, err)
		defer f.Close()
		ws := f.Warnings()
		require.Len(t, ws, 1)
		require.Equal(t, int64(1), ws[0].Got)

		_, err = OpenReader(bytes.NewReader(data), int64(len(data)), WithFatalValidation(true))
		var vw *ValidationWarning
		require.ErrorAs(t, err, &vw)

		f, err = OpenReader(bytes.NewReader(data), int64(len(data)), WithValidation(false), WithFatalValidation(true))
		require.NoError(t, err)
		require.Empty(t, f.Warnings())
		f.Close()
	})

	t.Run("bad options", func(t *testing.T) {
		data := customerFile(t)
		_, err := OpenReader(bytes.NewReader(data), int64(len(data)), WithCacheSize(0))
		require.Error(t, err)
		_, err = OpenReader(bytes.NewReader(data), int64(len(data)), WithEncoding("no-such-charset"))
		require.Error(t, err)
	})

	t.Run("path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "customer.tps")
		require.NoError(t, os.WriteFile(path, customerFile(t), 0o644))

		f, err := Open(path, WithTable("CUSTOMER"))
		require.NoError(t, err)
		n, err := f.Count()
		require.NoError(t, err)
		require.Equal(t, 4, n)
		require.NoError(t, f.Close())

		_, err = Open(filepath.Join(t.TempDir(), "missing.tps"))
		require.Error(t, err)
	})

	t.Run("walks agree", func(t *testing.T) {
		tree := openCustomer(t)
		blocks := openCustomer(t, WithPageWalk(BlockWalk))
		require.Equal(t, tree.Tree().Leaves(), blocks.Tree().Leaves())
		require.Equal(t, tree.Tables(), blocks.Tables())
	})
}

func TestDDL(t *testing.T) {
	f := openCustomer(t, WithDateFields("BORN"))
	ddl, err := f.DDL("CUSTOMER")
	require.NoError(t, err)
	require.Contains(t, ddl, "create table CUSTOMER")
	require.Contains(t, ddl, "id int")
	require.Contains(t, ddl, "name char(10)")
	require.Contains(t, ddl, "born date")
	require.Contains(t, ddl, "bal decimal(7,2)")
	require.Contains(t, ddl, "unique key keyid (id)")

	_, err = f.DDL("nope")
	require.Error(t, err)
}

func TestLookupEncoding(t *testing.T) {
	enc, err := LookupEncoding("raw")
	require.NoError(t, err)
	require.Nil(t, enc)

	enc, err = LookupEncoding("")
	require.NoError(t, err)
	require.NotNil(t, enc)

	enc, err = LookupEncoding("ISO-8859-1")
	require.NoError(t, err)
	require.NotNil(t, enc)

	_, err = LookupEncoding("klingon")
	require.Error(t, err)
}
