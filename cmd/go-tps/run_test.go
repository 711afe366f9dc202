package main

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
	"github.com/wilhasse/go-tps/format"
	"github.com/wilhasse/go-tps/internal/tpstest"
)

func writeFixture(t *testing.T) string {
	t.Helper()
	blob, _ := tpstest.Definition([]tpstest.Field{
		{Type: format.FieldLong, Name: "EMP:ID", Size: 4},
		{Type: format.FieldString, Name: "EMP:NAME", Size: 6},
		{Type: format.FieldLong, Name: "EMP:HIRED", Size: 4},
	}, nil, []tpstest.Index{{Name: "EMP:KEYID", Fields: []uint16{1}}})

	row := func(id int32, name string, hired int32) []byte {
		b := binary.LittleEndian.AppendUint32(nil, uint32(id))
		n := []byte("      ")
		copy(n, name)
		b = append(b, n...)
		return binary.LittleEndian.AppendUint32(b, uint32(hired))
	}
	b := tpstest.New()
	b.AddLeaf(false, tpstest.TableNameRecord("EMPLOYEE", 1), tpstest.DefinitionRecord(1, 0, blob))
	b.AddLeaf(true,
		tpstest.DataRecord(1, 1, row(7, "ANN", 80000)),
		tpstest.DataRecord(1, 2, row(8, "BOB", 0)),
		tpstest.DataRecord(1, 3, row(9, "CY", 1)),
	)
	path := filepath.Join(t.TempDir(), "emp.tps")
	require.NoError(t, os.WriteFile(path, b.Bytes(), 0o644))
	return path
}

func baseConfig(path string) cliConfig {
	return cliConfig{
		file:     path,
		cmd:      "tables",
		format:   "text",
		encoding: "windows-1252",
		check:    true,
		walk:     "tree",
		compress: "none",
	}
}

func runCmd(t *testing.T, cfg cliConfig) string {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, run(cfg, &buf, logger))
	return buf.String()
}

func TestRun(t *testing.T) {
	path := writeFixture(t)

	t.Run("tables", func(t *testing.T) {
		out := runCmd(t, baseConfig(path))
		require.Contains(t, out, "EMPLOYEE")

		cfg := baseConfig(path)
		cfg.format = "json"
		var tables []map[string]any
		require.NoError(t, json.Unmarshal([]byte(runCmd(t, cfg)), &tables))
		require.Len(t, tables, 1)
		require.Equal(t, "EMPLOYEE", tables[0]["name"])
		require.Equal(t, float64(3), tables[0]["fields"])
		require.Equal(t, float64(14), tables[0]["record_size"])
	})

	t.Run("info", func(t *testing.T) {
		cfg := baseConfig(path)
		cfg.cmd = "info"
		cfg.format = "json"
		var info map[string]any
		require.NoError(t, json.Unmarshal([]byte(runCmd(t, cfg)), &info))
		require.Equal(t, float64(1), info["tables"])
		require.Equal(t, float64(2), info["leaf_pages"])

		cfg.format = "text"
		require.Contains(t, runCmd(t, cfg), "Tables:")
	})

	t.Run("schema", func(t *testing.T) {
		cfg := baseConfig(path)
		cfg.cmd = "schema"
		cfg.table = "employee"
		out := runCmd(t, cfg)
		require.Contains(t, out, "EMP:HIRED")
		require.Contains(t, out, "EMP:KEYID")
	})

	t.Run("ddl", func(t *testing.T) {
		cfg := baseConfig(path)
		cfg.cmd = "ddl"
		cfg.dateFields = "HIRED"
		out := runCmd(t, cfg)
		require.Contains(t, out, "create table EMPLOYEE")
		require.Contains(t, out, "hired date")
		require.True(t, strings.HasSuffix(out, ";\n"))
	})

	t.Run("rows", func(t *testing.T) {
		cfg := baseConfig(path)
		cfg.cmd = "rows"
		cfg.table = "EMPLOYEE"
		cfg.format = "csv"
		cfg.dateFields = "hired"
		require.Equal(t, "RecNo,EMP:ID,EMP:NAME,EMP:HIRED\n1,7,ANN,2020-01-09\n2,8,BOB,\n3,9,CY,1800-12-29\n", runCmd(t, cfg))

		cfg.format = "text"
		cfg.maxRecs = 2
		out := runCmd(t, cfg)
		require.Contains(t, out, "ANN")
		require.Contains(t, out, "NULL")
		require.NotContains(t, out, "CY")
		require.Contains(t, out, "showing first 2 records")
	})

	t.Run("export", func(t *testing.T) {
		dst := filepath.Join(t.TempDir(), "emp.jsonl.zst")
		cfg := baseConfig(path)
		cfg.cmd = "export"
		cfg.table = "EMPLOYEE"
		cfg.format = "jsonl"
		cfg.compress = "zstd"
		cfg.out = dst
		cfg.prefetch = 2
		runCmd(t, cfg)

		raw, err := os.ReadFile(dst)
		require.NoError(t, err)
		dec, err := zstd.NewReader(nil)
		require.NoError(t, err)
		defer dec.Close()
		plain, err := dec.DecodeAll(raw, nil)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(string(plain)), "\n")
		require.Len(t, lines, 3)
		require.Equal(t, `{"RecNo":1,"EMP:ID":7,"EMP:NAME":"ANN","EMP:HIRED":80000}`, lines[0])
	})

	t.Run("errors", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))

		cfg := baseConfig(path)
		cfg.cmd = "bogus"
		require.ErrorContains(t, run(cfg, io.Discard, logger), "unknown command")

		cfg = baseConfig(path)
		cfg.cmd = "rows"
		cfg.table = "NOPE"
		require.ErrorContains(t, run(cfg, io.Discard, logger), "unknown table")

		cfg = baseConfig(path)
		cfg.walk = "sideways"
		require.Error(t, run(cfg, io.Discard, logger))

		cfg = baseConfig(filepath.Join(t.TempDir(), "missing.tps"))
		require.Error(t, run(cfg, io.Discard, logger))
	})
}

func TestSplitList(t *testing.T) {
	require.Equal(t, []string{"A", "B"}, splitList(" A, ,B,"))
	require.Nil(t, splitList(""))
}
