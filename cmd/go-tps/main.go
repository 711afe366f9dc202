package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

type cliConfig struct {
	file       string
	cmd        string
	table      string
	format     string
	encoding   string
	dateFields string
	timeFields string
	check      bool
	strict     bool
	walk       string
	maxRecs    int
	compress   string
	out        string
	prefetch   int
	verbose    bool
}

func main() {
	var cfg cliConfig
	flag.StringVar(&cfg.file, "file", "", "Path to TPS file (required)")
	flag.StringVar(&cfg.cmd, "cmd", "tables", "Command: info, tables, schema, ddl, rows, or export")
	flag.StringVar(&cfg.table, "table", "", "Table name for schema, ddl, rows and export")
	flag.StringVar(&cfg.format, "format", "text", "Output format: text, json, csv, or jsonl")
	flag.StringVar(&cfg.encoding, "encoding", "windows-1252", "Text encoding of string fields (IANA name, or raw)")
	flag.StringVar(&cfg.dateFields, "date-fields", "", "Comma-separated LONG fields holding Clarion dates")
	flag.StringVar(&cfg.timeFields, "time-fields", "", "Comma-separated LONG fields holding centisecond timestamps")
	flag.BoolVar(&cfg.check, "check", true, "Run size sanity checks")
	flag.BoolVar(&cfg.strict, "strict", false, "Treat validation warnings as errors")
	flag.StringVar(&cfg.walk, "walk", "tree", "Page enumeration: tree or blocks")
	flag.IntVar(&cfg.maxRecs, "max-records", 0, "Maximum rows to print (0 = all)")
	flag.StringVar(&cfg.compress, "compress", "none", "Export compression: none, gzip, zstd, s2, or lz4")
	flag.StringVar(&cfg.out, "out", "", "Export destination (default stdout)")
	flag.IntVar(&cfg.prefetch, "prefetch", 0, "Decode leaf pages with N workers before scanning")
	flag.BoolVar(&cfg.verbose, "v", false, "Verbose output")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "TopSpeed File Reader\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -file data.tps -cmd tables\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -file data.tps -cmd rows -table CUSTOMER -max-records 20\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -file data.tps -cmd export -table CUSTOMER -format csv -compress zstd -out customer.csv.zst\n", os.Args[0])
	}

	flag.Parse()

	if cfg.file == "" {
		fmt.Fprintf(os.Stderr, "Error: -file is required\n\n")
		flag.Usage()
		os.Exit(1)
	}

	level := slog.LevelWarn
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(cfg, os.Stdout, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
