//go:build !unix

// source_other.go - Plain file byte source where mmap is unavailable
package tps

import "os"

// OpenMapped opens the file for positional reads.
func OpenMapped(path string, dec Decryptor) (ByteSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return NewReaderSource(f, fi.Size(), dec), nil
}
