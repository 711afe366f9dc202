//go:build unix

// source_mmap_unix.go - Memory-mapped byte source
package tps

import (
	"bytes"
	"fmt"
	"os"

	"github.com/wilhasse/go-tps/format"
	"golang.org/x/sys/unix"
)

type mmapSource struct {
	data []byte
	dec  Decryptor
}

// OpenMapped maps the file read-only. Empty files fall back to plain reads.
func OpenMapped(path string, dec Decryptor) (ByteSource, error) {
	if dec == nil {
		dec = Plaintext{}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if fi.Size() == 0 {
		return NewReaderSource(f, 0, dec), nil
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(fi.Size()), unix.PROT_READ, unix.MAP_SHARED)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}
	return &mmapSource{data: data, dec: dec}, nil
}

func (s *mmapSource) Read(size int, off int64) ([]byte, error) {
	if s.data == nil {
		return nil, os.ErrClosed
	}
	if size < 0 || off < 0 || off+int64(size) > int64(len(s.data)) {
		return nil, fmt.Errorf("read %d bytes at %#x past end %#x: %w", size, off, len(s.data), format.ErrShortRead)
	}
	if !s.dec.IsEncrypted() {
		// copy out so nothing outlives the mapping
		return bytes.Clone(s.data[off : off+int64(size)]), nil
	}
	return s.dec.Decrypt(bytes.NewReader(s.data), size, off)
}

func (s *mmapSource) IsEncrypted() bool { return s.dec.IsEncrypted() }

func (s *mmapSource) Size() int64 { return int64(len(s.data)) }

func (s *mmapSource) Close() error {
	if s.data == nil {
		return nil
	}
	err := unix.Munmap(s.data)
	s.data = nil
	return err
}
