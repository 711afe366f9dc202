// source.go - Byte sources and the decryption hook
package tps

import (
	"errors"
	"fmt"
	"io"

	"github.com/wilhasse/go-tps/format"
)

// ByteSource gives absolute, already-decrypted reads over a TPS file.
type ByteSource interface {
	Read(size int, off int64) ([]byte, error)
	IsEncrypted() bool
	Size() int64
	Close() error
}

// Decryptor turns ciphertext at [off, off+size) of src into plaintext.
type Decryptor interface {
	IsEncrypted() bool
	Decrypt(src io.ReaderAt, size int, off int64) ([]byte, error)
}

// Plaintext is the default Decryptor: it reads bytes unchanged.
type Plaintext struct{}

func (Plaintext) IsEncrypted() bool { return false }

func (Plaintext) Decrypt(src io.ReaderAt, size int, off int64) ([]byte, error) {
	return readFull(src, size, off)
}

func readFull(src io.ReaderAt, size int, off int64) ([]byte, error) {
	buf := make([]byte, size)
	n, err := src.ReadAt(buf, off)
	if n == size {
		return buf, nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		err = format.ErrShortRead
	}
	return nil, fmt.Errorf("read %d bytes at %#x: %w", size, off, err)
}

type readerAtSource struct {
	r      io.ReaderAt
	size   int64
	dec    Decryptor
	closer io.Closer
}

// NewReaderSource wraps any io.ReaderAt. A nil dec reads plaintext.
func NewReaderSource(r io.ReaderAt, size int64, dec Decryptor) ByteSource {
	if dec == nil {
		dec = Plaintext{}
	}
	s := &readerAtSource{r: r, size: size, dec: dec}
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}
	return s
}

func (s *readerAtSource) Read(size int, off int64) ([]byte, error) {
	if size < 0 || off < 0 || off+int64(size) > s.size {
		return nil, fmt.Errorf("read %d bytes at %#x past end %#x: %w", size, off, s.size, format.ErrShortRead)
	}
	return s.dec.Decrypt(s.r, size, off)
}

func (s *readerAtSource) IsEncrypted() bool { return s.dec.IsEncrypted() }

func (s *readerAtSource) Size() int64 { return s.size }

func (s *readerAtSource) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}
