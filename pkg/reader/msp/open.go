package msp

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/gravitational/trace"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

const bufSize = 4 << 20 // 4 MiB

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Open opens path ("-" for STDIN) for reading, transparently decompressing
// gzip or zstd content detected by its magic bytes.
func Open(path string) (io.ReadCloser, error) {
	if path == "-" {
		return Decompress(io.NopCloser(os.Stdin))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, trace.ConvertSystemError(err)
	}
	rc, err := Decompress(f)
	if err != nil {
		f.Close()
		return nil, trace.Wrap(err, "opening %s", path)
	}
	return rc, nil
}

// Decompress wraps src in a decoder matching its leading magic bytes, or
// returns it buffered as-is. Closing the result closes src.
func Decompress(src io.ReadCloser) (io.ReadCloser, error) {
	br := bufio.NewReaderSize(src, bufSize)
	magic, _ := br.Peek(4)

	switch {
	case bytes.HasPrefix(magic, gzipMagic):
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, trace.Wrap(err, "reading gzip header")
		}
		return &readCloser{Reader: gz, closers: []func() error{gz.Close, src.Close}}, nil

	case bytes.HasPrefix(magic, zstdMagic):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, trace.Wrap(err, "reading zstd frame")
		}
		return &readCloser{Reader: zr, closers: []func() error{
			func() error { zr.Close(); return nil },
			src.Close,
		}}, nil
	}

	return &readCloser{Reader: br, closers: []func() error{src.Close}}, nil
}

type readCloser struct {
	io.Reader
	closers []func() error
}

func (r *readCloser) Close() error {
	var errs []error
	for _, c := range r.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return trace.NewAggregate(errs...)
}
