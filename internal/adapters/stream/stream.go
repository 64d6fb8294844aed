// Package stream opens score and structure files, decoding compressed
// content chosen by file extension.
package stream

import (
	"bufio"
	"compress/bzip2"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
	"github.com/pierrec/lz4/v4"
)

const readBufferSize = 1 << 20

// Codec names the decompression applied to a file.
type Codec string

// Supported codecs.
const (
	Plain Codec = "plain"
	Gzip  Codec = "gzip"
	Bzip2 Codec = "bzip2"
	Zstd  Codec = "zstd"
	LZ4   Codec = "lz4"
)

// ErrOpen wraps every failure to open or start decoding a file.
var ErrOpen = errors.New("open stream")

// Opener opens a named file as a decoded byte stream.
type Opener interface {
	Open(path string) (io.ReadCloser, error)
}

// FileOpener is the Opener backed by the local filesystem.
type FileOpener struct{}

// Open implements Opener.
func (FileOpener) Open(path string) (io.ReadCloser, error) {
	return Open(path)
}

// CodecFor picks the codec from the path's extension.
func CodecFor(path string) Codec {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".gz"), strings.HasSuffix(lower, ".gzip"):
		return Gzip
	case strings.HasSuffix(lower, ".bz2"):
		return Bzip2
	case strings.HasSuffix(lower, ".zst"):
		return Zstd
	case strings.HasSuffix(lower, ".lz4"):
		return LZ4
	default:
		return Plain
	}
}

// Open opens path and returns a reader over its decoded content.
// Closing the reader releases the decoder and the file.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}

	rc, err := decode(CodecFor(path), bufio.NewReaderSize(f, readBufferSize))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s: %w", ErrOpen, path, err)
	}
	return &stackedCloser{Reader: rc, closers: []io.Closer{rc, f}}, nil
}

func decode(codec Codec, r io.Reader) (io.ReadCloser, error) {
	switch codec {
	case Gzip:
		return pgzip.NewReader(r)
	case Bzip2:
		return io.NopCloser(bzip2.NewReader(r)), nil
	case Zstd:
		d, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return d.IOReadCloser(), nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return io.NopCloser(r), nil
	}
}

// stackedCloser closes every layer, innermost decoder first.
type stackedCloser struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedCloser) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
