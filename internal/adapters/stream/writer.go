package stream

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
	"github.com/pierrec/lz4/v4"
)

// ErrCreate wraps every failure to create or start encoding a file.
var ErrCreate = errors.New("create stream")

// ErrNoEncoder is returned for codecs that can be read but not written.
var ErrNoEncoder = errors.New("codec has no encoder")

// Create creates path and returns a writer that encodes with the codec
// chosen by its extension. Close flushes the encoder, the buffer and the file.
func Create(path string) (io.WriteCloser, error) {
	codec := CodecFor(path)
	if codec == Bzip2 {
		return nil, fmt.Errorf("%w: %s: %w", ErrCreate, path, ErrNoEncoder)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreate, err)
	}
	buf := bufio.NewWriterSize(f, readBufferSize)
	enc, err := encode(codec, buf)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s: %w", ErrCreate, path, err)
	}
	return &stackedWriter{Writer: enc, enc: enc, buf: buf, file: f}, nil
}

func encode(codec Codec, w io.Writer) (io.WriteCloser, error) {
	switch codec {
	case Gzip:
		return pgzip.NewWriter(w), nil
	case Zstd:
		return zstd.NewWriter(w)
	case LZ4:
		return lz4.NewWriter(w), nil
	default:
		return nopWriteCloser{w}, nil
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// stackedWriter closes the encoder, then flushes the buffer, then closes the file.
type stackedWriter struct {
	io.Writer
	enc  io.Closer
	buf  *bufio.Writer
	file *os.File
}

func (s *stackedWriter) Close() error {
	encErr := s.enc.Close()
	flushErr := s.buf.Flush()
	return errors.Join(encErr, flushErr, s.file.Close())
}
