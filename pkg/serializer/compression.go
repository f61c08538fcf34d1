package serializer

import (
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies a compressed input by its file extension.
type Compression string

const (
	CompressionNone Compression = ""
	CompressionZstd Compression = ".zst"
	CompressionGzip Compression = ".gz"
	CompressionLZ4  Compression = ".lz4"
)

// CompressionFromPath detects the compression from the path extension.
func CompressionFromPath(path string) Compression {
	lower := strings.ToLower(path)
	for _, c := range []Compression{CompressionZstd, CompressionGzip, CompressionLZ4} {
		if strings.HasSuffix(lower, string(c)) {
			return c
		}
	}
	return CompressionNone
}

// Decompress wraps r with a decompressor for c. Closing the result releases
// the decompressor and closes r.
func Decompress(r io.ReadCloser, c Compression) (io.ReadCloser, error) {
	switch c {
	case CompressionNone:
		return r, nil
	case CompressionZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open zstd stream: %w", err)
		}
		return &decompressor{Reader: dec, release: dec.Close, src: r}, nil
	case CompressionGzip:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		return &decompressor{Reader: gz, release: func() { _ = gz.Close() }, src: r}, nil
	case CompressionLZ4:
		return &decompressor{Reader: lz4.NewReader(r), release: func() {}, src: r}, nil
	default:
		return nil, fmt.Errorf("unsupported compression %q", string(c))
	}
}

type decompressor struct {
	io.Reader
	release func()
	src     io.Closer
}

func (d *decompressor) Close() error {
	d.release()
	return d.src.Close()
}
