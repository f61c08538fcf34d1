package serializer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	cnserrors "github.com/NVIDIA/tuning-tables/pkg/errors"
)

// Reader decodes one document from a stream.
type Reader struct {
	format Format
	rc     io.ReadCloser
}

// NewReader returns a Reader decoding rc as format. FormatTable is not readable.
func NewReader(format Format, rc io.ReadCloser) (*Reader, error) {
	if format != FormatJSON && format != FormatYAML {
		return nil, cnserrors.New(cnserrors.ErrCodeInvalidRequest, fmt.Sprintf("unsupported input format %q", format))
	}
	return &Reader{format: format, rc: rc}, nil
}

// Deserialize decodes the stream into v.
func (r *Reader) Deserialize(v any) error {
	switch r.format {
	case FormatYAML:
		if err := yaml.NewDecoder(r.rc).Decode(v); err != nil {
			return cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest, "failed to decode yaml", err)
		}
	default:
		if err := json.NewDecoder(r.rc).Decode(v); err != nil {
			return cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest, "failed to decode json", err)
		}
	}
	return nil
}

// Close closes the underlying stream.
func (r *Reader) Close() error {
	return r.rc.Close()
}

// FromFile loads a T from a file path, "-" (stdin), an http(s) URL or a
// cm://namespace/name ConfigMap URI.
func FromFile[T any](uri string) (*T, error) {
	return FromFileWithKubeconfig[T](uri, "")
}

// FromFileWithKubeconfig is FromFile with an explicit kubeconfig for ConfigMap URIs.
func FromFileWithKubeconfig[T any](uri, kubeconfig string) (*T, error) {
	ctx, cancel := context.WithTimeout(context.Background(), HTTPTimeout)
	defer cancel()
	return Load[T](ctx, uri, kubeconfig)
}

// Load is FromFileWithKubeconfig bounded by ctx.
func Load[T any](ctx context.Context, uri, kubeconfig string) (*T, error) {
	if uri == "" {
		return nil, cnserrors.New(cnserrors.ErrCodeInvalidRequest, "database URI is required")
	}

	source, name, err := open(ctx, uri, kubeconfig)
	if err != nil {
		return nil, err
	}

	rc, err := Decompress(source, CompressionFromPath(name))
	if err != nil {
		_ = source.Close()
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest, "failed to decompress "+uri, err)
	}

	format := FormatFromPath(name)
	r, err := NewReader(format, rc)
	if err != nil {
		_ = rc.Close()
		return nil, err
	}
	defer func() {
		if closeErr := r.Close(); closeErr != nil {
			slog.Warn("failed to close reader", "uri", uri, "error", closeErr)
		}
	}()

	var v T
	if err := r.Deserialize(&v); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", uri, err)
	}

	slog.Debug("loaded document", "uri", uri, "format", string(format))

	return &v, nil
}

// open returns the raw stream of uri and the name its format and compression
// are derived from.
func open(ctx context.Context, uri, kubeconfig string) (io.ReadCloser, string, error) {
	switch {
	case uri == StdoutURI:
		return io.NopCloser(os.Stdin), "stdin.json", nil

	case isHTTPURI(uri):
		body, err := openHTTP(ctx, uri)
		return body, uri, err

	case isConfigMapURI(uri):
		namespace, name, err := ParseConfigMapURI(uri)
		if err != nil {
			return nil, "", err
		}
		cs, err := kubeClientFor(kubeconfig)
		if err != nil {
			return nil, "", cnserrors.Wrap(cnserrors.ErrCodeUnavailable, "failed to create kubernetes client", err)
		}
		data, key, err := readConfigMap(ctx, cs, namespace, name)
		if err != nil {
			return nil, "", err
		}
		return io.NopCloser(bytes.NewReader(data)), key, nil

	default:
		f, err := os.Open(uri)
		if err != nil {
			code := cnserrors.ErrCodeInternal
			if os.IsNotExist(err) {
				code = cnserrors.ErrCodeNotFound
			}
			return nil, "", cnserrors.WrapWithContext(code, "failed to open database", err, map[string]any{"path": uri})
		}
		return f, uri, nil
	}
}
