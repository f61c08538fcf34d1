package serializer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	cnserrors "github.com/NVIDIA/tuning-tables/pkg/errors"
)

// Writer encodes values to a stream, a file or a ConfigMap.
type Writer struct {
	format Format
	out    io.Writer
	closer io.Closer

	// ConfigMap destination, set for cm:// URIs.
	namespace  string
	name       string
	kubeconfig string
}

// NewWriter returns a Writer encoding to out. Unknown formats fall back to JSON.
func NewWriter(format Format, out io.Writer) *Writer {
	if format.IsUnknown() {
		format = FormatJSON
	}
	if out == nil {
		out = os.Stdout
	}
	return &Writer{format: format, out: out}
}

// NewStdoutWriter returns a Writer encoding to stdout.
func NewStdoutWriter(format Format) *Writer {
	return NewWriter(format, os.Stdout)
}

// NewFileWriterOrStdout returns a Writer for path: stdout for "" or "-", a
// ConfigMap for cm://namespace/name, otherwise a created or truncated file.
func NewFileWriterOrStdout(format Format, path string) (*Writer, error) {
	return NewFileWriterOrStdoutWithKubeconfig(format, path, "")
}

// NewFileWriterOrStdoutWithKubeconfig is NewFileWriterOrStdout with an explicit
// kubeconfig for ConfigMap URIs.
func NewFileWriterOrStdoutWithKubeconfig(format Format, path, kubeconfig string) (*Writer, error) {
	switch {
	case path == "" || path == StdoutURI:
		return NewStdoutWriter(format), nil

	case isConfigMapURI(path):
		namespace, name, err := ParseConfigMapURI(path)
		if err != nil {
			return nil, err
		}
		w := NewWriter(format, io.Discard)
		w.namespace, w.name, w.kubeconfig = namespace, name, kubeconfig
		return w, nil

	default:
		f, err := os.Create(path)
		if err != nil {
			return nil, cnserrors.WrapWithContext(cnserrors.ErrCodeInternal, "failed to create output file", err,
				map[string]any{"path": path})
		}
		w := NewWriter(format, f)
		w.closer = f
		return w, nil
	}
}

// Serialize encodes v. ConfigMap writers store the encoding under
// "result.<format>", replacing an earlier value.
func (w *Writer) Serialize(ctx context.Context, v any) error {
	content, err := w.encode(v)
	if err != nil {
		return err
	}

	if w.name != "" {
		cs, err := kubeClientFor(w.kubeconfig)
		if err != nil {
			return cnserrors.Wrap(cnserrors.ErrCodeUnavailable, "failed to create kubernetes client", err)
		}
		return writeConfigMap(ctx, cs, w.namespace, w.name, "result."+w.extension(), content)
	}

	if _, err := w.out.Write(content); err != nil {
		return cnserrors.Wrap(cnserrors.ErrCodeInternal, "failed to write output", err)
	}
	return nil
}

// Close closes the destination file, if any.
func (w *Writer) Close() error {
	if w.closer == nil {
		return nil
	}
	return w.closer.Close()
}

func (w *Writer) extension() string {
	if w.format == FormatTable {
		return "txt"
	}
	return string(w.format)
}

func (w *Writer) encode(v any) ([]byte, error) {
	switch w.format {
	case FormatYAML:
		b, err := yaml.Marshal(v)
		if err != nil {
			return nil, cnserrors.Wrap(cnserrors.ErrCodeInternal, "failed to serialize to yaml", err)
		}
		return b, nil
	case FormatTable:
		return encodeTable(v)
	default:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, cnserrors.Wrap(cnserrors.ErrCodeInternal, "failed to serialize to json", err)
		}
		return append(b, '\n'), nil
	}
}

// encodeTable renders v as a two-column FIELD/VALUE table with flattened keys.
func encodeTable(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInternal, "failed to serialize to table", err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInternal, "failed to serialize to table", err)
	}

	rows := map[string]string{}
	flatten("", generic, rows)

	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tVALUE")
	for _, k := range keys {
		fmt.Fprintf(tw, "%s\t%s\n", k, rows[k])
	}
	if err := tw.Flush(); err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInternal, "failed to serialize to table", err)
	}
	return buf.Bytes(), nil
}

func flatten(prefix string, v any, rows map[string]string) {
	switch val := v.(type) {
	case map[string]any:
		for k, child := range val {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			flatten(key, child, rows)
		}
	case []any:
		for i, child := range val {
			flatten(fmt.Sprintf("%s[%d]", prefix, i), child, rows)
		}
	case nil:
		rows[prefix] = ""
	default:
		rows[prefix] = strings.TrimSpace(fmt.Sprint(val))
	}
}
