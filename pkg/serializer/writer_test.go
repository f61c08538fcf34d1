package serializer

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/kubernetes/fake"
)

type testReport struct {
	RunID  string   `json:"runId" yaml:"runId"`
	Files  []string `json:"files" yaml:"files"`
	Tables int      `json:"tables" yaml:"tables"`
}

var report = testReport{RunID: "abc", Files: []string{"copy/copy.cpp", "copy/copy.hpp"}, Tables: 5}

func TestWriter_SerializeJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(FormatJSON, &buf).Serialize(context.Background(), report))

	var got testReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, report, got)
}

func TestWriter_SerializeYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(FormatYAML, &buf).Serialize(context.Background(), report))

	var got testReport
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, report, got)
}

func TestWriter_SerializeTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(FormatTable, &buf).Serialize(context.Background(), report))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "FIELD"))
	assert.Contains(t, lines[0], "VALUE")
	assert.True(t, strings.HasPrefix(lines[1], "files[0]"))
	assert.True(t, strings.HasSuffix(lines[1], "copy/copy.cpp"))
	assert.True(t, strings.HasPrefix(lines[3], "runId"))
	assert.True(t, strings.HasSuffix(lines[4], "5"))
}

func TestWriter_UnknownFormatFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter("invalid", &buf).Serialize(context.Background(), report))

	var got testReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "abc", got.RunID)
}

func TestNewFileWriterOrStdout(t *testing.T) {
	t.Run("stdout", func(t *testing.T) {
		for _, path := range []string{"", StdoutURI} {
			w, err := NewFileWriterOrStdout(FormatJSON, path)
			require.NoError(t, err)
			assert.Equal(t, os.Stdout, w.out)
			assert.NoError(t, w.Close())
		}
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "report.yaml")
		w, err := NewFileWriterOrStdout(FormatYAML, path)
		require.NoError(t, err)
		require.NoError(t, w.Serialize(context.Background(), report))
		require.NoError(t, w.Close())

		got, err := FromFile[testReport](path)
		require.NoError(t, err)
		assert.Equal(t, report, *got)
	})

	t.Run("invalid path", func(t *testing.T) {
		_, err := NewFileWriterOrStdout(FormatJSON, "/nonexistent/dir/report.json")
		assert.Error(t, err)
	})

	t.Run("invalid configmap uri", func(t *testing.T) {
		for _, uri := range []string{"cm://", "cm://ns", "cm://ns/"} {
			_, err := NewFileWriterOrStdout(FormatJSON, uri)
			assert.Error(t, err, uri)
		}
	})
}

func TestWriter_ConfigMap(t *testing.T) {
	cs := useFakeClient(t, &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{Name: "existing", Namespace: "gpu"},
		Data:       map[string]string{"keep": "me"},
	})
	ctx := context.Background()

	for _, name := range []string{"existing", "fresh"} {
		w, err := NewFileWriterOrStdout(FormatJSON, "cm://gpu/"+name)
		require.NoError(t, err)
		require.NoError(t, w.Serialize(ctx, report))

		cm, err := cs.CoreV1().ConfigMaps("gpu").Get(ctx, name, metav1.GetOptions{})
		require.NoError(t, err)

		var got testReport
		require.NoError(t, json.Unmarshal([]byte(cm.Data["result.json"]), &got))
		assert.Equal(t, report, got)
	}

	cm, err := cs.CoreV1().ConfigMaps("gpu").Get(ctx, "existing", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "me", cm.Data["keep"])
}

func TestWriter_ConfigMapKubeconfig(t *testing.T) {
	cs := fake.NewClientset(&corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{Name: "db", Namespace: "gpu"},
		Data:       map[string]string{ConfigMapDataKey: `{"name": "copy"}`},
	})
	var used []string
	prev := kubeClientFor
	kubeClientFor = func(kubeconfig string) (kubernetes.Interface, error) {
		used = append(used, kubeconfig)
		return cs, nil
	}
	t.Cleanup(func() { kubeClientFor = prev })

	ctx := context.Background()
	_, err := Load[testDoc](ctx, "cm://gpu/db", "/custom/kubeconfig")
	require.NoError(t, err)

	w, err := NewFileWriterOrStdoutWithKubeconfig(FormatJSON, "cm://gpu/report", "/custom/kubeconfig")
	require.NoError(t, err)
	require.NoError(t, w.Serialize(ctx, report))

	w, err = NewFileWriterOrStdout(FormatJSON, "cm://gpu/report")
	require.NoError(t, err)
	require.NoError(t, w.Serialize(ctx, report))

	assert.Equal(t, []string{"/custom/kubeconfig", "/custom/kubeconfig", ""}, used)

	cm, err := cs.CoreV1().ConfigMaps("gpu").Get(ctx, "report", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Contains(t, cm.Data, "result.json")
}

func TestFormat_IsUnknown(t *testing.T) {
	for _, f := range []Format{FormatJSON, FormatYAML, FormatTable} {
		assert.False(t, f.IsUnknown(), f)
	}
	assert.True(t, Format("xml").IsUnknown())
	assert.Equal(t, []string{"json", "yaml", "table"}, SupportedFormats())
}
