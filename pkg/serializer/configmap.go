package serializer

import (
	"context"
	"fmt"
	"sort"
	"strings"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	cnserrors "github.com/NVIDIA/tuning-tables/pkg/errors"
	"github.com/NVIDIA/tuning-tables/pkg/k8s/client"
)

// kubeClientFor returns the client used for ConfigMap URIs.
var kubeClientFor = func(kubeconfig string) (kubernetes.Interface, error) {
	if kubeconfig == "" {
		return client.GetKubeClient()
	}
	return client.BuildKubeClient(kubeconfig)
}

func isConfigMapURI(uri string) bool {
	return strings.HasPrefix(uri, ConfigMapURIScheme)
}

// ParseConfigMapURI splits a cm://namespace/name URI.
func ParseConfigMapURI(uri string) (namespace, name string, err error) {
	if !isConfigMapURI(uri) {
		return "", "", cnserrors.New(cnserrors.ErrCodeInvalidRequest, "not a ConfigMap URI: "+uri)
	}
	parts := strings.Split(strings.TrimPrefix(uri, ConfigMapURIScheme), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", cnserrors.New(cnserrors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid ConfigMap URI %q, expected %snamespace/name", uri, ConfigMapURIScheme))
	}
	return parts[0], parts[1], nil
}

// readConfigMap returns the payload and data key of the ConfigMap. The key
// database.json is preferred; otherwise the first key in sorted order of Data,
// then of BinaryData, is used.
func readConfigMap(ctx context.Context, cs kubernetes.Interface, namespace, name string) ([]byte, string, error) {
	cm, err := cs.CoreV1().ConfigMaps(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		code := cnserrors.ErrCodeUnavailable
		if apierrors.IsNotFound(err) {
			code = cnserrors.ErrCodeNotFound
		}
		return nil, "", cnserrors.WrapWithContext(code, "failed to get ConfigMap", err,
			map[string]any{"namespace": namespace, "name": name})
	}

	if data, ok := cm.Data[ConfigMapDataKey]; ok {
		return []byte(data), ConfigMapDataKey, nil
	}
	if key := firstKey(cm.Data); key != "" {
		return []byte(cm.Data[key]), key, nil
	}
	if key := firstKey(cm.BinaryData); key != "" {
		return cm.BinaryData[key], key, nil
	}

	return nil, "", cnserrors.New(cnserrors.ErrCodeNotFound,
		fmt.Sprintf("ConfigMap %s/%s has no data", namespace, name))
}

// writeConfigMap stores content under key, creating the ConfigMap if needed.
func writeConfigMap(ctx context.Context, cs kubernetes.Interface, namespace, name, key string, content []byte) error {
	cms := cs.CoreV1().ConfigMaps(namespace)

	cm, err := cms.Get(ctx, name, metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		cm = &corev1.ConfigMap{
			ObjectMeta: metav1.ObjectMeta{
				Name:      name,
				Namespace: namespace,
				Labels:    map[string]string{"app.kubernetes.io/managed-by": "ttgen"},
			},
			Data: map[string]string{key: string(content)},
		}
		if _, err := cms.Create(ctx, cm, metav1.CreateOptions{}); err != nil {
			return cnserrors.WrapWithContext(cnserrors.ErrCodeUnavailable, "failed to create ConfigMap", err,
				map[string]any{"namespace": namespace, "name": name})
		}
		return nil
	}
	if err != nil {
		return cnserrors.WrapWithContext(cnserrors.ErrCodeUnavailable, "failed to get ConfigMap", err,
			map[string]any{"namespace": namespace, "name": name})
	}

	if cm.Data == nil {
		cm.Data = map[string]string{}
	}
	cm.Data[key] = string(content)
	if _, err := cms.Update(ctx, cm, metav1.UpdateOptions{}); err != nil {
		return cnserrors.WrapWithContext(cnserrors.ErrCodeUnavailable, "failed to update ConfigMap", err,
			map[string]any{"namespace": namespace, "name": name})
	}
	return nil
}

func firstKey[V any](m map[string]V) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)
	return keys[0]
}
