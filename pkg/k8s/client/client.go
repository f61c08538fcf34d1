// Package client builds Kubernetes clients for reading and publishing
// tuning databases stored in ConfigMaps.
package client

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"
)

var (
	clientOnce   sync.Once
	cachedClient kubernetes.Interface
	clientErr    error
)

// GetKubeClient returns a process-wide client built from the default
// kubeconfig discovery, creating it on first call.
func GetKubeClient() (kubernetes.Interface, error) {
	clientOnce.Do(func() {
		cachedClient, clientErr = BuildKubeClient("")
	})
	return cachedClient, clientErr
}

// BuildKubeClient creates a client from the given kubeconfig file. An empty
// path falls back to KUBECONFIG, then ~/.kube/config if it exists, then the
// in-cluster service account.
func BuildKubeClient(kubeconfig string) (kubernetes.Interface, error) {
	config, err := clientcmd.BuildConfigFromFlags("", ResolveKubeconfig(kubeconfig))
	if err != nil {
		return nil, fmt.Errorf("failed to build kube config: %w", err)
	}

	cs, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}

	return cs, nil
}

// ResolveKubeconfig returns the kubeconfig path BuildKubeClient would use.
// An empty result selects in-cluster configuration.
func ResolveKubeconfig(kubeconfig string) string {
	if kubeconfig != "" {
		return kubeconfig
	}
	if env := os.Getenv("KUBECONFIG"); env != "" {
		return env
	}
	path := filepath.Join(homedir.HomeDir(), ".kube", "config")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
