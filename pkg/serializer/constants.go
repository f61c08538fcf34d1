package serializer

// URI forms accepted by readers and writers.
const (
	// ConfigMapURIScheme is the URI scheme for Kubernetes ConfigMaps.
	// Format: cm://namespace/configmap-name
	ConfigMapURIScheme = "cm://"

	// StdoutURI selects stdout for writers and stdin for readers.
	StdoutURI = "-"

	// ConfigMapDataKey is the ConfigMap data key holding a database.
	ConfigMapDataKey = "database.json"
)
