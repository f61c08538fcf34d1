package database

import (
	"encoding/json"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Database is the parsed benchmark collection.
type Database struct {
	Sections []Record `json:"sections" yaml:"sections"`
}

// Record is one benchmark entry.
type Record struct {
	Family       string       `json:"kernel_family" yaml:"kernel_family"`
	Precision    string       `json:"precision" yaml:"precision"`
	Vendor       string       `json:"clblast_device_vendor" yaml:"clblast_device_vendor"`
	DeviceType   string       `json:"clblast_device_type" yaml:"clblast_device_type"`
	Architecture Architecture `json:"clblast_device_architecture" yaml:"clblast_device_architecture"`
	Device       string       `json:"clblast_device_name" yaml:"clblast_device_name"`
	Kernel       string       `json:"kernel" yaml:"kernel"`
	Results      []Result     `json:"results" yaml:"results"`
}

// Key returns the grouping key of the record.
func (r *Record) Key() Key {
	return Key{
		Family:       r.Family,
		Precision:    r.Precision,
		Vendor:       r.Vendor,
		DeviceType:   r.DeviceType,
		Architecture: r.Architecture,
		Device:       r.Device,
		Kernel:       r.Kernel,
	}
}

// Result is a single measurement.
type Result struct {
	Time       float64    `json:"time" yaml:"time"`
	Parameters Parameters `json:"parameters" yaml:"parameters"`
}

// Parameters maps a tuning parameter name to its value.
type Parameters map[string]int

// Names returns the parameter names in ascending order.
func (p Parameters) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Key identifies one logical benchmark target.
type Key struct {
	Family       string
	Precision    string
	Vendor       string
	DeviceType   string
	Architecture Architecture
	Device       string
	Kernel       string
}

func (k Key) String() string {
	return strings.Join([]string{
		k.Family, k.Precision, k.Vendor, k.DeviceType, k.Architecture.Name(), k.Device, k.Kernel,
	}, ":")
}

// Architecture is a device architecture that may be absent.
type Architecture struct {
	name     string
	recorded bool
}

// NoArchitecture is the absent architecture.
var NoArchitecture = Architecture{}

// NewArchitecture returns the architecture called name; the empty name is absent.
func NewArchitecture(name string) Architecture {
	if name == "" {
		return NoArchitecture
	}
	return Architecture{name: name, recorded: true}
}

// IsRecorded reports whether the architecture is present.
func (a Architecture) IsRecorded() bool { return a.recorded }

// Name returns the architecture name, empty when absent.
func (a Architecture) Name() string { return a.name }

// Label returns the name, or fallback when the architecture is absent.
func (a Architecture) Label(fallback string) string {
	if !a.recorded {
		return fallback
	}
	return a.name
}

// Less orders absent before any recorded architecture, then by name.
func (a Architecture) Less(b Architecture) bool {
	return a.name < b.name
}

func (a Architecture) String() string { return a.name }

// MarshalJSON encodes an absent architecture as the empty string.
func (a Architecture) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.name)
}

// UnmarshalJSON decodes a string; null and "" are absent.
func (a *Architecture) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil {
		*a = NoArchitecture
		return nil
	}
	*a = NewArchitecture(*s)
	return nil
}

// MarshalYAML encodes an absent architecture as the empty string.
func (a Architecture) MarshalYAML() (any, error) {
	return a.name, nil
}

// UnmarshalYAML decodes a scalar; null and "" are absent.
func (a *Architecture) UnmarshalYAML(value *yaml.Node) error {
	if value.Tag == "!!null" {
		*a = NoArchitecture
		return nil
	}
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	*a = NewArchitecture(s)
	return nil
}
