package grouper

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/NVIDIA/tuning-tables/pkg/database"
	"github.com/NVIDIA/tuning-tables/pkg/generator/config"
)

// MissingBaselineError is returned when a precision has no records and the
// family has no default baseline entries to fall back on.
type MissingBaselineError struct {
	Family            string
	Precision         string
	BaselinePrecision string
}

func (e *MissingBaselineError) Error() string {
	return fmt.Sprintf("no results for %s:%s and no default entries in %s:%s",
		e.Family, e.Precision, e.Family, e.BaselinePrecision)
}

// Selection is the record subset of one (family, precision) tier.
type Selection struct {
	Family    string
	Precision string
	Records   []database.Record
	// Fallback is set when Records are the baseline default entries.
	Fallback bool
}

// VendorGroup holds the records of one vendor/device-type pair.
type VendorGroup struct {
	Vendor        string
	DeviceType    string
	Architectures []ArchitectureGroup
}

// ArchitectureGroup holds the devices of one architecture.
type ArchitectureGroup struct {
	Architecture database.Architecture
	Devices      []DeviceGroup
}

// DeviceGroup holds the kernels of one device.
type DeviceGroup struct {
	Device  string
	Kernels []KernelGroup
}

// KernelGroup holds the records sharing one grouping key, in input order.
type KernelGroup struct {
	Kernel  string
	Records []database.Record
}

// Grouper partitions records according to a Config.
type Grouper struct {
	cfg *config.Config
}

// New returns a Grouper. A nil cfg uses defaults.
func New(cfg *config.Config) *Grouper {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &Grouper{cfg: cfg}
}

// Families returns the sorted family names.
func Families(records []database.Record) []string {
	return sortedSet(records, func(r database.Record) string { return r.Family })
}

// Precisions returns the sorted precision codes of the whole collection.
func Precisions(records []database.Record) []string {
	return sortedSet(records, func(r database.Record) string { return r.Precision })
}

// Select returns the records of family at precision, falling back to the
// family's baseline default entries when there are none.
func (g *Grouper) Select(records []database.Record, family, precision string) (*Selection, error) {
	sel := &Selection{Family: family, Precision: precision}
	for _, r := range records {
		if r.Family == family && r.Precision == precision {
			sel.Records = append(sel.Records, r)
		}
	}
	if len(sel.Records) > 0 {
		return sel, nil
	}

	baseline := g.cfg.BaselinePrecision()
	slog.Info("no results found, retrieving defaults",
		"family", family,
		"precision", precision,
		"baseline", family+":"+baseline,
	)

	for _, r := range records {
		if r.Family == family && r.Precision == baseline &&
			r.Vendor == g.cfg.VendorDefault() &&
			r.DeviceType == g.cfg.DeviceTypeDefault() &&
			r.Device == g.cfg.DeviceNameDefault() {
			sel.Records = append(sel.Records, r)
		}
	}
	if len(sel.Records) == 0 {
		return nil, &MissingBaselineError{Family: family, Precision: precision, BaselinePrecision: baseline}
	}

	sel.Fallback = true
	return sel, nil
}

// Partition builds the vendor/type -> architecture -> device -> kernel tree.
func (g *Grouper) Partition(records []database.Record) []VendorGroup {
	var groups []VendorGroup

	vendors, byVendor := partition(records, func(r database.Record) string { return r.Vendor }, stringLess)
	for _, vendor := range vendors {
		types, byType := partition(byVendor[vendor], func(r database.Record) string { return r.DeviceType }, stringLess)
		for _, deviceType := range types {
			groups = append(groups, VendorGroup{
				Vendor:        vendor,
				DeviceType:    deviceType,
				Architectures: g.architectures(vendor, byType[deviceType]),
			})
		}
	}

	return groups
}

func (g *Grouper) architectures(vendor string, records []database.Record) []ArchitectureGroup {
	archs, byArch := partition(records,
		func(r database.Record) database.Architecture { return r.Architecture },
		func(a, b database.Architecture) bool { return a.Less(b) },
	)

	if g.cfg.HasArchitecture(vendor) && len(archs) > 1 && !archs[0].IsRecorded() {
		slog.Debug("dropping records without architecture",
			"vendor", vendor,
			"records", len(byArch[archs[0]]),
		)
		archs = archs[1:]
	}

	result := make([]ArchitectureGroup, 0, len(archs))
	for _, arch := range archs {
		devices, byDevice := partition(byArch[arch], func(r database.Record) string { return r.Device }, stringLess)

		ag := ArchitectureGroup{Architecture: arch, Devices: make([]DeviceGroup, 0, len(devices))}
		for _, device := range devices {
			kernels, byKernel := partition(byDevice[device], func(r database.Record) string { return r.Kernel }, stringLess)

			dg := DeviceGroup{Device: device, Kernels: make([]KernelGroup, 0, len(kernels))}
			for _, kernel := range kernels {
				dg.Kernels = append(dg.Kernels, KernelGroup{Kernel: kernel, Records: byKernel[kernel]})
			}
			ag.Devices = append(ag.Devices, dg)
		}
		result = append(result, ag)
	}

	return result
}

// partition splits records by key. Keys are returned sorted by less; records
// keep their input order within each key.
func partition[K comparable](records []database.Record, key func(database.Record) K, less func(a, b K) bool) ([]K, map[K][]database.Record) {
	groups := make(map[K][]database.Record)
	var keys []K
	for _, r := range records {
		k := key(r)
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], r)
	}
	sort.Slice(keys, func(i, j int) bool { return less(keys[i], keys[j]) })
	return keys, groups
}

func sortedSet(records []database.Record, key func(database.Record) string) []string {
	keys, _ := partition(records, key, stringLess)
	return keys
}

func stringLess(a, b string) bool { return a < b }
