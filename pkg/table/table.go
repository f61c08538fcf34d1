// Package table builds the structured representation of one generated table.
//
// A Table is the text-independent form of a (family, precision) database entry:
// vendor blocks holding architecture blocks holding device entries, each entry a
// fixed-width parameter vector. The emitter renders Tables; grouping, selection
// and encoding are exercised here without any text formatting.
package table

import (
	"fmt"

	"github.com/NVIDIA/tuning-tables/pkg/database"
	"github.com/NVIDIA/tuning-tables/pkg/encoder"
	"github.com/NVIDIA/tuning-tables/pkg/generator/config"
	"github.com/NVIDIA/tuning-tables/pkg/grouper"
	"github.com/NVIDIA/tuning-tables/pkg/selector"
)

// Table is one (family, precision) database entry.
type Table struct {
	Family    string
	Precision database.Precision
	// Fallback is set when the entries come from the baseline default entries.
	Fallback bool
	Schema   []string
	Vendors  []VendorBlock
}

// VendorBlock is one vendor/device-type pair.
type VendorBlock struct {
	Vendor     string
	DeviceType string
	// Default marks the default vendor with the default device type.
	Default       bool
	Architectures []ArchitectureBlock
}

// ArchitectureBlock groups the devices of one architecture.
type ArchitectureBlock struct {
	Label   string
	Devices []DeviceEntry
}

// DeviceEntry is the encoded parameter vector of one device.
type DeviceEntry struct {
	Name string
	// Default marks the default device name.
	Default    bool
	Parameters []int
}

// Devices returns the number of device entries in the table.
func (t *Table) Devices() int {
	n := 0
	for _, vb := range t.Vendors {
		for _, ab := range vb.Architectures {
			n += len(ab.Devices)
		}
	}
	return n
}

// Builder builds Tables from records.
type Builder struct {
	cfg     *config.Config
	grouper *grouper.Grouper
}

// NewBuilder returns a Builder. A nil cfg uses defaults.
func NewBuilder(cfg *config.Config) *Builder {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &Builder{cfg: cfg, grouper: grouper.New(cfg)}
}

// Build selects the records of family at precision (with baseline fallback),
// computes the schema, picks the best result per kernel and encodes every device.
func (b *Builder) Build(records []database.Record, family string, precision database.Precision) (*Table, error) {
	sel, err := b.grouper.Select(records, family, precision.Code())
	if err != nil {
		return nil, err
	}

	width := b.cfg.ParametersLength()
	schema, err := encoder.SchemaFromRecords(sel.Records, width)
	if err != nil {
		return nil, fmt.Errorf("schema of %s:%s: %w", family, precision.Code(), err)
	}
	enc := encoder.New(schema, width)

	t := &Table{
		Family:    family,
		Precision: precision,
		Fallback:  sel.Fallback,
		Schema:    schema.Names(),
	}

	for _, vg := range b.grouper.Partition(sel.Records) {
		vb := VendorBlock{
			Vendor:     vg.Vendor,
			DeviceType: vg.DeviceType,
			Default:    vg.Vendor == b.cfg.VendorDefault() && vg.DeviceType == b.cfg.DeviceTypeDefault(),
		}

		for _, ag := range vg.Architectures {
			ab := ArchitectureBlock{Label: ag.Architecture.Label(b.cfg.ArchitectureDefault())}

			for _, dg := range ag.Devices {
				entry, err := b.encodeDevice(enc, dg)
				if err != nil {
					return nil, fmt.Errorf("%s:%s %s %s %q: %w",
						family, precision.Code(), vg.Vendor, vg.DeviceType, dg.Device, err)
				}
				ab.Devices = append(ab.Devices, entry)
			}
			vb.Architectures = append(vb.Architectures, ab)
		}
		t.Vendors = append(t.Vendors, vb)
	}

	return t, nil
}

func (b *Builder) encodeDevice(enc *encoder.Encoder, dg grouper.DeviceGroup) (DeviceEntry, error) {
	kernels := make([]encoder.Kernel, 0, len(dg.Kernels))
	for _, kg := range dg.Kernels {
		params, err := selector.Select(kg.Records)
		if err != nil {
			return DeviceEntry{}, err
		}
		kernels = append(kernels, encoder.Kernel{Name: kg.Kernel, Parameters: params})
	}

	values, err := enc.Encode(kernels)
	if err != nil {
		return DeviceEntry{}, err
	}

	return DeviceEntry{
		Name:       dg.Device,
		Default:    dg.Device == b.cfg.DeviceNameDefault(),
		Parameters: values,
	}, nil
}
