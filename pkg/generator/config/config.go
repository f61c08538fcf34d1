package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/NVIDIA/tuning-tables/pkg/defaults"
)

// EnvParallelism overrides the default parallelism.
const EnvParallelism = "TTGEN_PARALLELISM"

// nameLiteralOverhead is the width of the Name{""} wrapper around a device name.
const nameLiteralOverhead = len(`Name{""}`)

// Config holds generator settings. Build with NewConfig.
type Config struct {
	vendorDefault             string
	deviceTypeDefault         string
	deviceNameDefault         string
	architectureDefault       string
	deviceNameDefaultConstant string
	vendorsWithArchitecture   []string
	baselinePrecision         string

	nameLength       int
	parametersLength int

	projectName     string
	generatorName   string
	namespaces      []string
	includePrefix   string
	structureHeader string
	tableExtension  string
	sourceExtension string
	headerExtension string

	families         []string
	precisions       []string
	parallelism      int
	includeChecksums bool
	version          string
}

// Option mutates a Config during construction.
type Option func(*Config)

// NewConfig returns a Config with defaults applied, then opts.
func NewConfig(opts ...Option) *Config {
	c := &Config{
		vendorDefault:             defaults.VendorDefault,
		deviceTypeDefault:         defaults.DeviceTypeDefault,
		deviceNameDefault:         defaults.DeviceNameDefault,
		architectureDefault:       defaults.DeviceArchitectureDefault,
		deviceNameDefaultConstant: defaults.DeviceNameDefaultConstant,
		vendorsWithArchitecture:   slices.Clone(defaults.VendorsWithArchitecture),
		baselinePrecision:         defaults.BaselinePrecision,
		nameLength:                defaults.NameLength,
		parametersLength:          defaults.ParametersLength,
		projectName:               defaults.ProjectName,
		generatorName:             defaults.GeneratorName,
		namespaces:                slices.Clone(defaults.Namespaces),
		includePrefix:             defaults.IncludePrefix,
		structureHeader:           defaults.StructureHeader,
		tableExtension:            defaults.TableExtension,
		sourceExtension:           defaults.SourceExtension,
		headerExtension:           defaults.HeaderExtension,
		parallelism:               defaults.Parallelism,
		version:                   "dev",
	}

	if v := os.Getenv(EnvParallelism); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.parallelism = n
		}
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithVendorsWithArchitecture sets the vendors whose absent architecture is dropped
// once a concrete architecture exists.
func WithVendorsWithArchitecture(vendors []string) Option {
	return func(c *Config) { c.vendorsWithArchitecture = slices.Clone(vendors) }
}

// WithBaselinePrecision sets the precision whose default entries are used as fallback.
func WithBaselinePrecision(code string) Option {
	return func(c *Config) { c.baselinePrecision = code }
}

// WithParametersLength sets the fixed width of every parameter vector.
func WithParametersLength(n int) Option {
	return func(c *Config) { c.parametersLength = n }
}

// WithNameLength sets the fixed width of device-name fields. The default-device
// sentinel is re-padded to match.
func WithNameLength(n int) Option {
	return func(c *Config) {
		c.nameLength = n
		if n > 0 {
			c.deviceNameDefaultConstant = fmt.Sprintf("%-*s", n+nameLiteralOverhead, "kDeviceNameDefault")
		}
	}
}

// WithProjectName sets the project named in the generated banner.
func WithProjectName(name string) Option {
	return func(c *Config) { c.projectName = name }
}

// WithGeneratorName sets the generator named in the generated banner.
func WithGeneratorName(name string) Option {
	return func(c *Config) { c.generatorName = name }
}

// WithNamespaces sets the C++ namespaces, outermost first.
func WithNamespaces(namespaces []string) Option {
	return func(c *Config) { c.namespaces = slices.Clone(namespaces) }
}

// WithIncludePrefix sets the include path prefix of generated tables.
func WithIncludePrefix(prefix string) Option {
	return func(c *Config) { c.includePrefix = prefix }
}

// WithFamilies restricts generation to families matching the patterns.
func WithFamilies(patterns []string) Option {
	return func(c *Config) { c.families = slices.Clone(patterns) }
}

// WithPrecisions restricts generation to the given precision codes.
func WithPrecisions(codes []string) Option {
	return func(c *Config) { c.precisions = slices.Clone(codes) }
}

// WithParallelism sets how many families are generated concurrently.
func WithParallelism(n int) Option {
	return func(c *Config) { c.parallelism = n }
}

// WithIncludeChecksums enables checksums.txt at the output root.
func WithIncludeChecksums(enabled bool) Option {
	return func(c *Config) { c.includeChecksums = enabled }
}

// WithVersion sets the generator version recorded in results.
func WithVersion(version string) Option {
	return func(c *Config) { c.version = version }
}

func (c *Config) VendorDefault() string             { return c.vendorDefault }
func (c *Config) DeviceTypeDefault() string         { return c.deviceTypeDefault }
func (c *Config) DeviceNameDefault() string         { return c.deviceNameDefault }
func (c *Config) ArchitectureDefault() string       { return c.architectureDefault }
func (c *Config) DeviceNameDefaultConstant() string { return c.deviceNameDefaultConstant }
func (c *Config) BaselinePrecision() string         { return c.baselinePrecision }
func (c *Config) NameLength() int                   { return c.nameLength }
func (c *Config) ParametersLength() int             { return c.parametersLength }
func (c *Config) ProjectName() string               { return c.projectName }
func (c *Config) GeneratorName() string             { return c.generatorName }
func (c *Config) IncludePrefix() string             { return c.includePrefix }
func (c *Config) StructureHeader() string           { return c.structureHeader }
func (c *Config) TableExtension() string            { return c.tableExtension }
func (c *Config) SourceExtension() string           { return c.sourceExtension }
func (c *Config) HeaderExtension() string           { return c.headerExtension }
func (c *Config) Parallelism() int                  { return c.parallelism }
func (c *Config) IncludeChecksums() bool            { return c.includeChecksums }
func (c *Config) Version() string                   { return c.version }

// Namespaces returns a copy of the namespaces.
func (c *Config) Namespaces() []string { return slices.Clone(c.namespaces) }

// Families returns a copy of the family patterns.
func (c *Config) Families() []string { return slices.Clone(c.families) }

// Precisions returns a copy of the precision codes to generate. Empty means
// every precision of the database.
func (c *Config) Precisions() []string { return slices.Clone(c.precisions) }

// VendorsWithArchitecture returns a copy of the architecture-bearing vendors.
func (c *Config) VendorsWithArchitecture() []string { return slices.Clone(c.vendorsWithArchitecture) }

// HasArchitecture reports whether vendor is architecture-bearing.
func (c *Config) HasArchitecture(vendor string) bool {
	return slices.Contains(c.vendorsWithArchitecture, vendor)
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.nameLength <= 0 {
		return fmt.Errorf("invalid name length: %d", c.nameLength)
	}
	if c.parametersLength <= 0 {
		return fmt.Errorf("invalid parameters length: %d", c.parametersLength)
	}
	if c.parallelism <= 0 {
		return fmt.Errorf("invalid parallelism: %d", c.parallelism)
	}
	if want := c.nameLength + nameLiteralOverhead; len(c.deviceNameDefaultConstant) != want {
		return fmt.Errorf("invalid default device name constant: width %d, want %d",
			len(c.deviceNameDefaultConstant), want)
	}
	if len(c.namespaces) == 0 {
		return fmt.Errorf("invalid namespaces: at least one is required")
	}
	if c.baselinePrecision == "" {
		return fmt.Errorf("invalid baseline precision: empty")
	}
	return nil
}
