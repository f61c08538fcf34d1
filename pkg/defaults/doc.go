// Package defaults provides centralized constants for the tuning-table generator.
//
// This package defines the fixed-width contract with the consuming runtime, the
// vocabulary of default entries, and the baseline precision used for fallback.
// Centralizing these values keeps the generator and the hand-written runtime
// headers in agreement.
//
// # Width Contract
//
//   - NameLength: device-name fields are exactly this many characters
//   - ParametersLength: every parameter vector has exactly this many slots
//
// Both values are mirrored by the runtime's database structure header; changing
// them requires a coordinated change on the consuming side.
//
// # Default Entries
//
// A benchmark record tuned for "any device" uses the default vendor, device type
// and device name. The default device name is rendered as the pre-baked
// DeviceNameDefaultConstant instead of a quoted Name{...} literal so that it
// matches the runtime's lookup constant byte for byte.
//
// # Usage
//
// Import and use constants directly, or pass them through config.Config:
//
//	import "github.com/NVIDIA/tuning-tables/pkg/defaults"
//
//	cfg := config.NewConfig(config.WithParametersLength(defaults.ParametersLength))
package defaults
