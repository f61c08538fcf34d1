// Package grouper partitions a tuning database into the nested hierarchy that
// the generated tables mirror.
//
// # Hierarchy
//
//	family -> precision -> vendor -> device type -> architecture -> device -> kernel
//
// Keys are sorted in ascending byte order at every level. Records keep their
// input order inside a leaf so that result selection stays first-wins.
//
// # Precision Tiers
//
// Precisions are the union over the entire database, not per family. A family
// without records for one of them falls back to the default entries of its
// baseline precision (vendor, device type and device name all default). A
// family without such a baseline is a configuration error.
//
// # Architectures
//
// For architecture-bearing vendors (config.HasArchitecture) the absent
// architecture is dropped for a vendor/device-type pair once a concrete
// architecture is present. For other vendors the absent architecture is kept
// and rendered with the default label.
package grouper
