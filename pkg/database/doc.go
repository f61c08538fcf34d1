// Package database defines the in-memory model of a tuning database.
//
// A Database is an ordered list of Records. Each Record is one benchmark entry:
// a kernel of a kernel family, tuned at one precision on one device, together with
// the measured Results. The order of Records is significant: it decides which
// Result wins when two measurements tie.
//
// # Precision Codes
//
// Precisions are stored as codes and resolved to display names with
// ParsePrecision:
//
//	16   -> Half
//	32   -> Single
//	64   -> Double
//	3232 -> ComplexSingle
//	6464 -> ComplexDouble
//
// Any other code yields an *UnknownPrecisionError.
//
// # Architectures
//
// Architecture is an explicit present/absent value. The benchmark format encodes
// "not recorded" as an empty string; it decodes to the absent Architecture.
package database
