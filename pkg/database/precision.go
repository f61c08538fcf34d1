package database

import (
	"fmt"
	"sort"
)

// Precision is a resolved precision code.
type Precision struct {
	code string
	name string
}

var precisions = map[string]string{
	"16":   "Half",
	"32":   "Single",
	"64":   "Double",
	"3232": "ComplexSingle",
	"6464": "ComplexDouble",
}

// UnknownPrecisionError is returned for a code outside the supported set.
type UnknownPrecisionError struct {
	Code string
}

func (e *UnknownPrecisionError) Error() string {
	return fmt.Sprintf("unknown precision: %q", e.Code)
}

// ParsePrecision resolves a precision code.
func ParsePrecision(code string) (Precision, error) {
	name, ok := precisions[code]
	if !ok {
		return Precision{}, &UnknownPrecisionError{Code: code}
	}
	return Precision{code: code, name: name}, nil
}

// Code returns the numeric code, e.g. "3232".
func (p Precision) Code() string { return p.code }

// Name returns the display name, e.g. "ComplexSingle".
func (p Precision) Name() string { return p.name }

func (p Precision) String() string { return p.code }

// SupportedPrecisions returns all known codes in ascending lexicographic order.
func SupportedPrecisions() []string {
	codes := make([]string, 0, len(precisions))
	for code := range precisions {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
