// Package encoder turns winning tuning parameters into fixed-width vectors.
//
// A Schema is the sorted union of parameter names of one (family, precision)
// group. An Encoder walks a device's kernels in order and appends each kernel's
// values in schema order, then zero-pads the vector to the configured width.
package encoder

import (
	"fmt"
	"sort"

	"github.com/NVIDIA/tuning-tables/pkg/database"
)

// ParameterOverflowError is returned when more values than the fixed width
// would have to be encoded.
type ParameterOverflowError struct {
	Count int
	Width int
}

func (e *ParameterOverflowError) Error() string {
	return fmt.Sprintf("parameter overflow: %d parameters exceed width %d", e.Count, e.Width)
}

// OrderingViolationError is returned when a kernel's sorted parameter names do
// not line up with the schema at the encoder's cursor.
type OrderingViolationError struct {
	Kernel    string
	Parameter string
	Position  int
	// Expected is the schema name at Position, empty past the end of the schema.
	Expected string
}

func (e *OrderingViolationError) Error() string {
	if e.Expected == "" {
		return fmt.Sprintf("ordering violation in kernel %s: parameter %q at position %d is past the end of the schema",
			e.Kernel, e.Parameter, e.Position)
	}
	return fmt.Sprintf("ordering violation in kernel %s: parameter %q at position %d, schema has %q",
		e.Kernel, e.Parameter, e.Position, e.Expected)
}

// Schema is an immutable, sorted list of parameter names.
type Schema struct {
	names []string
}

// NewSchema sorts and deduplicates names. More than width names is an overflow.
func NewSchema(names []string, width int) (*Schema, error) {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	sorted := make([]string, 0, len(set))
	for n := range set {
		sorted = append(sorted, n)
	}
	sort.Strings(sorted)

	if len(sorted) > width {
		return nil, &ParameterOverflowError{Count: len(sorted), Width: width}
	}
	return &Schema{names: sorted}, nil
}

// SchemaFromRecords builds the schema from every result of every record.
func SchemaFromRecords(records []database.Record, width int) (*Schema, error) {
	var names []string
	for _, r := range records {
		for _, res := range r.Results {
			for name := range res.Parameters {
				names = append(names, name)
			}
		}
	}
	return NewSchema(names, width)
}

// Names returns a copy of the schema names.
func (s *Schema) Names() []string {
	return append([]string(nil), s.names...)
}

// Len returns the number of names.
func (s *Schema) Len() int { return len(s.names) }

// Kernel is the winning parameter mapping of one kernel on one device.
type Kernel struct {
	Name       string
	Parameters database.Parameters
}

// Encoder encodes kernels against a schema.
type Encoder struct {
	schema *Schema
	width  int
}

// New returns an Encoder producing vectors of the given width.
func New(schema *Schema, width int) *Encoder {
	return &Encoder{schema: schema, width: width}
}

// Encode concatenates the kernels' values in schema order and zero-pads the
// result to the encoder width. Kernels must be given in ascending name order.
func (e *Encoder) Encode(kernels []Kernel) ([]int, error) {
	values := make([]int, 0, e.width)
	cursor := 0

	for _, k := range kernels {
		for _, name := range k.Parameters.Names() {
			if cursor >= len(e.schema.names) {
				return nil, &OrderingViolationError{Kernel: k.Name, Parameter: name, Position: cursor}
			}
			if expected := e.schema.names[cursor]; expected != name {
				return nil, &OrderingViolationError{Kernel: k.Name, Parameter: name, Position: cursor, Expected: expected}
			}
			values = append(values, k.Parameters[name])
			cursor++
		}
	}

	if cursor > e.width {
		return nil, &ParameterOverflowError{Count: cursor, Width: e.width}
	}

	for len(values) < e.width {
		values = append(values, 0)
	}
	return values, nil
}
