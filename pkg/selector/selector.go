// Package selector picks the best result among records sharing a grouping key.
//
// Repeated tuning runs of the same kernel on the same device produce several
// records with one key. Select validates that they describe the same parameter
// space and returns the parameters of the fastest run.
package selector

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/NVIDIA/tuning-tables/pkg/database"
	cnserrors "github.com/NVIDIA/tuning-tables/pkg/errors"
)

// InconsistentDatabaseError reports records of one key that disagree on
// result cardinality or on parameter names.
type InconsistentDatabaseError struct {
	Key database.Key
	// Count is the number of records sharing Key.
	Count int
	// AllKeys is the sorted union of parameter names over all records.
	AllKeys []string
	// Missing maps a record index to the names that record lacks.
	Missing map[int][]string
	// ResultCounts holds the number of results of each record.
	ResultCounts []int
}

func (e *InconsistentDatabaseError) Error() string {
	return fmt.Sprintf("inconsistent database for %s: %d records, all keys %v, missing keys %v, result counts %v",
		e.Key, e.Count, e.AllKeys, e.MissingKeys(), e.ResultCounts)
}

// MissingKeys returns the sorted set of names missing from at least one record.
func (e *InconsistentDatabaseError) MissingKeys() []string {
	seen := make(map[string]struct{})
	for _, names := range e.Missing {
		for _, n := range names {
			seen[n] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// Select returns the parameters of the fastest result among records.
// Records must share one key, carry exactly one result each and agree on
// parameter names. Records are scanned in order and only a strictly faster
// result replaces the current best, so the earliest record wins a tie.
func Select(records []database.Record) (database.Parameters, error) {
	if len(records) == 0 {
		return nil, cnserrors.New(cnserrors.ErrCodeInvalidRequest, "no records to select from")
	}

	if err := validate(records); err != nil {
		return nil, err
	}

	best := records[0].Results[0]
	for _, r := range records[1:] {
		if r.Results[0].Time < best.Time {
			best = r.Results[0]
		}
	}

	return best.Parameters, nil
}

func validate(records []database.Record) error {
	reference := names(records[0])
	consistent := true
	for _, r := range records {
		if len(r.Results) != 1 || !equal(names(r), reference) {
			consistent = false
			break
		}
	}
	if consistent {
		return nil
	}

	err := diagnose(records)
	logDiagnostic(err, records)
	return err
}

func diagnose(records []database.Record) *InconsistentDatabaseError {
	union := make(map[string]struct{})
	perRecord := make([]map[string]struct{}, len(records))
	counts := make([]int, len(records))

	for i, r := range records {
		counts[i] = len(r.Results)
		perRecord[i] = make(map[string]struct{})
		for _, res := range r.Results {
			for name := range res.Parameters {
				union[name] = struct{}{}
				perRecord[i][name] = struct{}{}
			}
		}
	}

	missing := make(map[int][]string)
	for i := range records {
		var lacks []string
		for name := range union {
			if _, ok := perRecord[i][name]; !ok {
				lacks = append(lacks, name)
			}
		}
		if len(lacks) > 0 {
			sort.Strings(lacks)
			missing[i] = lacks
		}
	}

	return &InconsistentDatabaseError{
		Key:          records[0].Key(),
		Count:        len(records),
		AllKeys:      sortedKeys(union),
		Missing:      missing,
		ResultCounts: counts,
	}
}

func logDiagnostic(err *InconsistentDatabaseError, records []database.Record) {
	slog.Error("found conflicting kernel databases",
		"key", err.Key.String(),
		"count", err.Count,
		"expected_results_per_record", 1,
	)
	slog.Error("all keys in databases", "keys", err.AllKeys)
	slog.Error("missing keys in one or more databases", "keys", err.MissingKeys())
	for i, r := range records {
		slog.Error("conflicting kernel database",
			"index", i,
			"results", err.ResultCounts[i],
			"missing", err.Missing[i],
			"record", fmt.Sprintf("%+v", r),
		)
	}
}

// names returns the parameter names of the first result, sorted.
func names(r database.Record) []string {
	if len(r.Results) == 0 {
		return nil
	}
	return r.Results[0].Parameters.Names()
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
