/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/NVIDIA/tuning-tables/pkg/database"
	cnserrors "github.com/NVIDIA/tuning-tables/pkg/errors"
)

// unmatchedPatterns returns the patterns that select none of families.
func unmatchedPatterns(patterns, families []string) []string {
	var unmatched []string
	for _, p := range patterns {
		found := false
		for _, f := range families {
			if database.MatchesPattern(f, p) {
				found = true
				break
			}
		}
		if !found {
			unmatched = append(unmatched, p)
		}
	}
	return unmatched
}

// checkPrecisions rejects unknown precision codes, hinting at the closest
// known one.
func checkPrecisions(codes []string) error {
	for _, code := range codes {
		if _, err := database.ParsePrecision(code); err != nil {
			if hint := suggest(code, database.SupportedPrecisions()); hint != "" {
				return cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest, fmt.Sprintf("invalid --precision %q, did you mean %q?", code, hint), err)
			}
			return cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest, fmt.Sprintf("invalid --precision %q", code), err)
		}
	}
	return nil
}

// suggest returns the candidate closest to input, or "" when none is close
// enough to be a plausible typo.
func suggest(input string, candidates []string) string {
	input = strings.Trim(input, "*")
	if input == "" {
		return ""
	}

	best, bestDist := "", -1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(input, c)
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}

	limit := max(2, len(input)/3)
	if bestDist < 0 || bestDist > limit {
		return ""
	}
	return best
}

// unmatchedMessage describes a pattern matching no family, with a hint.
func unmatchedMessage(pattern string, families []string) string {
	if hint := suggest(pattern, families); hint != "" {
		return fmt.Sprintf("no kernel family matches %q, did you mean %q?", pattern, hint)
	}
	return fmt.Sprintf("no kernel family matches %q", pattern)
}
