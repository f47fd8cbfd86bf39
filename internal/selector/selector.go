// Package selector decides which candidate frames of a source file to keep.
package selector

import (
	"errors"
	"fmt"

	"github.com/visualscout/visualscout/internal/frame"
	"github.com/visualscout/visualscout/internal/similarity"
)

// Policy picks the sampling strategy: static keeps every candidate from the
// fixed-interval extraction, smart drops candidates that look like the most
// recently retained frame.
type Policy string

const (
	PolicyStatic Policy = "static"
	PolicySmart  Policy = "smart"
)

// ParsePolicy validates a policy name from configuration.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyStatic, PolicySmart:
		return Policy(s), nil
	}
	return "", fmt.Errorf("unknown sampling policy %q (must be static or smart)", s)
}

// Select returns the retained subset of candidates under the given policy.
// The result is always an order-preserving subsequence of the input, and the
// first candidate is always retained.
func Select(candidates frame.Sequence, policy Policy, profile similarity.Profile) frame.Sequence {
	if policy == PolicyStatic || len(candidates) <= 1 {
		return candidates
	}

	retained := frame.Sequence{candidates[0]}
	anchor := candidates[0]

	for _, candidate := range candidates[1:] {
		dup, err := similarity.Similar(anchor, candidate, profile)
		if errors.Is(err, similarity.ErrDimensionMismatch) {
			// Resolution drift inside one source is a data-quality issue,
			// not a pipeline failure. An incomparable pair is kept.
			dup = false
		}
		if dup {
			continue
		}
		retained = append(retained, candidate)
		anchor = candidate
	}

	return retained
}
