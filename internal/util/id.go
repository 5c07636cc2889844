// Package util provides shared utility functions.
package util

import (
	"errors"
	"fmt"
	"strings"

	"github.com/josephgoksu/litedo/types"
)

const (
	// DefaultShortIDLength is the number of characters shown for an id.
	DefaultShortIDLength = 8
	// MaxAmbiguousCandidates caps the candidates listed in an ambiguity error.
	MaxAmbiguousCandidates = 5
)

// ErrAmbiguousID is wrapped by ResolveID when a prefix matches several ids.
var ErrAmbiguousID = errors.New("ambiguous ID prefix")

// ShortID returns the first n characters of id. A non-positive n means
// DefaultShortIDLength.
//
//	ShortID("3f2a9c4e-1b7d-4c55-9a0e-2f6d8b1c7e90", 0) → "3f2a9c4e"
//	ShortID("1", 0) → "1"
func ShortID(id string, n int) string {
	if n <= 0 {
		n = DefaultShortIDLength
	}
	if len(id) <= n {
		return id
	}
	return id[:n]
}

// ResolveID resolves a full id or unique prefix against ids.
//
// Resolution rules:
//  1. An exact match wins, even when it is also a prefix of other ids.
//  2. Otherwise a prefix matching exactly one id resolves to it.
//  3. Several matches are a validation error wrapping ErrAmbiguousID.
//  4. No match is a not-found error.
func ResolveID(ids []string, idOrPrefix string) (string, error) {
	ref := strings.TrimSpace(idOrPrefix)
	if ref == "" {
		return "", types.ValidationError("task id is required")
	}

	var candidates []string
	for _, id := range ids {
		if id == ref {
			return id, nil
		}
		if strings.HasPrefix(id, ref) {
			candidates = append(candidates, id)
		}
	}
	return resolveFromCandidates(ref, candidates)
}

// ResolveIDs resolves every reference, stopping at the first failure.
func ResolveIDs(ids []string, refs []string) ([]string, error) {
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		id, err := ResolveID(ids, ref)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func resolveFromCandidates(prefix string, candidates []string) (string, error) {
	switch len(candidates) {
	case 0:
		return "", types.NotFoundError(prefix)
	case 1:
		return candidates[0], nil
	default:
		shown := make([]string, 0, MaxAmbiguousCandidates)
		for i, c := range candidates {
			if i == MaxAmbiguousCandidates {
				break
			}
			shown = append(shown, ShortID(c, 0))
		}
		msg := fmt.Sprintf("prefix %q matches %d tasks: %v", prefix, len(candidates), shown)
		return "", types.NewError(types.KindValidation, msg, ErrAmbiguousID)
	}
}
