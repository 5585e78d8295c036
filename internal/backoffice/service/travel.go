package service

import (
	"hash/fnv"
	"strings"
	"time"

	"github.com/crewdesk/crewdesk/internal/backoffice/apperr"
)

// TravelEstimator estimates drive time between two postcodes. The real
// implementation would call a routing provider; HashEstimator is the stand-in
// used until one is wired up.
type TravelEstimator interface {
	Estimate(from, to string) (time.Duration, error)
}

// HashEstimator derives a deterministic pseudo-travel-time from the postcode
// pair. Same inputs, same answer, both directions, no network. Useful for
// development and for exercising scheduling logic in tests.
type HashEstimator struct{}

func (HashEstimator) Estimate(from, to string) (time.Duration, error) {
	from = normalizePostcode(from)
	to = normalizePostcode(to)
	if from == "" || to == "" {
		return 0, apperr.New(apperr.Validation, "both postcodes are required")
	}
	if from == to {
		return 0, nil
	}

	// Order-independent: hash the sorted pair so A->B == B->A.
	lo, hi := from, to
	if lo > hi {
		lo, hi = hi, lo
	}
	h := fnv.New32a()
	h.Write([]byte(lo))
	h.Write([]byte{0})
	h.Write([]byte(hi))

	minutes := 10 + h.Sum32()%110
	return time.Duration(minutes) * time.Minute, nil
}

// normalizePostcode uppercases and strips interior whitespace, so "sw1a 1aa"
// and "SW1A1AA" are the same place.
func normalizePostcode(postcode string) string {
	return strings.ToUpper(strings.Join(strings.Fields(postcode), ""))
}
