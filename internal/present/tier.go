// Package present turns classified posts into display-ready view-models.
// Everything here is pure: no I/O, no shared state.
package present

// ConfidenceLevel is the bucket a classifier confidence falls into.
type ConfidenceLevel string

const (
	ConfidenceHigh ConfidenceLevel = "high"
	ConfidenceMed  ConfidenceLevel = "med"
	ConfidenceLow  ConfidenceLevel = "low"
)

const (
	highConfidence = 0.7
	medConfidence  = 0.4
)

// ConfidenceTier buckets c; both bounds are inclusive to the higher tier.
// NaN falls through to low.
func ConfidenceTier(c float64) ConfidenceLevel {
	switch {
	case c >= highConfidence:
		return ConfidenceHigh
	case c >= medConfidence:
		return ConfidenceMed
	default:
		return ConfidenceLow
	}
}

// Freshness is the urgency bucket of a task post's age.
type Freshness string

const (
	FreshUrgent    Freshness = "urgent"
	FreshVeryFresh Freshness = "very-fresh"
	FreshFresh     Freshness = "fresh"
	FreshOK        Freshness = "ok"
	FreshHurry     Freshness = "hurry"
	FreshStale     Freshness = "stale"
)

// freshnessBounds are checked in order; the first strict upper bound wins.
var freshnessBounds = []struct {
	below float64
	tier  Freshness
}{
	{10, FreshUrgent},
	{30, FreshVeryFresh},
	{60, FreshFresh},
	{180, FreshOK},
	{360, FreshHurry},
}

// FreshnessTier buckets an age in minutes. Anything past the last bound,
// including NaN, is stale.
func FreshnessTier(minutes float64) Freshness {
	for _, b := range freshnessBounds {
		if minutes < b.below {
			return b.tier
		}
	}
	return FreshStale
}

// FreshnessTiers lists every tier from most to least urgent.
func FreshnessTiers() []Freshness {
	out := make([]Freshness, 0, len(freshnessBounds)+1)
	for _, b := range freshnessBounds {
		out = append(out, b.tier)
	}
	return append(out, FreshStale)
}
