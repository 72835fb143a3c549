// Package potency buckets IC50 measurements into the tiers shown next to
// every molecule, and match fractions into the confidence tiers shown next to
// every target.
package potency

import "slices"

// IC50 thresholds in nanomolar.
const (
	ThresholdStrong   = 1.0
	ThresholdModerate = 5.0
)

// Match-fraction thresholds for target confidence.
const (
	ThresholdHighMatch   = 0.85
	ThresholdMediumMatch = 0.70
)

// Tier is a potency bucket.
type Tier string

const (
	TierStrong   Tier = "strong"
	TierModerate Tier = "moderate"
	TierWeak     Tier = "weak"
)

// Classify returns the tier for an IC50 value.  It is total: every float,
// including negatives and NaN, maps to exactly one tier.  Values below 1 are
// Strong, values in [1,5) Moderate, everything else Weak.
func Classify(ic50 float64) Tier {
	if ic50 < ThresholdStrong {
		return TierStrong
	}
	if ic50 < ThresholdModerate {
		return TierModerate
	}
	return TierWeak
}

func (t Tier) String() string { return string(t) }

// Label is the display name.
func (t Tier) Label() string {
	switch t {
	case TierStrong:
		return "Strong"
	case TierModerate:
		return "Moderate"
	case TierWeak:
		return "Weak"
	default:
		return "Unknown"
	}
}

// Color is the presentational colour name used by badges and chart bars.
func (t Tier) Color() string {
	switch t {
	case TierStrong:
		return "green"
	case TierModerate:
		return "yellow"
	case TierWeak:
		return "red"
	default:
		return "gray"
	}
}

// MatchTier is the confidence bucket of a target's match fraction.
type MatchTier string

const (
	MatchHigh   MatchTier = "high"
	MatchMedium MatchTier = "medium"
	MatchLow    MatchTier = "low"
)

// ClassifyMatch returns the confidence tier for a match fraction in [0,1].
func ClassifyMatch(fraction float64) MatchTier {
	if fraction >= ThresholdHighMatch {
		return MatchHigh
	}
	if fraction >= ThresholdMediumMatch {
		return MatchMedium
	}
	return MatchLow
}

func (m MatchTier) String() string { return string(m) }

// Color is the confidence badge colour.
func (m MatchTier) Color() string {
	switch m {
	case MatchHigh:
		return "green"
	case MatchMedium:
		return "blue"
	default:
		return "red"
	}
}

// ChartPoint is one bar of the IC50 chart.
type ChartPoint struct {
	Label string  `json:"label"`
	IC50  float64 `json:"ic50"`
	Tier  Tier    `json:"tier"`
}

// Chart returns the points ordered by ascending IC50 with their tiers filled
// in.  Equal values keep their input order; points is not modified.
func Chart(points []ChartPoint) []ChartPoint {
	out := make([]ChartPoint, len(points))
	for i, p := range points {
		p.Tier = Classify(p.IC50)
		out[i] = p
	}
	slices.SortStableFunc(out, func(a, b ChartPoint) int {
		switch {
		case a.IC50 < b.IC50:
			return -1
		case a.IC50 > b.IC50:
			return 1
		default:
			return 0
		}
	})
	return out
}
