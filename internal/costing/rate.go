package costing

import "math"

// FallbackCircleRate is the organisation-wide circle rate.
func FallbackCircleRate(s AppSettings) float64 {
	return s.CircleBaseRate + s.CircleAddPerKg + s.CircleExtraAddPerKg
}

// ResolveCircleRate prefers the part's own rate when it is set, finite and
// positive, and falls back to the settings otherwise.
func ResolveCircleRate(p PartSpec, s AppSettings) float64 {
	if p.CircleRate != nil {
		r := *p.CircleRate
		if !math.IsNaN(r) && !math.IsInf(r, 0) && r > 0 {
			return r
		}
	}
	return FallbackCircleRate(s)
}

// Apply returns rate adjusted by the policy.
func (p Policy) Apply(rate float64) float64 {
	return rate + p.CircleRateOffset
}
