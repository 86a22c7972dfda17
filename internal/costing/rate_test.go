package costing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ratePtr(v float64) *float64 { return &v }

func TestResolveCircleRate(t *testing.T) {
	s := AppSettings{CircleBaseRate: 230, CircleAddPerKg: 12, CircleExtraAddPerKg: 8, BagStandardKg: 80}

	tests := []struct {
		name string
		rate *float64
		want float64
	}{
		{"absent falls back", nil, 250},
		{"explicit wins", ratePtr(275.5), 275.5},
		{"zero falls back", ratePtr(0), 250},
		{"negative falls back", ratePtr(-10), 250},
		{"nan falls back", ratePtr(math.NaN()), 250},
		{"inf falls back", ratePtr(math.Inf(1)), 250},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveCircleRate(PartSpec{CircleRate: tt.rate}, s)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPolicyApply(t *testing.T) {
	assert.Equal(t, 250.0, Policy{}.Apply(250))
	assert.Equal(t, 260.0, Policy{CircleRateOffset: 10}.Apply(250))
	assert.Equal(t, 240.0, Policy{CircleRateOffset: -10}.Apply(250))
}
