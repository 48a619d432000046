package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaddedRange(t *testing.T) {
	testCases := []struct {
		name     string
		minY     float64
		maxY     float64
		expected [2]float64
	}{
		{name: "positive", minY: 80, maxY: 100, expected: [2]float64{76, 105}},
		{name: "negative low point", minY: -40, maxY: 20, expected: [2]float64{-42, 21}},
		{name: "all negative", minY: -40, maxY: -10, expected: [2]float64{-42, -9}},
		{name: "zero", minY: 0, maxY: 0, expected: [2]float64{0, 0}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := paddedRange(tc.minY, tc.maxY)
			assert.Equal(t, tc.expected[0], r.Min)
			assert.Equal(t, tc.expected[1], r.Max)
			assert.LessOrEqual(t, r.Min, tc.minY)
			assert.GreaterOrEqual(t, r.Max, tc.maxY)
		})
	}
}
