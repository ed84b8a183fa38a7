package insight

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.Zero(t, mean(nil))
	assert.InDelta(t, 2.0, mean([]float64{1, 2, 3}), 1e-9)
	assert.InDelta(t, -0.1, mean([]float64{-0.3, 0.1}), 1e-9)
}

func TestStddev(t *testing.T) {
	assert.Zero(t, stddev(nil))
	assert.Zero(t, stddev([]float64{0.2, 0.2, 0.2}))
	assert.InDelta(t, 0.3209, stddev([]float64{0.4, 0.35, -0.15, -0.35}), 1e-4)
}

func TestOLSSlope(t *testing.T) {
	assert.Zero(t, olsSlope([]float64{1}))
	assert.InDelta(t, 1.0, olsSlope([]float64{1, 2, 3}), 1e-9)
	assert.InDelta(t, -2.0, olsSlope([]float64{5, 3, 1}), 1e-9)
	assert.InDelta(t, 0.0, olsSlope([]float64{4, 4, 4, 4}), 1e-9)
	assert.InDelta(t, -1.3, olsSlope([]float64{12, 10, 9, 8}), 1e-9)
}
