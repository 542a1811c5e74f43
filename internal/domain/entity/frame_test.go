package entity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrameTimestamp(t *testing.T) {
	assert.Equal(t, int64(0), FrameTimestamp(0, 30))
	assert.Equal(t, int64(33333333), FrameTimestamp(1, 30))
	assert.Equal(t, int64(50000000), FrameTimestamp(1, 20))
	assert.Equal(t, int64(1e9), FrameTimestamp(20, 20))
}

func TestFrameTimestampMatchesRoundRule(t *testing.T) {
	for _, fps := range []float64{20, 29.97, 30, 59.94} {
		for index := 0; index < 2000; index++ {
			want := int64(math.Round(float64(index) * 1e9 / fps))
			assert.Equal(t, want, FrameTimestamp(index, fps))
		}
	}
}

func TestFrameTimestampStrictlyIncreasing(t *testing.T) {
	for _, fps := range []float64{20, 29.97, 60, 120} {
		prev := int64(-1)
		for index := 0; index < 10000; index++ {
			ts := FrameTimestamp(index, fps)
			assert.Greater(t, ts, prev, "fps %f index %d", fps, index)
			prev = ts
		}
	}
}
