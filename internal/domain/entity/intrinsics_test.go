package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScaleRoundTrip(t *testing.T) {
	orig := CameraIntrinsics{
		Fx: 1454.6, Fy: 1455.1, Cx: 956.7, Cy: 692.6,
		K1: 0.12, K2: -0.34, P1: 0.001, P2: -0.002,
	}

	scale := 480.0 / 1920.0
	back := orig.Scale(scale).Scale(1 / scale)

	assert.InDelta(t, orig.Fx, back.Fx, 1e-9)
	assert.InDelta(t, orig.Fy, back.Fy, 1e-9)
	assert.InDelta(t, orig.Cx, back.Cx, 1e-9)
	assert.InDelta(t, orig.Cy, back.Cy, 1e-9)
}

func TestScaleLeavesDistortionUntouched(t *testing.T) {
	orig := CameraIntrinsics{Fx: 1000, K1: 0.1, K2: -0.2, P1: 0.01, P2: -0.02}
	scaled := orig.Scale(0.25)

	assert.Equal(t, 250.0, scaled.Fx)
	assert.Equal(t, orig.K1, scaled.K1)
	assert.Equal(t, orig.K2, scaled.K2)
	assert.Equal(t, orig.P1, scaled.P1)
	assert.Equal(t, orig.P2, scaled.P2)
}
