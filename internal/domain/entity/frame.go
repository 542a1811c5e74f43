package entity

import "math"

// FrameInfo describes one extracted frame.
type FrameInfo struct {
	Index     int
	Timestamp int64
	Path      string
}

// FrameTimestamp converts a frame index into a nanosecond timestamp using
// the video's nominal frame rate. Timestamps are strictly increasing with
// the index for any positive fps.
func FrameTimestamp(index int, fps float64) int64 {
	return int64(math.Round(float64(index) * 1e9 / fps))
}
