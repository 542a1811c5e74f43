package entity

import (
	"fmt"
	"strconv"
	"strings"
)

// BoardSize is the number of inner corners of the chessboard pattern.
type BoardSize struct {
	Width  int
	Height int
}

// ParseBoardSize parses a "<width>x<height>" string such as "9x6".
func ParseBoardSize(s string) (BoardSize, error) {
	parts := strings.Split(s, "x")
	if len(parts) != 2 {
		return BoardSize{}, fmt.Errorf("parse board size %q: want <width>x<height>", s)
	}
	w, err := strconv.Atoi(parts[0])
	if err != nil {
		return BoardSize{}, fmt.Errorf("parse board size %q: %w", s, err)
	}
	h, err := strconv.Atoi(parts[1])
	if err != nil {
		return BoardSize{}, fmt.Errorf("parse board size %q: %w", s, err)
	}
	if w <= 0 || h <= 0 {
		return BoardSize{}, fmt.Errorf("parse board size %q: dimensions must be positive", s)
	}
	return BoardSize{Width: w, Height: h}, nil
}

func (b BoardSize) String() string {
	return fmt.Sprintf("%dx%d", b.Width, b.Height)
}

// CalibrationResult is the immutable outcome of one calibration solve.
type CalibrationResult struct {
	CameraMatrix      [3][3]float64
	DistCoeffs        [5]float64
	ImageWidth        int
	ImageHeight       int
	ReprojectionError float64
	UsedFrames        int
	TotalFrames       int
}

// Intrinsics lifts the calibration result into the pinhole model used by
// the sensor.yaml writer.
func (r CalibrationResult) Intrinsics() CameraIntrinsics {
	return CameraIntrinsics{
		Fx:     r.CameraMatrix[0][0],
		Fy:     r.CameraMatrix[1][1],
		Cx:     r.CameraMatrix[0][2],
		Cy:     r.CameraMatrix[1][2],
		K1:     r.DistCoeffs[0],
		K2:     r.DistCoeffs[1],
		P1:     r.DistCoeffs[2],
		P2:     r.DistCoeffs[3],
		Width:  r.ImageWidth,
		Height: r.ImageHeight,
	}
}
