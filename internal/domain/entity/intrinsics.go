package entity

// CameraIntrinsics is the pinhole camera model written into sensor.yaml.
// It is constructed once from flags, CSV files or a previous calibration
// and passed by value from then on.
type CameraIntrinsics struct {
	Fx float64
	Fy float64
	Cx float64
	Cy float64

	K1 float64
	K2 float64
	P1 float64
	P2 float64

	Width  int
	Height int
	FPS    float64
}

// Scale returns a copy with the focal lengths and principal point multiplied
// by factor. Distortion coefficients are dimensionless and stay untouched.
func (c CameraIntrinsics) Scale(factor float64) CameraIntrinsics {
	c.Fx *= factor
	c.Fy *= factor
	c.Cx *= factor
	c.Cy *= factor
	return c
}

// ORBParams are the static ORB extractor settings emitted into sensor.yaml.
type ORBParams struct {
	NFeatures   int
	ScaleFactor float64
	NLevels     int
	IniThFAST   int
	MinThFAST   int
}
