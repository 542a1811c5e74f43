package port

import "github.com/CaAlO22/video2euroc/internal/domain/entity"

type TimestampWriter interface {
	// WriteTimestamps scans imageDir for timestamp-named PNG files and
	// writes one "<ts> <ts>" line per frame, ascending. Returns the number
	// of entries written.
	WriteTimestamps(imageDir string, outputFile string) (int, error)
}

type SensorWriter interface {
	WriteSensorYAML(outputFile string, intr entity.CameraIntrinsics, orb entity.ORBParams) error
}
