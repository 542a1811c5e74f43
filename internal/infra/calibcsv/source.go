package calibcsv

import (
	"errors"
	"io/fs"
	"os"

	"github.com/CaAlO22/video2euroc/internal/domain/entity"
)

// CSVSource loads intrinsics from the camera matrix / distortion CSV pair
// when both files exist.
type CSVSource struct {
	MatrixPath     string
	DistortionPath string
}

func (s CSVSource) Name() string { return "calibration CSV files" }

func (s CSVSource) Load() (entity.CameraIntrinsics, bool, error) {
	for _, path := range []string{s.MatrixPath, s.DistortionPath} {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return entity.CameraIntrinsics{}, false, nil
			}
			return entity.CameraIntrinsics{}, false, err
		}
	}
	intr, err := Load(s.MatrixPath, s.DistortionPath)
	if err != nil {
		return entity.CameraIntrinsics{}, false, err
	}
	return intr, true, nil
}

// YAMLSource loads intrinsics from a previous camera_calibration.yaml.
type YAMLSource struct {
	Path string
}

func (s YAMLSource) Name() string { return "calibration YAML" }

func (s YAMLSource) Load() (entity.CameraIntrinsics, bool, error) {
	if _, err := os.Stat(s.Path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return entity.CameraIntrinsics{}, false, nil
		}
		return entity.CameraIntrinsics{}, false, err
	}
	intr, err := LoadCalibrationYAML(s.Path)
	if err != nil {
		return entity.CameraIntrinsics{}, false, err
	}
	return intr, true, nil
}
