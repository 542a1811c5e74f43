package calib

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/CaAlO22/video2euroc/internal/domain/entity"
)

type matrixYAML struct {
	Rows int         `yaml:"rows"`
	Cols int         `yaml:"cols"`
	Data [][]float64 `yaml:"data"`
}

type coeffsYAML struct {
	Rows int       `yaml:"rows"`
	Cols int       `yaml:"cols"`
	Data []float64 `yaml:"data"`
}

type resultYAML struct {
	CameraMatrix           matrixYAML `yaml:"camera_matrix"`
	DistortionCoefficients coeffsYAML `yaml:"distortion_coefficients"`
	ImageWidth             int        `yaml:"image_width"`
	ImageHeight            int        `yaml:"image_height"`
	ReprojectionError      float64    `yaml:"reprojection_error"`
}

type ResultWriter struct {
	logger *zap.Logger
}

func NewResultWriter(logger *zap.Logger) *ResultWriter {
	return &ResultWriter{logger: logger}
}

func (w *ResultWriter) WriteResult(outputFile string, result *entity.CalibrationResult) error {
	doc := resultYAML{
		CameraMatrix: matrixYAML{
			Rows: 3,
			Cols: 3,
			Data: [][]float64{
				{result.CameraMatrix[0][0], result.CameraMatrix[0][1], result.CameraMatrix[0][2]},
				{result.CameraMatrix[1][0], result.CameraMatrix[1][1], result.CameraMatrix[1][2]},
				{result.CameraMatrix[2][0], result.CameraMatrix[2][1], result.CameraMatrix[2][2]},
			},
		},
		DistortionCoefficients: coeffsYAML{
			Rows: 1,
			Cols: 5,
			Data: result.DistCoeffs[:],
		},
		ImageWidth:        result.ImageWidth,
		ImageHeight:       result.ImageHeight,
		ReprojectionError: result.ReprojectionError,
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("marshal calibration result: %w", err)
	}

	if dir := filepath.Dir(outputFile); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create result dir: %w", err)
		}
	}
	if err := os.WriteFile(outputFile, data, 0644); err != nil {
		return fmt.Errorf("write calibration result: %w", err)
	}

	w.logger.Info("calibration result written", zap.String("file", outputFile))
	return nil
}
