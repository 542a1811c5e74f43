// Package calibcsv loads camera intrinsics from the CSV pair
// (camera_matrix.csv, distortion_coefficients.csv) or from a previous
// calibration result YAML.
package calibcsv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/CaAlO22/video2euroc/internal/domain/entity"
)

// Load reads a 3x3 camera matrix and a distortion coefficient row from the
// two CSV files and assembles the pinhole intrinsics.
func Load(matrixPath string, distortionPath string) (entity.CameraIntrinsics, error) {
	matrix, err := readCSVFloats(matrixPath)
	if err != nil {
		return entity.CameraIntrinsics{}, fmt.Errorf("camera matrix: %w", err)
	}
	if len(matrix) < 3 || len(matrix[0]) < 3 || len(matrix[1]) < 3 {
		return entity.CameraIntrinsics{}, fmt.Errorf("camera matrix %s: want 3x3, got %d rows", matrixPath, len(matrix))
	}

	distortion, err := readCSVFloats(distortionPath)
	if err != nil {
		return entity.CameraIntrinsics{}, fmt.Errorf("distortion coefficients: %w", err)
	}

	intr := entity.CameraIntrinsics{
		Fx: matrix[0][0],
		Fy: matrix[1][1],
		Cx: matrix[0][2],
		Cy: matrix[1][2],
	}
	if len(distortion) > 0 {
		row := distortion[0]
		coeffs := []*float64{&intr.K1, &intr.K2, &intr.P1, &intr.P2}
		for i, dst := range coeffs {
			if i < len(row) {
				*dst = row[i]
			}
		}
	}
	return intr, nil
}

func readCSVFloats(path string) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var rows [][]float64
	for i, record := range records {
		if len(record) == 0 {
			continue
		}
		row := make([]float64, 0, len(record))
		for j, cell := range record {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("parse %s row %d col %d: %w", path, i+1, j+1, err)
			}
			row = append(row, v)
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// calibrationFile mirrors the YAML written by the calibration tool.
type calibrationFile struct {
	CameraMatrix struct {
		Rows int         `yaml:"rows"`
		Cols int         `yaml:"cols"`
		Data [][]float64 `yaml:"data"`
	} `yaml:"camera_matrix"`
	DistortionCoefficients struct {
		Rows int       `yaml:"rows"`
		Cols int       `yaml:"cols"`
		Data []float64 `yaml:"data"`
	} `yaml:"distortion_coefficients"`
	ImageWidth  int `yaml:"image_width"`
	ImageHeight int `yaml:"image_height"`
}

// LoadCalibrationYAML reads intrinsics from a camera_calibration.yaml
// produced by a previous calibration run.
func LoadCalibrationYAML(path string) (entity.CameraIntrinsics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return entity.CameraIntrinsics{}, fmt.Errorf("read %s: %w", path, err)
	}

	var calib calibrationFile
	if err := yaml.Unmarshal(data, &calib); err != nil {
		return entity.CameraIntrinsics{}, fmt.Errorf("parse %s: %w", path, err)
	}
	m := calib.CameraMatrix.Data
	if len(m) < 3 || len(m[0]) < 3 || len(m[1]) < 3 {
		return entity.CameraIntrinsics{}, fmt.Errorf("parse %s: camera_matrix data is not 3x3", path)
	}

	intr := entity.CameraIntrinsics{
		Fx:     m[0][0],
		Fy:     m[1][1],
		Cx:     m[0][2],
		Cy:     m[1][2],
		Width:  calib.ImageWidth,
		Height: calib.ImageHeight,
	}
	d := calib.DistortionCoefficients.Data
	coeffs := []*float64{&intr.K1, &intr.K2, &intr.P1, &intr.P2}
	for i, dst := range coeffs {
		if i < len(d) {
			*dst = d[i]
		}
	}
	return intr, nil
}
