package calib

import (
	"fmt"
	"image"
	"path/filepath"

	"gocv.io/x/gocv"

	"github.com/CaAlO22/video2euroc/internal/domain/entity"
)

// renderUndistortion writes undistorted.png (cropped to the valid region)
// and comparison.png (original and undistorted side by side) under visDir.
func (c *Calibrator) renderUndistortion(framePath string, result *entity.CalibrationResult, visDir string) error {
	img := gocv.IMRead(framePath, gocv.IMReadColor)
	if img.Empty() {
		return fmt.Errorf("read %s for undistortion", framePath)
	}
	defer img.Close()

	cameraMatrix := matFromCameraMatrix(result.CameraMatrix)
	defer cameraMatrix.Close()
	distCoeffs := matFromDistCoeffs(result.DistCoeffs)
	defer distCoeffs.Close()

	size := image.Pt(img.Cols(), img.Rows())
	newCameraMatrix, roi := gocv.GetOptimalNewCameraMatrixWithParams(
		cameraMatrix, distCoeffs, size, 1, size, false)
	defer newCameraMatrix.Close()

	undistorted := gocv.NewMat()
	defer undistorted.Close()
	gocv.Undistort(img, &undistorted, cameraMatrix, distCoeffs, newCameraMatrix)

	comparison := gocv.NewMat()
	defer comparison.Close()
	gocv.Hconcat(img, undistorted, &comparison)
	comparisonPath := filepath.Join(visDir, "comparison.png")
	if ok := gocv.IMWrite(comparisonPath, comparison); !ok {
		return fmt.Errorf("write %s", comparisonPath)
	}

	cropped := undistorted
	if roi.Dx() > 0 && roi.Dy() > 0 && (roi.Min.X > 0 || roi.Min.Y > 0) {
		region := undistorted.Region(roi)
		defer region.Close()
		cropped = region
	}
	undistortedPath := filepath.Join(visDir, "undistorted.png")
	if ok := gocv.IMWrite(undistortedPath, cropped); !ok {
		return fmt.Errorf("write %s", undistortedPath)
	}
	return nil
}

func matFromCameraMatrix(m [3][3]float64) gocv.Mat {
	mat := gocv.NewMatWithSize(3, 3, gocv.MatTypeCV64F)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			mat.SetDoubleAt(row, col, m[row][col])
		}
	}
	return mat
}

func matFromDistCoeffs(d [5]float64) gocv.Mat {
	mat := gocv.NewMatWithSize(1, 5, gocv.MatTypeCV64F)
	for i, v := range d {
		mat.SetDoubleAt(0, i, v)
	}
	return mat
}
