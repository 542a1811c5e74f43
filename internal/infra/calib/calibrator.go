// Package calib runs monocular chessboard calibration over a directory of
// frames and persists the result.
package calib

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"github.com/CaAlO22/video2euroc/internal/domain/entity"
	"github.com/CaAlO22/video2euroc/internal/domain/port"
)

// ErrInsufficientDetections reports that too few frames contained a
// detectable chessboard for the solve to be trustworthy.
var ErrInsufficientDetections = errors.New("insufficient chessboard detections")

// MinDetections is the minimum number of frames with a detected board.
// Below three views the solve is degenerate in practice.
const MinDetections = 3

const (
	subPixWindow   = 11
	subPixMaxIter  = 30
	subPixEpsilon  = 0.001
	distCoeffCount = 5
)

type Calibrator struct {
	logger *zap.Logger
}

func NewCalibrator(logger *zap.Logger) *Calibrator {
	return &Calibrator{logger: logger}
}

func (c *Calibrator) Calibrate(ctx context.Context, framesDir string, opts port.CalibrationOptions) (*entity.CalibrationResult, error) {
	images, err := filepath.Glob(filepath.Join(framesDir, "*.png"))
	if err != nil {
		return nil, fmt.Errorf("glob frames: %w", err)
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("no PNG frames in %s", framesDir)
	}
	sort.Strings(images)

	if opts.Visualize && opts.VisualizationDir != "" {
		if err := os.MkdirAll(opts.VisualizationDir, 0755); err != nil {
			return nil, fmt.Errorf("create visualization dir: %w", err)
		}
	}

	boardPattern := image.Pt(opts.BoardSize.Width, opts.BoardSize.Height)
	boardPoints := objectGrid(opts.BoardSize, opts.SquareSize)
	defer boardPoints.Close()

	objectPoints := gocv.NewPoints3fVector()
	defer objectPoints.Close()
	imagePoints := gocv.NewPoints2fVector()
	defer imagePoints.Close()

	var imageSize image.Point
	var firstDetected string
	detections := 0

	for _, fname := range images {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if ok := c.detectCorners(fname, boardPattern, boardPoints, objectPoints, imagePoints, &imageSize, opts); ok {
			if firstDetected == "" {
				firstDetected = fname
			}
			detections++
		}
	}

	c.logger.Info("corner detection finished",
		zap.Int("frames", len(images)),
		zap.Int("detections", detections),
	)
	if detections < MinDetections {
		return nil, fmt.Errorf("%w: %d of %d frames (need %d)",
			ErrInsufficientDetections, detections, len(images), MinDetections)
	}

	cameraMatrix := gocv.NewMat()
	defer cameraMatrix.Close()
	distCoeffs := gocv.NewMat()
	defer distCoeffs.Close()
	rvecs := gocv.NewMat()
	defer rvecs.Close()
	tvecs := gocv.NewMat()
	defer tvecs.Close()

	rms := gocv.CalibrateCamera(objectPoints, imagePoints, imageSize,
		&cameraMatrix, &distCoeffs, &rvecs, &tvecs, gocv.CalibFlag(0))

	result := &entity.CalibrationResult{
		ImageWidth:        imageSize.X,
		ImageHeight:       imageSize.Y,
		ReprojectionError: rms,
		UsedFrames:        detections,
		TotalFrames:       len(images),
	}
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			result.CameraMatrix[row][col] = cameraMatrix.GetDoubleAt(row, col)
		}
	}
	for i := 0; i < distCoeffCount && i < distCoeffs.Cols()*distCoeffs.Rows(); i++ {
		result.DistCoeffs[i] = distCoeffs.GetDoubleAt(0, i)
	}

	c.logger.Info("calibration solved",
		zap.Float64("reprojection_error", rms),
		zap.Float64("fx", result.CameraMatrix[0][0]),
		zap.Float64("fy", result.CameraMatrix[1][1]),
		zap.Float64("cx", result.CameraMatrix[0][2]),
		zap.Float64("cy", result.CameraMatrix[1][2]),
	)

	if opts.Visualize && firstDetected != "" {
		if err := c.renderUndistortion(firstDetected, result, opts.VisualizationDir); err != nil {
			c.logger.Warn("undistortion visualization failed", zap.Error(err))
		}
	}

	return result, nil
}

// detectCorners loads one frame, looks for the chessboard and, when found,
// appends the refined correspondence pair.
func (c *Calibrator) detectCorners(
	fname string,
	pattern image.Point,
	boardPoints gocv.Point3fVector,
	objectPoints gocv.Points3fVector,
	imagePoints gocv.Points2fVector,
	imageSize *image.Point,
	opts port.CalibrationOptions,
) bool {
	img := gocv.IMRead(fname, gocv.IMReadColor)
	if img.Empty() {
		c.logger.Warn("skipping unreadable frame", zap.String("file", fname))
		return false
	}
	defer img.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	if imageSize.X == 0 {
		*imageSize = image.Pt(gray.Cols(), gray.Rows())
	}

	corners := gocv.NewMat()
	defer corners.Close()
	found := gocv.FindChessboardCorners(gray, pattern, &corners,
		gocv.CalibCBAdaptiveThresh|gocv.CalibCBNormalizeImage)
	if !found {
		return false
	}

	criteria := gocv.NewTermCriteria(gocv.MaxIter|gocv.EPS, subPixMaxIter, subPixEpsilon)
	gocv.CornerSubPix(gray, &corners,
		image.Pt(subPixWindow, subPixWindow), image.Pt(-1, -1), criteria)

	objectPoints.Append(boardPoints)
	refined := gocv.NewPoint2fVectorFromMat(corners)
	defer refined.Close()
	imagePoints.Append(refined)

	if opts.Visualize && opts.VisualizationDir != "" {
		gocv.DrawChessboardCorners(&img, pattern, corners, found)
		visPath := filepath.Join(opts.VisualizationDir, "corners_"+filepath.Base(fname))
		if ok := gocv.IMWrite(visPath, img); !ok {
			c.logger.Warn("corner overlay write failed", zap.String("file", visPath))
		}
	}
	return true
}

// objectGrid builds the planar board model: inner corner positions in board
// coordinates, scaled by the physical square size, z = 0.
func objectGrid(board entity.BoardSize, squareSize float64) gocv.Point3fVector {
	points := gocv.NewPoint3fVector()
	for y := 0; y < board.Height; y++ {
		for x := 0; x < board.Width; x++ {
			points.Append(gocv.Point3f{
				X: float32(float64(x) * squareSize),
				Y: float32(float64(y) * squareSize),
				Z: 0,
			})
		}
	}
	return points
}
