package port

import (
	"context"

	"github.com/CaAlO22/video2euroc/internal/domain/entity"
)

type CalibrationOptions struct {
	BoardSize  entity.BoardSize
	SquareSize float64
	Visualize  bool
	// VisualizationDir receives corner overlays and the undistortion
	// comparison when Visualize is set.
	VisualizationDir string
}

type Calibrator interface {
	Calibrate(ctx context.Context, framesDir string, opts CalibrationOptions) (*entity.CalibrationResult, error)
}

type CalibrationWriter interface {
	WriteResult(outputFile string, result *entity.CalibrationResult) error
}
