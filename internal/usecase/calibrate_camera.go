package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/CaAlO22/video2euroc/internal/domain/entity"
	"github.com/CaAlO22/video2euroc/internal/domain/port"
)

// CalibrateCameraUseCase drives the calibration pipeline: frame sampling,
// corner detection plus solve, result persistence.
type CalibrateCameraUseCase struct {
	extractor  port.FrameExtractor
	calibrator port.Calibrator
	writer     port.CalibrationWriter
	logger     *zap.Logger
}

func NewCalibrateCameraUseCase(
	extractor port.FrameExtractor,
	calibrator port.Calibrator,
	writer port.CalibrationWriter,
	logger *zap.Logger,
) *CalibrateCameraUseCase {
	return &CalibrateCameraUseCase{
		extractor:  extractor,
		calibrator: calibrator,
		writer:     writer,
		logger:     logger,
	}
}

type CalibrateRequest struct {
	VideoPath string

	// OutputDir is wiped and recreated; FramesDir and CalibFile default to
	// locations underneath it but may point elsewhere.
	OutputDir string
	FramesDir string
	CalibFile string

	BoardSize  entity.BoardSize
	SquareSize float64
	MaxFrames  int
	Visualize  bool
}

func (uc *CalibrateCameraUseCase) Execute(ctx context.Context, req CalibrateRequest) (*entity.CalibrationResult, *entity.Run, error) {
	run := entity.NewRun(entity.RunKindCalibrate, req.VideoPath)
	run.MarkRunning()

	log := uc.logger.With(zap.String("run_id", run.ID.String()), zap.String("video", req.VideoPath))
	totalTimer := time.Now()

	if root := filepath.Clean(req.OutputDir); req.OutputDir == "" || root == "." || root == string(filepath.Separator) {
		return nil, run, uc.fail(run, fmt.Errorf("refusing to wipe output dir %q", req.OutputDir))
	}
	if err := os.RemoveAll(req.OutputDir); err != nil {
		return nil, run, uc.fail(run, fmt.Errorf("clean output dir: %w", err))
	}
	if err := os.MkdirAll(req.OutputDir, 0755); err != nil {
		return nil, run, uc.fail(run, fmt.Errorf("create output dir: %w", err))
	}

	exStart := time.Now()
	extraction, err := uc.extractor.SampleFrames(ctx, req.VideoPath, req.FramesDir, req.MaxFrames)
	if err != nil {
		return nil, run, uc.fail(run, fmt.Errorf("extract frames: %w", err))
	}
	log.Info("sampling stage done",
		zap.Int("frames", extraction.FrameCount),
		zap.Duration("elapsed", time.Since(exStart)),
	)

	solveStart := time.Now()
	result, err := uc.calibrator.Calibrate(ctx, req.FramesDir, port.CalibrationOptions{
		BoardSize:        req.BoardSize,
		SquareSize:       req.SquareSize,
		Visualize:        req.Visualize,
		VisualizationDir: filepath.Join(filepath.Dir(req.CalibFile), "visualization"),
	})
	if err != nil {
		return nil, run, uc.fail(run, fmt.Errorf("calibrate: %w", err))
	}
	log.Info("calibration stage done",
		zap.Int("used_frames", result.UsedFrames),
		zap.Int("total_frames", result.TotalFrames),
		zap.Float64("reprojection_error", result.ReprojectionError),
		zap.Duration("elapsed", time.Since(solveStart)),
	)

	if err := uc.writer.WriteResult(req.CalibFile, result); err != nil {
		return nil, run, uc.fail(run, fmt.Errorf("write result: %w", err))
	}

	run.MarkCompleted(extraction.FrameCount, extraction.VideoDuration)
	log.Info("calibration completed",
		zap.String("result_file", req.CalibFile),
		zap.Duration("total", time.Since(totalTimer)),
	)
	return result, run, nil
}

func (uc *CalibrateCameraUseCase) fail(run *entity.Run, err error) error {
	run.MarkFailed(err.Error())
	return err
}
