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

// ConvertVideoUseCase drives the EuRoC conversion pipeline: frame
// extraction, timestamp file, sensor.yaml, optional zip packaging.
type ConvertVideoUseCase struct {
	extractor  port.FrameExtractor
	timestamps port.TimestampWriter
	sensor     port.SensorWriter
	archiver   port.Archiver
	logger     *zap.Logger
}

func NewConvertVideoUseCase(
	extractor port.FrameExtractor,
	timestamps port.TimestampWriter,
	sensor port.SensorWriter,
	archiver port.Archiver,
	logger *zap.Logger,
) *ConvertVideoUseCase {
	return &ConvertVideoUseCase{
		extractor:  extractor,
		timestamps: timestamps,
		sensor:     sensor,
		archiver:   archiver,
		logger:     logger,
	}
}

type ConvertRequest struct {
	VideoPath string

	// DatasetRoot is wiped and recreated before extraction; OutputDir,
	// TimestampFile and SensorFile live underneath it.
	DatasetRoot   string
	OutputDir     string
	TimestampFile string
	SensorFile    string

	TargetWidth int

	// Sources are consulted in precedence order; Defaults fill in when no
	// source provides intrinsics and supply resolution and frame rate.
	Sources  []port.IntrinsicsSource
	Defaults entity.CameraIntrinsics
	ORB      entity.ORBParams

	// ZipPath, when set, packages the dataset root after a successful run.
	ZipPath string
}

func (uc *ConvertVideoUseCase) Execute(ctx context.Context, req ConvertRequest) (*entity.Run, error) {
	run := entity.NewRun(entity.RunKindConvert, req.VideoPath)
	run.MarkRunning()

	log := uc.logger.With(zap.String("run_id", run.ID.String()), zap.String("video", req.VideoPath))
	totalTimer := time.Now()

	intr, sourceName, err := ResolveIntrinsics(req.Sources, req.Defaults)
	if err != nil {
		return uc.fail(run, fmt.Errorf("resolve intrinsics: %w", err))
	}
	log.Info("intrinsics resolved",
		zap.String("source", sourceName),
		zap.Float64("fx", intr.Fx),
		zap.Float64("fy", intr.Fy),
		zap.Float64("cx", intr.Cx),
		zap.Float64("cy", intr.Cy),
	)

	if root := filepath.Clean(req.DatasetRoot); req.DatasetRoot == "" || root == "." || root == string(filepath.Separator) {
		return uc.fail(run, fmt.Errorf("refusing to wipe dataset root %q", req.DatasetRoot))
	}
	if err := os.RemoveAll(req.DatasetRoot); err != nil {
		return uc.fail(run, fmt.Errorf("clean dataset root: %w", err))
	}
	if err := os.MkdirAll(req.DatasetRoot, 0755); err != nil {
		return uc.fail(run, fmt.Errorf("create dataset root: %w", err))
	}

	exStart := time.Now()
	result, err := uc.extractor.ExtractFrames(ctx, req.VideoPath, req.OutputDir, req.TargetWidth)
	if err != nil {
		return uc.fail(run, fmt.Errorf("extract frames: %w", err))
	}
	log.Info("extraction stage done",
		zap.Int("frames", result.FrameCount),
		zap.Duration("elapsed", time.Since(exStart)),
	)

	tsStart := time.Now()
	entries, err := uc.timestamps.WriteTimestamps(req.OutputDir, req.TimestampFile)
	if err != nil {
		return uc.fail(run, fmt.Errorf("generate timestamps: %w", err))
	}
	if entries != result.FrameCount {
		log.Warn("timestamp entry count differs from extracted frame count",
			zap.Int("entries", entries),
			zap.Int("frames", result.FrameCount),
		)
	}
	log.Info("timestamp stage done",
		zap.Int("entries", entries),
		zap.Duration("elapsed", time.Since(tsStart)),
	)

	if err := uc.sensor.WriteSensorYAML(req.SensorFile, intr, req.ORB); err != nil {
		return uc.fail(run, fmt.Errorf("generate sensor config: %w", err))
	}

	if req.ZipPath != "" {
		zipStart := time.Now()
		if err := uc.archiver.ZipDir(ctx, req.DatasetRoot, req.ZipPath); err != nil {
			return uc.fail(run, fmt.Errorf("package dataset: %w", err))
		}
		log.Info("dataset packaged",
			zap.String("zip", req.ZipPath),
			zap.Duration("elapsed", time.Since(zipStart)),
		)
	}

	run.MarkCompleted(result.FrameCount, result.VideoDuration)
	log.Info("conversion completed",
		zap.Int("frame_count", result.FrameCount),
		zap.Float64("video_duration", result.VideoDuration),
		zap.Duration("total", time.Since(totalTimer)),
	)
	return run, nil
}

func (uc *ConvertVideoUseCase) fail(run *entity.Run, err error) (*entity.Run, error) {
	run.MarkFailed(err.Error())
	return run, err
}
