package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/CaAlO22/video2euroc/internal/domain/entity"
	"github.com/CaAlO22/video2euroc/internal/domain/port"
)

type fakeCalibrator struct {
	err    error
	result *entity.CalibrationResult
	opts   port.CalibrationOptions
	called bool
}

func (f *fakeCalibrator) Calibrate(_ context.Context, _ string, opts port.CalibrationOptions) (*entity.CalibrationResult, error) {
	f.called = true
	f.opts = opts
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeResultWriter struct {
	err     error
	written bool
	result  *entity.CalibrationResult
}

func (f *fakeResultWriter) WriteResult(_ string, result *entity.CalibrationResult) error {
	f.written = true
	f.result = result
	return f.err
}

func calibrateRequest(t *testing.T) CalibrateRequest {
	outputDir := filepath.Join(t.TempDir(), "calibration_results")
	return CalibrateRequest{
		VideoPath:  "chessboard.mp4",
		OutputDir:  outputDir,
		FramesDir:  filepath.Join(outputDir, "frames"),
		CalibFile:  filepath.Join(outputDir, "camera_calibration.yaml"),
		BoardSize:  entity.BoardSize{Width: 9, Height: 6},
		SquareSize: 20,
		MaxFrames:  30,
		Visualize:  true,
	}
}

func TestCalibrateCameraSuccess(t *testing.T) {
	extractor := &fakeExtractor{result: &port.ExtractionResult{FrameCount: 30, FPS: 30, VideoDuration: 10}}
	calibrator := &fakeCalibrator{result: &entity.CalibrationResult{
		ReprojectionError: 0.42,
		UsedFrames:        25,
		TotalFrames:       30,
	}}
	writer := &fakeResultWriter{}

	uc := NewCalibrateCameraUseCase(extractor, calibrator, writer, zaptest.NewLogger(t))
	result, run, err := uc.Execute(context.Background(), calibrateRequest(t))
	require.NoError(t, err)

	assert.Equal(t, entity.RunStatusCompleted, run.Status)
	assert.Equal(t, 0.42, result.ReprojectionError)
	assert.True(t, writer.written)
	assert.Equal(t, []string{"sample"}, extractor.calls)
}

func TestCalibrateCameraVisualizationDir(t *testing.T) {
	extractor := &fakeExtractor{result: &port.ExtractionResult{FrameCount: 5, FPS: 30, VideoDuration: 1}}
	calibrator := &fakeCalibrator{result: &entity.CalibrationResult{UsedFrames: 5, TotalFrames: 5}}

	uc := NewCalibrateCameraUseCase(extractor, calibrator, &fakeResultWriter{}, zaptest.NewLogger(t))
	req := calibrateRequest(t)
	_, _, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(req.OutputDir, "visualization"), calibrator.opts.VisualizationDir)
	assert.True(t, calibrator.opts.Visualize)
	assert.Equal(t, req.BoardSize, calibrator.opts.BoardSize)
	assert.Equal(t, req.SquareSize, calibrator.opts.SquareSize)
}

func TestCalibrateCameraRefusesDegenerateOutputDir(t *testing.T) {
	extractor := &fakeExtractor{result: &port.ExtractionResult{FrameCount: 5, FPS: 30, VideoDuration: 1}}

	uc := NewCalibrateCameraUseCase(extractor, &fakeCalibrator{}, &fakeResultWriter{}, zaptest.NewLogger(t))
	req := calibrateRequest(t)
	req.OutputDir = "."
	_, run, err := uc.Execute(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refusing to wipe")
	assert.Equal(t, entity.RunStatusFailed, run.Status)
	assert.Empty(t, extractor.calls)
}

func TestCalibrateCameraExtractionFailure(t *testing.T) {
	extractor := &fakeExtractor{sampleErr: fmt.Errorf("cannot open video")}
	calibrator := &fakeCalibrator{}
	writer := &fakeResultWriter{}

	uc := NewCalibrateCameraUseCase(extractor, calibrator, writer, zaptest.NewLogger(t))
	result, run, err := uc.Execute(context.Background(), calibrateRequest(t))
	require.Error(t, err)
	assert.Nil(t, result)
	require.NotNil(t, run)
	assert.Equal(t, entity.RunStatusFailed, run.Status)
	assert.Contains(t, run.ErrorMessage, "cannot open video")
	assert.False(t, calibrator.called)
	assert.False(t, writer.written)
}

func TestCalibrateCameraSolveFailureSkipsWrite(t *testing.T) {
	extractor := &fakeExtractor{result: &port.ExtractionResult{FrameCount: 30, FPS: 30, VideoDuration: 10}}
	calibrator := &fakeCalibrator{err: fmt.Errorf("insufficient chessboard detections")}
	writer := &fakeResultWriter{}

	uc := NewCalibrateCameraUseCase(extractor, calibrator, writer, zaptest.NewLogger(t))
	_, run, err := uc.Execute(context.Background(), calibrateRequest(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient")
	require.NotNil(t, run)
	assert.Equal(t, entity.RunStatusFailed, run.Status)
	assert.False(t, writer.written)
}
