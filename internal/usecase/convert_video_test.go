package usecase

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/CaAlO22/video2euroc/internal/domain/entity"
	"github.com/CaAlO22/video2euroc/internal/domain/port"
)

type fakeExtractor struct {
	extractErr error
	sampleErr  error
	calls      []string
	result     *port.ExtractionResult
}

func (f *fakeExtractor) ExtractFrames(_ context.Context, _, _ string, _ int) (*port.ExtractionResult, error) {
	f.calls = append(f.calls, "extract")
	if f.extractErr != nil {
		return nil, f.extractErr
	}
	return f.result, nil
}

func (f *fakeExtractor) SampleFrames(_ context.Context, _, _ string, _ int) (*port.ExtractionResult, error) {
	f.calls = append(f.calls, "sample")
	if f.sampleErr != nil {
		return nil, f.sampleErr
	}
	return f.result, nil
}

type fakeTimestampWriter struct {
	err     error
	count   int
	written bool
}

func (f *fakeTimestampWriter) WriteTimestamps(_, _ string) (int, error) {
	f.written = true
	return f.count, f.err
}

type fakeSensorWriter struct {
	err     error
	written bool
	intr    entity.CameraIntrinsics
}

func (f *fakeSensorWriter) WriteSensorYAML(_ string, intr entity.CameraIntrinsics, _ entity.ORBParams) error {
	f.written = true
	f.intr = intr
	return f.err
}

type fakeArchiver struct {
	err    error
	zipped bool
}

func (f *fakeArchiver) ZipDir(_ context.Context, _, _ string) error {
	f.zipped = true
	return f.err
}

type staticSource struct {
	name string
	intr entity.CameraIntrinsics
	ok   bool
	err  error
}

func (s staticSource) Name() string { return s.name }

func (s staticSource) Load() (entity.CameraIntrinsics, bool, error) {
	return s.intr, s.ok, s.err
}

func convertRequest(t *testing.T) ConvertRequest {
	root := filepath.Join(t.TempDir(), "main_folder", "mav0")
	return ConvertRequest{
		VideoPath:     "test.mp4",
		DatasetRoot:   root,
		OutputDir:     filepath.Join(root, "cam0", "data"),
		TimestampFile: filepath.Join(root, "timestamp.txt"),
		SensorFile:    filepath.Join(root, "sensor.yaml"),
		TargetWidth:   480,
		Defaults:      entity.CameraIntrinsics{Fx: 363.7, Fy: 363.7, Cx: 239.1, Cy: 173.1, Width: 480, Height: 360, FPS: 20},
	}
}

func TestConvertVideoSuccess(t *testing.T) {
	extractor := &fakeExtractor{result: &port.ExtractionResult{FrameCount: 42, FPS: 20, VideoDuration: 2.1}}
	timestamps := &fakeTimestampWriter{count: 42}
	sensor := &fakeSensorWriter{}
	archiver := &fakeArchiver{}

	uc := NewConvertVideoUseCase(extractor, timestamps, sensor, archiver, zaptest.NewLogger(t))
	run, err := uc.Execute(context.Background(), convertRequest(t))
	require.NoError(t, err)

	assert.Equal(t, entity.RunStatusCompleted, run.Status)
	assert.Equal(t, 42, run.FrameCount)
	assert.True(t, timestamps.written)
	assert.True(t, sensor.written)
	assert.False(t, archiver.zipped, "no zip requested")
}

func TestConvertVideoZipRequested(t *testing.T) {
	extractor := &fakeExtractor{result: &port.ExtractionResult{FrameCount: 1, FPS: 20, VideoDuration: 0.05}}
	archiver := &fakeArchiver{}

	uc := NewConvertVideoUseCase(extractor, &fakeTimestampWriter{count: 1}, &fakeSensorWriter{}, archiver, zaptest.NewLogger(t))
	req := convertRequest(t)
	req.ZipPath = filepath.Join(t.TempDir(), "dataset.zip")
	_, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, archiver.zipped)
}

func TestConvertVideoExtractionFailureAbortsPipeline(t *testing.T) {
	extractErr := errors.New("cannot open video")
	extractor := &fakeExtractor{extractErr: extractErr}
	timestamps := &fakeTimestampWriter{}
	sensor := &fakeSensorWriter{}

	uc := NewConvertVideoUseCase(extractor, timestamps, sensor, &fakeArchiver{}, zaptest.NewLogger(t))
	run, err := uc.Execute(context.Background(), convertRequest(t))
	require.ErrorIs(t, err, extractErr)

	assert.Equal(t, entity.RunStatusFailed, run.Status)
	assert.Contains(t, run.ErrorMessage, "cannot open video")
	assert.False(t, timestamps.written, "timestamp stage must not run after extraction failure")
	assert.False(t, sensor.written, "sensor stage must not run after extraction failure")
}

func TestConvertVideoRefusesDegenerateDatasetRoot(t *testing.T) {
	extractor := &fakeExtractor{result: &port.ExtractionResult{FrameCount: 1, FPS: 20, VideoDuration: 0.05}}

	for _, root := range []string{"", ".", "./", "/"} {
		uc := NewConvertVideoUseCase(extractor, &fakeTimestampWriter{}, &fakeSensorWriter{}, &fakeArchiver{}, zaptest.NewLogger(t))
		req := convertRequest(t)
		req.DatasetRoot = root
		run, err := uc.Execute(context.Background(), req)
		require.Error(t, err, "root %q", root)
		assert.Contains(t, err.Error(), "refusing to wipe")
		assert.Equal(t, entity.RunStatusFailed, run.Status)
	}
	assert.Empty(t, extractor.calls, "extraction must not run for a refused root")
}

func TestConvertVideoTimestampFailureAbortsSensor(t *testing.T) {
	extractor := &fakeExtractor{result: &port.ExtractionResult{FrameCount: 3, FPS: 20, VideoDuration: 0.15}}
	timestamps := &fakeTimestampWriter{err: errors.New("unwritable")}
	sensor := &fakeSensorWriter{}

	uc := NewConvertVideoUseCase(extractor, timestamps, sensor, &fakeArchiver{}, zaptest.NewLogger(t))
	run, err := uc.Execute(context.Background(), convertRequest(t))
	require.Error(t, err)
	assert.Equal(t, entity.RunStatusFailed, run.Status)
	assert.False(t, sensor.written)
}

func TestConvertVideoUsesResolvedIntrinsics(t *testing.T) {
	extractor := &fakeExtractor{result: &port.ExtractionResult{FrameCount: 1, FPS: 20, VideoDuration: 0.05}}
	sensor := &fakeSensorWriter{}

	uc := NewConvertVideoUseCase(extractor, &fakeTimestampWriter{count: 1}, sensor, &fakeArchiver{}, zaptest.NewLogger(t))
	req := convertRequest(t)
	req.Sources = []port.IntrinsicsSource{
		staticSource{name: "csv", intr: entity.CameraIntrinsics{Fx: 700, Fy: 701, Cx: 320, Cy: 240}, ok: true},
	}
	_, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 700.0, sensor.intr.Fx)
	assert.Equal(t, 480, sensor.intr.Width, "resolution comes from defaults")
	assert.Equal(t, 20.0, sensor.intr.FPS)
}

func TestResolveIntrinsicsPrecedence(t *testing.T) {
	defaults := entity.CameraIntrinsics{Fx: 1, Width: 480, Height: 360, FPS: 20}
	first := staticSource{name: "flags", intr: entity.CameraIntrinsics{Fx: 100}, ok: true}
	second := staticSource{name: "csv", intr: entity.CameraIntrinsics{Fx: 200}, ok: true}

	intr, name, err := ResolveIntrinsics([]port.IntrinsicsSource{first, second}, defaults)
	require.NoError(t, err)
	assert.Equal(t, "flags", name)
	assert.Equal(t, 100.0, intr.Fx)
}

func TestResolveIntrinsicsSkipsAbsentSources(t *testing.T) {
	defaults := entity.CameraIntrinsics{Fx: 1, Width: 480}
	absent := staticSource{name: "flags", ok: false}
	present := staticSource{name: "csv", intr: entity.CameraIntrinsics{Fx: 200}, ok: true}

	intr, name, err := ResolveIntrinsics([]port.IntrinsicsSource{absent, present}, defaults)
	require.NoError(t, err)
	assert.Equal(t, "csv", name)
	assert.Equal(t, 200.0, intr.Fx)
}

func TestResolveIntrinsicsFallsBackToDefaults(t *testing.T) {
	defaults := entity.CameraIntrinsics{Fx: 363.7, Width: 480}
	intr, name, err := ResolveIntrinsics(nil, defaults)
	require.NoError(t, err)
	assert.Equal(t, "defaults", name)
	assert.Equal(t, defaults, intr)
}

func TestResolveIntrinsicsParseErrorIsFatal(t *testing.T) {
	broken := staticSource{name: "csv", err: errors.New("bad cell")}
	_, _, err := ResolveIntrinsics([]port.IntrinsicsSource{broken}, entity.CameraIntrinsics{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "csv")
}

func TestScaledSource(t *testing.T) {
	inner := staticSource{name: "csv", intr: entity.CameraIntrinsics{Fx: 1920, Fy: 1920, Cx: 960, Cy: 540, K1: 0.1}, ok: true}
	scaled := ScaledSource{Inner: inner, Factor: 0.25}

	intr, ok, err := scaled.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 480.0, intr.Fx)
	assert.Equal(t, 240.0, intr.Cx)
	assert.Equal(t, 0.1, intr.K1, "distortion must not be scaled")
}
