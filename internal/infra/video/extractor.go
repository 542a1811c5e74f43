package video

import (
	"context"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"github.com/CaAlO22/video2euroc/internal/domain/entity"
	"github.com/CaAlO22/video2euroc/internal/domain/port"
)

// Extractor decodes video files with OpenCV and writes frames to disk.
type Extractor struct {
	logger *zap.Logger
}

func NewExtractor(logger *zap.Logger) *Extractor {
	return &Extractor{logger: logger}
}

func (e *Extractor) ExtractFrames(ctx context.Context, videoPath string, outputDir string, targetWidth int) (*port.ExtractionResult, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	capture, fps, frameCount, err := e.open(videoPath)
	if err != nil {
		return nil, err
	}
	defer capture.Close()

	img := gocv.NewMat()
	defer img.Close()
	resized := gocv.NewMat()
	defer resized.Close()

	var frames []entity.FrameInfo
	for index := 0; ; index++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if ok := capture.Read(&img); !ok {
			break
		}
		if img.Empty() {
			continue
		}

		scale := float64(targetWidth) / float64(img.Cols())
		height := int(math.Round(float64(img.Rows()) * scale))
		gocv.Resize(img, &resized, image.Pt(targetWidth, height), 0, 0, gocv.InterpolationArea)

		ts := entity.FrameTimestamp(index, fps)
		framePath := filepath.Join(outputDir, fmt.Sprintf("%d.png", ts))
		if ok := gocv.IMWrite(framePath, resized); !ok {
			return nil, fmt.Errorf("write frame %d to %s", index, framePath)
		}
		frames = append(frames, entity.FrameInfo{Index: index, Timestamp: ts, Path: framePath})
	}

	if len(frames) == 0 {
		return nil, fmt.Errorf("no frames extracted from %s", videoPath)
	}

	duration := float64(frameCount) / fps
	e.logger.Info("frames extracted",
		zap.Int("count", len(frames)),
		zap.Float64("fps", fps),
		zap.Float64("video_duration", duration),
	)

	return &port.ExtractionResult{
		Frames:        frames,
		FrameCount:    len(frames),
		FPS:           fps,
		VideoDuration: duration,
	}, nil
}

func (e *Extractor) SampleFrames(ctx context.Context, videoPath string, outputDir string, maxFrames int) (*port.ExtractionResult, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	capture, fps, frameCount, err := e.open(videoPath)
	if err != nil {
		return nil, err
	}
	defer capture.Close()

	stride := 1
	if maxFrames > 0 && frameCount > maxFrames {
		stride = frameCount / maxFrames
	}

	img := gocv.NewMat()
	defer img.Close()

	var frames []entity.FrameInfo
	saved := 0
	for index := 0; ; index++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if ok := capture.Read(&img); !ok {
			break
		}
		if img.Empty() || index%stride != 0 {
			continue
		}

		framePath := filepath.Join(outputDir, fmt.Sprintf("frame_%04d.png", saved))
		if ok := gocv.IMWrite(framePath, img); !ok {
			return nil, fmt.Errorf("write frame %d to %s", index, framePath)
		}
		frames = append(frames, entity.FrameInfo{
			Index:     index,
			Timestamp: entity.FrameTimestamp(index, fps),
			Path:      framePath,
		})
		saved++
	}

	if saved == 0 {
		return nil, fmt.Errorf("no frames extracted from %s", videoPath)
	}

	duration := float64(frameCount) / fps
	e.logger.Info("calibration frames sampled",
		zap.Int("saved", saved),
		zap.Int("stride", stride),
		zap.Float64("video_duration", duration),
	)

	return &port.ExtractionResult{
		Frames:        frames,
		FrameCount:    saved,
		FPS:           fps,
		VideoDuration: duration,
	}, nil
}

func (e *Extractor) open(videoPath string) (*gocv.VideoCapture, float64, int, error) {
	capture, err := gocv.OpenVideoCapture(videoPath)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("open video %s: %w", videoPath, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, 0, 0, fmt.Errorf("open video %s: capture not opened", videoPath)
	}

	fps := capture.Get(gocv.VideoCaptureFPS)
	if fps <= 0 {
		capture.Close()
		return nil, 0, 0, fmt.Errorf("open video %s: invalid frame rate %f", videoPath, fps)
	}
	frameCount := int(capture.Get(gocv.VideoCaptureFrameCount))
	return capture, fps, frameCount, nil
}
