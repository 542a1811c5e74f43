package port

import (
	"context"

	"github.com/CaAlO22/video2euroc/internal/domain/entity"
)

type ExtractionResult struct {
	Frames        []entity.FrameInfo
	FrameCount    int
	FPS           float64
	VideoDuration float64
}

type FrameExtractor interface {
	// ExtractFrames decodes every frame, resizes it to targetWidth and
	// writes it as <timestamp>.png under outputDir.
	ExtractFrames(ctx context.Context, videoPath string, outputDir string, targetWidth int) (*ExtractionResult, error)

	// SampleFrames writes up to maxFrames frames sampled uniformly across
	// the video, unresized, as frame_NNNN.png under outputDir.
	SampleFrames(ctx context.Context, videoPath string, outputDir string, maxFrames int) (*ExtractionResult, error)
}
