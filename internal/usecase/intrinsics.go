package usecase

import (
	"fmt"

	"github.com/CaAlO22/video2euroc/internal/domain/entity"
	"github.com/CaAlO22/video2euroc/internal/domain/port"
)

// ResolveIntrinsics walks the sources in precedence order and returns the
// first that loads, falling back to defaults when none do. Resolution and
// frame rate always come from defaults: sources only know the optics.
// A source that exists but fails to parse aborts the run.
func ResolveIntrinsics(sources []port.IntrinsicsSource, defaults entity.CameraIntrinsics) (entity.CameraIntrinsics, string, error) {
	for _, source := range sources {
		intr, ok, err := source.Load()
		if err != nil {
			return entity.CameraIntrinsics{}, "", fmt.Errorf("%s: %w", source.Name(), err)
		}
		if !ok {
			continue
		}
		intr.Width = defaults.Width
		intr.Height = defaults.Height
		intr.FPS = defaults.FPS
		return intr, source.Name(), nil
	}
	return defaults, "defaults", nil
}

// ScaledSource rescales another source's focal lengths and principal point,
// used to bring intrinsics measured at the raw video resolution down to the
// output width. Distortion coefficients pass through unscaled.
type ScaledSource struct {
	Inner  port.IntrinsicsSource
	Factor float64
}

func (s ScaledSource) Name() string {
	return fmt.Sprintf("%s (scaled x%g)", s.Inner.Name(), s.Factor)
}

func (s ScaledSource) Load() (entity.CameraIntrinsics, bool, error) {
	intr, ok, err := s.Inner.Load()
	if !ok || err != nil {
		return intr, ok, err
	}
	return intr.Scale(s.Factor), true, nil
}
