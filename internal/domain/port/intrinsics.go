package port

import "github.com/CaAlO22/video2euroc/internal/domain/entity"

// IntrinsicsSource is one candidate origin for camera intrinsics. Sources
// are consulted in precedence order; Load reports ok=false when the source
// is absent (missing files, unset flags) so the next one is tried.
type IntrinsicsSource interface {
	Name() string
	Load() (intr entity.CameraIntrinsics, ok bool, err error)
}
