package euroc

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/CaAlO22/video2euroc/internal/domain/entity"
)

// sensorSettings is marshalled into the OpenCV-dialect sensor.yaml consumed
// by ORB-SLAM. The file needs a literal "%YAML:1.0" first line which the
// yaml encoder cannot produce, so it is written by hand before the document.
type sensorSettings struct {
	CamType string  `yaml:"Camera.type"`
	Fx      float64 `yaml:"Camera.fx"`
	Fy      float64 `yaml:"Camera.fy"`
	Cx      float64 `yaml:"Camera.cx"`
	Cy      float64 `yaml:"Camera.cy"`

	K1 float64 `yaml:"Camera.k1"`
	K2 float64 `yaml:"Camera.k2"`
	P1 float64 `yaml:"Camera.p1"`
	P2 float64 `yaml:"Camera.p2"`

	Width  int     `yaml:"Camera.width"`
	Height int     `yaml:"Camera.height"`
	FPS    float64 `yaml:"Camera.fps"`
	RGB    int8    `yaml:"Camera.RGB"`

	NFeatures   int     `yaml:"ORBextractor.nFeatures"`
	ScaleFactor float64 `yaml:"ORBextractor.scaleFactor"`
	NLevels     int     `yaml:"ORBextractor.nLevels"`
	IniThFAST   int     `yaml:"ORBextractor.iniThFAST"`
	MinThFAST   int     `yaml:"ORBextractor.minThFAST"`

	ViewerKeyFrameSize      float64 `yaml:"Viewer.KeyFrameSize"`
	ViewerKeyFrameLineWidth int     `yaml:"Viewer.KeyFrameLineWidth"`
	ViewerGraphLineWidth    float64 `yaml:"Viewer.GraphLineWidth"`
	ViewerPointSize         int     `yaml:"Viewer.PointSize"`
	ViewerCameraSize        float64 `yaml:"Viewer.CameraSize"`
	ViewerCameraLineWidth   int     `yaml:"Viewer.CameraLineWidth"`
	ViewerViewpointX        float64 `yaml:"Viewer.ViewpointX"`
	ViewerViewpointY        float64 `yaml:"Viewer.ViewpointY"`
	ViewerViewpointZ        float64 `yaml:"Viewer.ViewpointZ"`
	ViewerViewpointF        float64 `yaml:"Viewer.ViewpointF"`
}

type SensorWriter struct {
	logger *zap.Logger
}

func NewSensorWriter(logger *zap.Logger) *SensorWriter {
	return &SensorWriter{logger: logger}
}

func (w *SensorWriter) WriteSensorYAML(outputFile string, intr entity.CameraIntrinsics, orb entity.ORBParams) error {
	settings := sensorSettings{
		CamType:     "PinHole",
		Fx:          intr.Fx,
		Fy:          intr.Fy,
		Cx:          intr.Cx,
		Cy:          intr.Cy,
		K1:          intr.K1,
		K2:          intr.K2,
		P1:          intr.P1,
		P2:          intr.P2,
		Width:       intr.Width,
		Height:      intr.Height,
		FPS:         intr.FPS,
		RGB:         1,
		NFeatures:   orb.NFeatures,
		ScaleFactor: orb.ScaleFactor,
		NLevels:     orb.NLevels,
		IniThFAST:   orb.IniThFAST,
		MinThFAST:   orb.MinThFAST,

		ViewerKeyFrameSize:      0.05,
		ViewerKeyFrameLineWidth: 1,
		ViewerGraphLineWidth:    0.9,
		ViewerPointSize:         2,
		ViewerCameraSize:        0.08,
		ViewerCameraLineWidth:   3,
		ViewerViewpointX:        0,
		ViewerViewpointY:        -0.7,
		ViewerViewpointZ:        -1.8,
		ViewerViewpointF:        500,
	}

	data, err := yaml.Marshal(&settings)
	if err != nil {
		return fmt.Errorf("marshal sensor settings: %w", err)
	}

	if dir := filepath.Dir(outputFile); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create sensor dir: %w", err)
		}
	}

	out, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("create sensor file: %w", err)
	}
	defer out.Close()

	if _, err := out.WriteString("%YAML:1.0\n\n"); err != nil {
		return fmt.Errorf("write sensor header: %w", err)
	}
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("write sensor settings: %w", err)
	}

	w.logger.Info("sensor.yaml written",
		zap.String("file", outputFile),
		zap.Float64("fx", intr.Fx),
		zap.Float64("fy", intr.Fy),
		zap.Float64("cx", intr.Cx),
		zap.Float64("cy", intr.Cy),
	)
	return nil
}
