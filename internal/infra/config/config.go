package config

import (
	"github.com/caarlos0/env/v11"
)

type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Output image width for the EuRoC conversion; height follows the
	// source aspect ratio.
	TargetWidth int `env:"TARGET_WIDTH" envDefault:"480"`

	// Default pinhole intrinsics, used when no flags, CSV files or previous
	// calibration provide them.
	DefaultFx float64 `env:"CAMERA_FX" envDefault:"363.76489"`
	DefaultFy float64 `env:"CAMERA_FY" envDefault:"363.76489"`
	DefaultCx float64 `env:"CAMERA_CX" envDefault:"239.17206"`
	DefaultCy float64 `env:"CAMERA_CY" envDefault:"173.14810"`

	CameraFPS    float64 `env:"CAMERA_FPS"    envDefault:"20.0"`
	CameraHeight int     `env:"CAMERA_HEIGHT" envDefault:"360"`

	// Static ORB extractor parameters written into sensor.yaml.
	ORBNFeatures   int     `env:"ORB_N_FEATURES"    envDefault:"1000"`
	ORBScaleFactor float64 `env:"ORB_SCALE_FACTOR"  envDefault:"1.2"`
	ORBNLevels     int     `env:"ORB_N_LEVELS"      envDefault:"8"`
	ORBIniThFAST   int     `env:"ORB_INI_TH_FAST"   envDefault:"20"`
	ORBMinThFAST   int     `env:"ORB_MIN_TH_FAST"   envDefault:"7"`

	// Calibration settings.
	BoardSize  string  `env:"CALIB_BOARD_SIZE"  envDefault:"9x6"`
	SquareSize float64 `env:"CALIB_SQUARE_SIZE" envDefault:"20.0"`
	MaxFrames  int     `env:"CALIB_MAX_FRAMES"  envDefault:"30"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
