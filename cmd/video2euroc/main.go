package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/CaAlO22/video2euroc/internal/domain/entity"
	"github.com/CaAlO22/video2euroc/internal/domain/port"
	"github.com/CaAlO22/video2euroc/internal/infra/archive"
	"github.com/CaAlO22/video2euroc/internal/infra/calibcsv"
	"github.com/CaAlO22/video2euroc/internal/infra/config"
	"github.com/CaAlO22/video2euroc/internal/infra/euroc"
	"github.com/CaAlO22/video2euroc/internal/infra/video"
	"github.com/CaAlO22/video2euroc/internal/usecase"
	"github.com/CaAlO22/video2euroc/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	fatalOnErr(err, "load config")

	outputDir := flag.String("output-dir", "main_folder/mav0/cam0/data", "image output directory")
	timestampFile := flag.String("timestamp-file", "main_folder/mav0/timestamp.txt", "timestamp file path")
	sensorFile := flag.String("sensor-file", "main_folder/mav0/sensor.yaml", "sensor config file path")
	fx := flag.Float64("fx", cfg.DefaultFx, "camera parameter fx")
	fy := flag.Float64("fy", cfg.DefaultFy, "camera parameter fy")
	cx := flag.Float64("cx", cfg.DefaultCx, "camera parameter cx")
	cy := flag.Float64("cy", cfg.DefaultCy, "camera parameter cy")
	rawWidth := flag.Int("raw-width", 0, "raw video width in px; scales file-sourced intrinsics to the output width")
	width := flag.Int("width", cfg.TargetWidth, "output image width")
	matrixCSV := flag.String("camera-matrix-csv", "camera_matrix.csv", "camera matrix CSV path")
	distortionCSV := flag.String("distortion-csv", "distortion_coefficients.csv", "distortion coefficients CSV path")
	calibFile := flag.String("calib-file", "camera_calibration.yaml", "previous calibration result to read intrinsics from")
	zipPath := flag.String("zip", "", "package the dataset into this zip file after conversion")
	logLevel := flag.String("log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <video>\n\nConverts a video into an EuRoC-format dataset.\n\nFlags:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	log, err := logger.New(*logLevel)
	fatalOnErr(err, "init logger")
	defer log.Sync()

	videoPath := "test.mp4"
	if flag.NArg() > 0 {
		videoPath = flag.Arg(0)
	}
	if _, err := os.Stat(videoPath); err != nil {
		log.Error("video file not found", zap.String("video", videoPath), zap.Error(err))
		os.Exit(1)
	}

	explicit := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	sources := []port.IntrinsicsSource{
		flagSource{
			fx: *fx, fy: *fy, cx: *cx, cy: *cy,
			set: explicit["fx"] || explicit["fy"] || explicit["cx"] || explicit["cy"],
		},
	}
	var csvSource port.IntrinsicsSource = calibcsv.CSVSource{
		MatrixPath:     *matrixCSV,
		DistortionPath: *distortionCSV,
	}
	var yamlSource port.IntrinsicsSource = calibcsv.YAMLSource{Path: *calibFile}
	if *rawWidth > 0 {
		factor := float64(*width) / float64(*rawWidth)
		csvSource = usecase.ScaledSource{Inner: csvSource, Factor: factor}
		yamlSource = usecase.ScaledSource{Inner: yamlSource, Factor: factor}
	}
	sources = append(sources, csvSource, yamlSource)

	// The dataset root is two levels above the image directory
	// (main_folder/mav0/cam0/data -> main_folder). A shallow --output-dir
	// would collapse that to "." and the pipeline wipes the root, so fall
	// back to the output dir itself.
	datasetRoot := filepath.Dir(filepath.Dir(*outputDir))
	if datasetRoot == "." || datasetRoot == string(filepath.Separator) {
		datasetRoot = *outputDir
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	uc := usecase.NewConvertVideoUseCase(
		video.NewExtractor(log),
		euroc.NewTimestampWriter(log),
		euroc.NewSensorWriter(log),
		archive.NewZipper(),
		log,
	)

	run, err := uc.Execute(ctx, usecase.ConvertRequest{
		VideoPath:     videoPath,
		DatasetRoot:   datasetRoot,
		OutputDir:     *outputDir,
		TimestampFile: *timestampFile,
		SensorFile:    *sensorFile,
		TargetWidth:   *width,
		Sources:       sources,
		Defaults: entity.CameraIntrinsics{
			Fx:     cfg.DefaultFx,
			Fy:     cfg.DefaultFy,
			Cx:     cfg.DefaultCx,
			Cy:     cfg.DefaultCy,
			Width:  *width,
			Height: cfg.CameraHeight,
			FPS:    cfg.CameraFPS,
		},
		ORB: entity.ORBParams{
			NFeatures:   cfg.ORBNFeatures,
			ScaleFactor: cfg.ORBScaleFactor,
			NLevels:     cfg.ORBNLevels,
			IniThFAST:   cfg.ORBIniThFAST,
			MinThFAST:   cfg.ORBMinThFAST,
		},
		ZipPath: *zipPath,
	})
	if err != nil {
		log.Error("conversion failed", zap.Error(err))
		os.Exit(1)
	}

	log.Info("dataset generated",
		zap.String("run_id", run.ID.String()),
		zap.String("dataset_root", datasetRoot),
	)
}

// flagSource serves intrinsics typed on the command line. Any explicitly
// set fx/fy/cx/cy flag makes the whole set authoritative, so explicit flags
// always win over CSV discovery.
type flagSource struct {
	fx, fy, cx, cy float64
	set            bool
}

func (s flagSource) Name() string { return "command-line flags" }

func (s flagSource) Load() (entity.CameraIntrinsics, bool, error) {
	if !s.set {
		return entity.CameraIntrinsics{}, false, nil
	}
	return entity.CameraIntrinsics{Fx: s.fx, Fy: s.fy, Cx: s.cx, Cy: s.cy}, true, nil
}

func fatalOnErr(err error, msg string) {
	if err != nil {
		panic(msg + ": " + err.Error())
	}
}
