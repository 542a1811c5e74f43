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
	"github.com/CaAlO22/video2euroc/internal/infra/calib"
	"github.com/CaAlO22/video2euroc/internal/infra/config"
	"github.com/CaAlO22/video2euroc/internal/infra/video"
	"github.com/CaAlO22/video2euroc/internal/usecase"
	"github.com/CaAlO22/video2euroc/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	fatalOnErr(err, "load config")

	outputDir := flag.String("output-dir", "calibration_results", "output directory")
	framesDir := flag.String("frames-dir", "", "frame extraction directory (default <output-dir>/frames)")
	calibFile := flag.String("calib-file", "", "calibration result file (default <output-dir>/camera_calibration.yaml)")
	boardSize := flag.String("board-size", cfg.BoardSize, "chessboard inner corner count as <width>x<height>")
	squareSize := flag.Float64("square-size", cfg.SquareSize, "chessboard square size in millimeters")
	maxFrames := flag.Int("max-frames", cfg.MaxFrames, "maximum number of frames used for calibration")
	noVisualize := flag.Bool("no-visualize", false, "skip corner overlays and undistortion comparison")
	logLevel := flag.String("log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <video>\n\nCalibrates a monocular camera from a chessboard video.\n\nFlags:\n", os.Args[0])
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

	board, err := entity.ParseBoardSize(*boardSize)
	if err != nil {
		log.Error("invalid board size", zap.Error(err))
		os.Exit(1)
	}

	frames := *framesDir
	if frames == "" {
		frames = filepath.Join(*outputDir, "frames")
	}
	resultFile := *calibFile
	if resultFile == "" {
		resultFile = filepath.Join(*outputDir, "camera_calibration.yaml")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	uc := usecase.NewCalibrateCameraUseCase(
		video.NewExtractor(log),
		calib.NewCalibrator(log),
		calib.NewResultWriter(log),
		log,
	)

	result, run, err := uc.Execute(ctx, usecase.CalibrateRequest{
		VideoPath:  videoPath,
		OutputDir:  *outputDir,
		FramesDir:  frames,
		CalibFile:  resultFile,
		BoardSize:  board,
		SquareSize: *squareSize,
		MaxFrames:  *maxFrames,
		Visualize:  !*noVisualize,
	})
	if err != nil {
		log.Error("calibration failed", zap.Error(err))
		os.Exit(1)
	}

	log.Info("calibration done",
		zap.String("run_id", run.ID.String()),
		zap.String("result_file", resultFile),
		zap.Float64("reprojection_error", result.ReprojectionError),
	)
}

func fatalOnErr(err error, msg string) {
	if err != nil {
		panic(msg + ": " + err.Error())
	}
}
