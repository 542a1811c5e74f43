// Package euroc writes the EuRoC dataset sidecar files: the timestamp list
// and the sensor.yaml camera configuration.
package euroc

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

type TimestampWriter struct {
	logger *zap.Logger
}

func NewTimestampWriter(logger *zap.Logger) *TimestampWriter {
	return &TimestampWriter{logger: logger}
}

// WriteTimestamps lists the PNG files in imageDir, parses each stem as a
// nanosecond timestamp and writes one "<ts> <ts>" line per frame in
// ascending order. Files whose names do not parse are skipped.
func (w *TimestampWriter) WriteTimestamps(imageDir string, outputFile string) (int, error) {
	entries, err := os.ReadDir(imageDir)
	if err != nil {
		return 0, fmt.Errorf("read image dir: %w", err)
	}

	var timestamps []int64
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".png") {
			continue
		}
		stem := strings.TrimSuffix(entry.Name(), ".png")
		ts, err := strconv.ParseInt(stem, 10, 64)
		if err != nil {
			w.logger.Warn("skipping file with non-timestamp name", zap.String("file", entry.Name()))
			continue
		}
		timestamps = append(timestamps, ts)
	}

	if len(timestamps) == 0 {
		return 0, fmt.Errorf("no timestamp-named PNG files in %s", imageDir)
	}

	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i] < timestamps[j] })

	if dir := filepath.Dir(outputFile); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return 0, fmt.Errorf("create timestamp dir: %w", err)
		}
	}

	var sb strings.Builder
	for _, ts := range timestamps {
		fmt.Fprintf(&sb, "%d %d\n", ts, ts)
	}
	if err := os.WriteFile(outputFile, []byte(sb.String()), 0644); err != nil {
		return 0, fmt.Errorf("write timestamp file: %w", err)
	}

	w.logger.Info("timestamp file written",
		zap.String("file", outputFile),
		zap.Int("entries", len(timestamps)),
	)
	return len(timestamps), nil
}
