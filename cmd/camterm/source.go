package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/phroun/camterm/capture"
	"github.com/phroun/camterm/cli"
)

// openDriver maps a --source value to a capture driver.
func openDriver(source string) (capture.Driver, error) {
	kind, arg, _ := strings.Cut(source, ":")
	switch kind {
	case "", "v4l2":
		return &capture.V4L2Driver{Dir: arg}, nil
	case "image":
		if arg == "" {
			return nil, fmt.Errorf("source %q needs a path", source)
		}
		return &capture.ImageDriver{Path: arg}, nil
	case "replay":
		if arg == "" {
			return nil, fmt.Errorf("source %q needs a path", source)
		}
		return &capture.ReplayDriver{Path: arg}, nil
	}
	return nil, fmt.Errorf("unknown source %q", source)
}

// startCamera opens and starts the configured frame source.
func startCamera(source string, settings capture.Settings, logger *slog.Logger) (*capture.Capture, error) {
	driver, err := openDriver(source)
	if err != nil {
		return nil, err
	}
	cam, err := capture.Open(driver, settings, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open camera: %w", err)
	}
	format, err := cam.Start()
	if err != nil {
		return nil, fmt.Errorf("failed to start camera: %w", err)
	}
	logger.Info("camera started", "source", source, "format", format.String())
	return cam, nil
}

// recordingSource tees every frame handed to the session into a recording.
type recordingSource struct {
	src    cli.FrameSource
	rec    *capture.Recorder
	logger *slog.Logger

	mu     sync.Mutex
	failed bool
}

// newRecordingSource records frames from src. mirrored tells replay whether
// the frames were already flipped by the capture.
func newRecordingSource(src cli.FrameSource, path, session string, mirrored bool, logger *slog.Logger) (*recordingSource, func(), error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create recording: %w", err)
	}
	rec, err := capture.NewRecorder(f, session, mirrored)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	r := &recordingSource{src: src, rec: rec, logger: logger}
	closeFn := func() {
		logger.Info("recording closed", "path", path, "frames", rec.Frames())
		f.Close()
	}
	return r, closeFn, nil
}

func (r *recordingSource) Frame() (capture.Frame, bool) {
	f, ok := r.src.Frame()
	if !ok {
		return f, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.failed {
		if err := r.rec.Record(f); err != nil {
			r.failed = true
			r.logger.Warn("recording stopped", "error", err)
		}
	}
	return f, true
}
