package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/phroun/camterm/ascii"
	"github.com/phroun/camterm/capture"
	"github.com/phroun/camterm/config"
	"github.com/phroun/camterm/overlay"
)

// options holds the merged command line and config file settings.
type options struct {
	Shell      string
	ConfigPath string

	Camera     int
	Resolution string
	FPS        int
	NoMirror   bool
	Source     string
	Record     string
	NoCamera   bool

	Position     string
	Size         string
	Charset      string
	Mode         string
	Invert       bool
	Contrast     float64
	EdgePreserve float64
	KeepAspect   bool
	Border       bool
	Transparency int
	NoStatus     bool

	LogFile  string
	LogLevel string
}

func defaultOptions() *options {
	d := config.Default()
	return &options{
		Camera:       d.Camera.Device,
		Resolution:   d.Camera.Resolution,
		FPS:          d.Camera.FPS,
		Source:       d.Camera.Source,
		Position:     d.Modal.Position,
		Size:         d.Modal.Size,
		Charset:      d.ASCII.Charset,
		Mode:         d.ASCII.Mode,
		Contrast:     d.ASCII.Contrast,
		Transparency: *d.Modal.Transparency,
		LogLevel:     d.Log.Level,
	}
}

func (o *options) bindFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.Shell, "shell", "s", "", "shell to spawn (default: $SHELL or /bin/zsh)")
	fs.StringVarP(&o.ConfigPath, "config", "c", "", "config file path (default "+config.DefaultPath()+")")

	fs.IntVar(&o.Camera, "camera", o.Camera, "camera device index (from list-cameras)")
	fs.StringVar(&o.Resolution, "resolution", o.Resolution, "capture resolution: low, medium or high")
	fs.IntVar(&o.FPS, "fps", o.FPS, "requested capture frame rate")
	fs.BoolVar(&o.NoMirror, "no-mirror", false, "do not mirror the camera horizontally")
	fs.StringVar(&o.Source, "source", o.Source, "frame source: v4l2, image:PATH or replay:PATH")
	fs.StringVar(&o.Record, "record", "", "record captured frames to this file")
	fs.BoolVar(&o.NoCamera, "no-camera", false, "start with the camera disabled")

	fs.StringVarP(&o.Position, "position", "p", o.Position, "top-left, top-right, bottom-right, bottom-left or center")
	fs.StringVar(&o.Size, "size", o.Size, "small, medium, large, xlarge or huge")
	fs.StringVar(&o.Charset, "charset", o.Charset, "standard, blocks, minimal or braille")
	fs.StringVar(&o.Mode, "mode", o.Mode, "flat, gamma, dither, ordered, structure or edges")
	fs.BoolVar(&o.Invert, "invert", false, "invert brightness (for light terminals)")
	fs.Float64Var(&o.Contrast, "contrast", o.Contrast, "brightness contrast factor (1 = unchanged)")
	fs.Float64Var(&o.EdgePreserve, "edge-preserve", 0, "keep thin details when downsampling (0-1)")
	fs.BoolVar(&o.KeepAspect, "keep-aspect", false, "keep the camera aspect ratio inside the window")
	fs.BoolVar(&o.Border, "border", false, "draw a border around the camera")
	fs.IntVar(&o.Transparency, "transparency", o.Transparency, "percentage of dark cells left transparent (0-100)")
	fs.BoolVar(&o.NoStatus, "no-status", false, "hide the status line")

	fs.StringVar(&o.LogFile, "log-file", "", "write a JSON diagnostic log to this file")
	fs.StringVar(&o.LogLevel, "log-level", o.LogLevel, "debug, info, warn or error")
}

// merge fills every option not set on the command line from cfg.
func (o *options) merge(fs *pflag.FlagSet, cfg *config.Config) {
	set := func(name string) bool { return fs.Changed(name) }

	if !set("shell") && o.Shell == "" {
		o.Shell = cfg.Shell.Command
	}
	if !set("camera") {
		o.Camera = cfg.Camera.Device
	}
	if !set("resolution") {
		o.Resolution = cfg.Camera.Resolution
	}
	if !set("fps") {
		o.FPS = cfg.Camera.FPS
	}
	if !set("no-mirror") {
		o.NoMirror = !*cfg.Camera.Mirror
	}
	if !set("source") {
		o.Source = cfg.Camera.Source
	}
	if !set("no-camera") {
		o.NoCamera = !*cfg.Modal.Visible
	}
	if !set("position") {
		o.Position = cfg.Modal.Position
	}
	if !set("size") {
		o.Size = cfg.Modal.Size
	}
	if !set("charset") {
		o.Charset = cfg.ASCII.Charset
	}
	if !set("mode") {
		o.Mode = cfg.ASCII.Mode
	}
	if !set("invert") {
		o.Invert = cfg.ASCII.Invert
	}
	if !set("contrast") {
		o.Contrast = cfg.ASCII.Contrast
	}
	if !set("edge-preserve") {
		o.EdgePreserve = cfg.ASCII.EdgePreserve
	}
	if !set("keep-aspect") {
		o.KeepAspect = cfg.ASCII.KeepAspect
	}
	if !set("border") {
		o.Border = cfg.Modal.Border
	}
	if !set("transparency") {
		o.Transparency = *cfg.Modal.Transparency
	}
	if !set("no-status") {
		o.NoStatus = !*cfg.UI.StatusBar
	}
	if !set("log-file") {
		o.LogFile = cfg.Log.File
	}
	if !set("log-level") {
		o.LogLevel = cfg.Log.Level
	}
}

// overlay builds the startup layout and the glyph pipeline.
func (o *options) overlay() (*overlay.Layout, *ascii.Pipeline, error) {
	pos, ok := overlay.ParsePosition(o.Position)
	if !ok {
		return nil, nil, fmt.Errorf("unknown position %q", o.Position)
	}
	size, ok := overlay.ParseSize(o.Size)
	if !ok {
		return nil, nil, fmt.Errorf("unknown size %q", o.Size)
	}
	charset, ok := ascii.ParseCharset(o.Charset)
	if !ok {
		return nil, nil, fmt.Errorf("unknown charset %q", o.Charset)
	}
	mode, ok := ascii.ParseMode(o.Mode)
	if !ok {
		return nil, nil, fmt.Errorf("unknown mode %q", o.Mode)
	}
	if o.Transparency < 0 || o.Transparency > 100 {
		return nil, nil, fmt.Errorf("transparency %d out of range 0-100", o.Transparency)
	}
	if o.Contrast <= 0 {
		return nil, nil, fmt.Errorf("contrast %g must be positive", o.Contrast)
	}
	if o.EdgePreserve < 0 || o.EdgePreserve > 1 {
		return nil, nil, fmt.Errorf("edge-preserve %g out of range 0-1", o.EdgePreserve)
	}

	l := overlay.NewLayout()
	l.Visible = !o.NoCamera
	l.Position = pos
	l.Size = size
	l.Charset = charset
	l.Border = o.Border
	l.Transparency = o.Transparency
	l.ShowStatus = !o.NoStatus
	p := ascii.NewPipeline(mode, o.Invert)
	p.Contrast = o.Contrast
	p.EdgePreserve = o.EdgePreserve
	p.KeepAspect = o.KeepAspect
	return l, p, nil
}

func (o *options) captureSettings() (capture.Settings, error) {
	res, ok := capture.ParseResolution(o.Resolution)
	if !ok {
		return capture.Settings{}, fmt.Errorf("unknown resolution %q", o.Resolution)
	}
	s := capture.DefaultSettings().WithResolution(res)
	s.DeviceIndex = o.Camera
	s.Mirror = !o.NoMirror
	if o.FPS > 0 {
		s.FPS = o.FPS
	}
	return s, nil
}
