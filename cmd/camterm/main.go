// Command camterm runs your shell with a live character-rendered camera
// feed painted on top of it.
//
// Usage:
//
//	camterm                       # $SHELL (or /bin/zsh) with the camera bottom-right
//	camterm --position center -- /bin/bash
//	camterm --source image:me.png --border
//	camterm list-cameras
//
// Hotkeys:
//   - Alt+C: show or hide the camera
//   - Alt+P: cycle position
//   - Alt+S: cycle size
//   - Alt+A: cycle character set
//   - Alt+T: cycle transparency
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/phroun/camterm"
	"github.com/phroun/camterm/capture"
	"github.com/phroun/camterm/cli"
	"github.com/phroun/camterm/config"
)

func main() {
	os.Exit(run())
}

func run() (code int) {
	defer func() {
		if r := recover(); r != nil {
			cli.RestoreTerminal()
			panic(r)
		}
	}()

	cmd := newRootCmd(&code)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return code
}

func newRootCmd(exitCode *int) *cobra.Command {
	opts := defaultOptions()

	cmd := &cobra.Command{
		Use:           "camterm [flags] [-- shell]",
		Short:         "ASCII camera overlay for terminal streaming",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.Shell = args[0]
			}
			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return err
			}
			opts.merge(cmd.Flags(), cfg)

			status, err := runSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			*exitCode = status.Code
			return nil
		},
	}

	opts.bindFlags(cmd.Flags())
	cmd.AddCommand(newListCamerasCmd(), newConfigCmd())
	return cmd
}

func runSession(ctx context.Context, opts *options) (camterm.ExitStatus, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) || !isatty.IsTerminal(os.Stdout.Fd()) {
		return camterm.ExitStatus{}, errors.New("stdin and stdout must be a terminal")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	layout, pipeline, err := opts.overlay()
	if err != nil {
		return camterm.ExitStatus{}, err
	}
	settings, err := opts.captureSettings()
	if err != nil {
		return camterm.ExitStatus{}, err
	}

	logger, closeLog, err := newLogger(opts.LogFile, opts.LogLevel)
	if err != nil {
		return camterm.ExitStatus{}, err
	}
	defer closeLog()
	sessionID := uuid.NewString()
	logger = logger.With("session", sessionID)

	outFd := int(os.Stdout.Fd())
	cols, rows := cli.HostSize(outFd)
	caps := camterm.DetectHost(os.Getenv, true, cols, rows)
	logger.Info("host terminal", "term", caps.TermType, "color_depth", caps.ColorDepth, "cols", cols, "rows", rows)
	if !caps.SupportsTrueColor() {
		fmt.Fprintf(os.Stderr, "Warning: %s may not support 24-bit color; set COLORTERM=truecolor if it does\n", caps.TermType)
	}
	shell := camterm.ResolveShell(opts.Shell)

	proc, err := camterm.Spawn(shell, camterm.NewSize(cols, rows))
	if err != nil {
		return camterm.ExitStatus{}, fmt.Errorf("failed to spawn shell: %w", err)
	}
	defer proc.Close()
	logger.Info("shell started", "shell", shell, "pid", proc.Pid(), "cols", cols, "rows", rows)

	var source cli.FrameSource
	if !opts.NoCamera {
		cam, err := startCamera(opts.Source, settings, logger)
		if err != nil {
			// The shell is still useful without a camera.
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			logger.Warn("camera unavailable", "error", err)
		} else {
			defer cam.Close()
			source = cam
		}
	}
	if source != nil && opts.Record != "" {
		rec, closeRec, err := newRecordingSource(source, opts.Record, sessionID, settings.Mirror, logger)
		if err != nil {
			return camterm.ExitStatus{}, err
		}
		defer closeRec()
		source = rec
	}

	guard, err := cli.EnterRawMode(int(os.Stdin.Fd()), os.Stdout)
	if err != nil {
		return camterm.ExitStatus{}, err
	}
	defer guard.Restore()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	session := cli.NewSession(proc, cli.Options{
		Output:   os.Stdout,
		Events:   cli.WatchTerminal(ctx, os.Stdin, outFd),
		Source:   source,
		Layout:   layout,
		Pipeline: pipeline,
		Cols:     cols,
		Rows:     rows,
		Logger:   logger,
	})
	return session.Run(ctx)
}

func newListCamerasCmd() *cobra.Command {
	source := "v4l2"
	cmd := &cobra.Command{
		Use:   "list-cameras",
		Short: "List available cameras",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			driver, err := openDriver(source)
			if err != nil {
				return err
			}
			devices, err := capture.ListDevices(driver)
			out := cmd.OutOrStdout()
			if errors.Is(err, capture.ErrNoDevices) {
				fmt.Fprintln(out, "No cameras found.")
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Make sure your camera is connected and you can read /dev/video*.")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "Available cameras:")
			for _, d := range devices {
				fmt.Fprintf(out, "  %s\n", d)
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Use --camera <index> to select a camera.")
			return nil
		},
	}
	cmd.Flags().StringVar(&source, "source", source, "frame source: v4l2, image:PATH or replay:PATH")
	return cmd
}

func newConfigCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}
	cmd.PersistentFlags().StringVarP(&path, "config", "c", "", "config file path (default "+config.DefaultPath()+")")

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := path
			if p == "" {
				p = config.DefaultPath()
			}
			cfg, err := config.Load(p)
			if err != nil {
				return err
			}
			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			state := "not found"
			if _, err := os.Stat(p); err == nil {
				state = "exists"
			}
			fmt.Fprintf(out, "# Config file: %s (%s)\n", p, state)
			_, err = out.Write(data)
			return err
		},
	}, &cobra.Command{
		Use:   "init",
		Short: "Create a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := config.Init(path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", p)
			return nil
		},
	})
	return cmd
}
