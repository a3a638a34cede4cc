package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/san-kum/bounce/internal/capture"
	"github.com/san-kum/bounce/internal/config"
	"github.com/san-kum/bounce/internal/export"
	"github.com/san-kum/bounce/internal/game"
	"github.com/san-kum/bounce/internal/gui"
	"github.com/san-kum/bounce/internal/logging"
	"github.com/san-kum/bounce/internal/render"
	"github.com/san-kum/bounce/internal/session"
	"github.com/san-kum/bounce/internal/storage"
	"github.com/san-kum/bounce/internal/viz"
	"github.com/spf13/cobra"
)

func applyOutput(c *config.Capture, path string) {
	dir, name := filepath.Split(path)
	if dir != "" {
		c.OutputDir = filepath.Clean(dir)
	}
	c.OutputName = name
}

func runWindow(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	s, err := session.New(cfg, name, capture.NewFFmpeg(cfg.Capture.Encoder))
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	logging.L().Info("starting window", "host", cfg.Window.Host, "record", cfg.Capture.Enabled)
	switch cfg.Window.Host {
	case "ebiten":
		err = game.Run(ctx, s)
	case "raylib", "":
		err = gui.Run(ctx, s)
	default:
		err = fmt.Errorf("unknown host: %s (available: raylib, ebiten)", cfg.Window.Host)
	}

	// The recording is finalized even when the window loop failed so the
	// frame directory never outlives the run.
	if ferr := finishRecording(ctx, s); ferr != nil && err == nil {
		err = ferr
	}
	return err
}

// runRecord renders fps*duration frames without a window and encodes them.
func runRecord(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Capture.Enabled = true

	s, err := session.New(cfg, name, capture.NewFFmpeg(cfg.Capture.Encoder))
	if err != nil {
		return err
	}

	r := render.New(s.FrameSize())
	defer r.Close()

	ctx := cmd.Context()
	dt := cfg.Simulation.TickDt()
	log := logging.L()
	log.Info("recording", "frames", s.Pipeline().Limit(), "fps", cfg.Capture.FPS, "output", cfg.Capture.OutputPath())

	err = renderFrames(ctx, s, r, dt)
	if ferr := finishRecording(ctx, s); ferr != nil && err == nil {
		err = ferr
	}
	return err
}

func renderFrames(ctx context.Context, s *session.Session, r *render.Rasterizer, dt float64) error {
	for s.Recording() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		s.Tick(dt)
		pixels, err := r.Draw(s.Simulator().Render(s.World()))
		if err != nil {
			return fmt.Errorf("render frame %d: %w", s.World().Frame, err)
		}
		if err := s.Capture(pixels); err != nil {
			return fmt.Errorf("capture frame %d: %w", s.World().Frame, err)
		}
	}
	return nil
}

// finishRecording encodes the session's capture, if any, and stores the
// run. An encoder failure is reported after the run is stored.
func finishRecording(ctx context.Context, s *session.Session) error {
	if s.Pipeline() == nil {
		return nil
	}

	// Draining must complete even after an interrupt.
	rep, err := s.Finish(context.WithoutCancel(ctx))
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(s.Metadata(rep), s.History())
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}

	fmt.Printf("run: %s\n", runID)
	fmt.Printf("frames: %d captured, %d written, %d failed, %d rejected\n", rep.Captured, rep.Written, rep.Failed, rep.Rejected)
	if rep.EncodeErr != nil {
		return fmt.Errorf("encode %s: %w", rep.Output, rep.EncodeErr)
	}
	fmt.Printf("video: %s\n", rep.Output)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Capture.Enabled = false

	s, err := session.New(cfg, name, nil)
	if err != nil {
		return err
	}
	return viz.Run(s, theme)
}

// runSnapshot simulates --steps ticks and writes the final frame.
func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Capture.Enabled = false

	s, err := session.New(cfg, "snapshot", nil)
	if err != nil {
		return err
	}
	dt := cfg.Simulation.TickDt()
	w, err := s.Simulator().RunWithCallback(cmd.Context(), s.World(), snapSteps, dt, nil)
	if err != nil {
		return err
	}
	cmds := s.Simulator().Render(w)

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(snapOut)), ".")
	if ext == "svg" {
		svg := export.WorldSVG(cmds, cfg.Simulation.Width, cfg.Simulation.Height)
		if err := os.WriteFile(snapOut, []byte(svg), 0644); err != nil {
			return err
		}
	} else {
		r := render.New(s.FrameSize())
		defer r.Close()
		pixels, err := r.Draw(cmds)
		if err != nil {
			return err
		}
		img, err := capture.Frame{Width: r.Width(), Height: r.Height(), Pixels: pixels}.Image()
		if err != nil {
			return err
		}
		if err := capture.WriteImage(snapOut, img, ext); err != nil {
			return err
		}
	}

	fmt.Printf("frame %d with %d balls written to %s\n", w.Frame, len(w.Balls), snapOut)
	return nil
}
