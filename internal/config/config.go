package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth      = 1080.0
	DefaultHeight     = 1920.0
	DefaultRadius     = 20.0
	DefaultCooldown   = 1.0
	DefaultMaxBalls   = 300
	DefaultTickRate   = 60
	DefaultSpawnSpeed = 5.0 * DefaultTickRate
	DefaultSeedVX     = 5.0 * DefaultTickRate
	DefaultSeedVY     = 7.0 * DefaultTickRate

	DefaultFPS        = 30
	DefaultRecordSecs = 65.0
	DefaultTempDir    = "temp_frames"
	DefaultOutputDir  = "video-files"
	DefaultOutputName = "output.mp4"
	DefaultFormat     = "png"
	DefaultEncoder    = "ffmpeg"
	DefaultCodec      = "libx264"
	DefaultPixFmt     = "yuv420p"
)

var ErrInvalid = errors.New("config: invalid value")

type Config struct {
	Simulation Simulation `yaml:"simulation"`
	Capture    Capture    `yaml:"capture"`
	Window     Window     `yaml:"window"`
}

type Simulation struct {
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	Radius     float64 `yaml:"radius"`
	Cooldown   float64 `yaml:"cooldown"`
	MaxBalls   int     `yaml:"max_balls"`
	SpawnSpeed float64 `yaml:"spawn_speed"`
	TickRate   int     `yaml:"tick_rate"`
	Seed       int64   `yaml:"seed"`
	SeedBall   Ball    `yaml:"seed_ball"`
	Background string  `yaml:"background"`
}

// Ball describes the first ball. A zero X or Y places it at the screen center.
type Ball struct {
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	VX    float64 `yaml:"vx"`
	VY    float64 `yaml:"vy"`
	Color string  `yaml:"color"`
}

type Capture struct {
	Enabled    bool    `yaml:"enabled"`
	FPS        int     `yaml:"fps"`
	Duration   float64 `yaml:"duration"`
	TempDir    string  `yaml:"temp_dir"`
	OutputDir  string  `yaml:"output_dir"`
	OutputName string  `yaml:"output_name"`
	Format     string  `yaml:"format"`
	Encoder    Encoder `yaml:"encoder"`
}

type Encoder struct {
	Binary string `yaml:"binary"`
	Codec  string `yaml:"codec"`
	PixFmt string `yaml:"pix_fmt"`
}

type Window struct {
	Title string  `yaml:"title"`
	Host  string  `yaml:"host"`
	Scale float64 `yaml:"scale"`
}

func DefaultConfig() *Config {
	return &Config{
		Simulation: Simulation{
			Width:      DefaultWidth,
			Height:     DefaultHeight,
			Radius:     DefaultRadius,
			Cooldown:   DefaultCooldown,
			MaxBalls:   DefaultMaxBalls,
			SpawnSpeed: DefaultSpawnSpeed,
			TickRate:   DefaultTickRate,
			SeedBall: Ball{
				VX:    DefaultSeedVX,
				VY:    DefaultSeedVY,
				Color: "#ffffff",
			},
			Background: "#000000",
		},
		Capture: Capture{
			FPS:        DefaultFPS,
			Duration:   DefaultRecordSecs,
			TempDir:    DefaultTempDir,
			OutputDir:  DefaultOutputDir,
			OutputName: DefaultOutputName,
			Format:     DefaultFormat,
			Encoder: Encoder{
				Binary: DefaultEncoder,
				Codec:  DefaultCodec,
				PixFmt: DefaultPixFmt,
			},
		},
		Window: Window{
			Title: "Multiplying Balls",
			Host:  "raylib",
			Scale: 0.5,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	s := c.Simulation
	switch {
	case s.Width <= 0 || s.Height <= 0:
		return fmt.Errorf("%w: screen %gx%g", ErrInvalid, s.Width, s.Height)
	case s.Radius <= 0 || 2*s.Radius >= s.Width || 2*s.Radius >= s.Height:
		return fmt.Errorf("%w: radius %g does not fit %gx%g", ErrInvalid, s.Radius, s.Width, s.Height)
	case s.Cooldown < 0:
		return fmt.Errorf("%w: cooldown %g", ErrInvalid, s.Cooldown)
	case s.MaxBalls < 1:
		return fmt.Errorf("%w: max_balls %d", ErrInvalid, s.MaxBalls)
	case s.TickRate <= 0:
		return fmt.Errorf("%w: tick_rate %d", ErrInvalid, s.TickRate)
	}

	cp := c.Capture
	switch {
	case cp.FPS <= 0:
		return fmt.Errorf("%w: fps %d", ErrInvalid, cp.FPS)
	case cp.Duration <= 0:
		return fmt.Errorf("%w: duration %g", ErrInvalid, cp.Duration)
	case cp.TempDir == "":
		return fmt.Errorf("%w: empty temp_dir", ErrInvalid)
	}
	switch cp.Format {
	case "png", "bmp", "tiff":
	default:
		return fmt.Errorf("%w: frame format %q", ErrInvalid, cp.Format)
	}
	return nil
}

// FrameLimit is the number of frames a recording captures before encoding.
func (c Capture) FrameLimit() int {
	return int(float64(c.FPS) * c.Duration)
}

// OutputPath is where the encoder writes the finished video.
func (c Capture) OutputPath() string {
	return filepath.Join(c.OutputDir, c.OutputName)
}

// TickDt is the fixed simulation step in seconds.
func (s Simulation) TickDt() float64 {
	return 1.0 / float64(s.TickRate)
}
