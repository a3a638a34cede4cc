package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/bounce/internal/config"
	"github.com/san-kum/bounce/internal/export"
	"github.com/san-kum/bounce/internal/logging"
	"github.com/san-kum/bounce/internal/storage"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	verbose    bool
	// Overrides
	seed     int64
	maxBalls int
	cooldown float64
	fps      int
	duration float64
	output   string
	format   string
	// Window
	host   string
	record bool
	scale  float64
	// Live
	theme string
	// Export
	svgPath   string
	snapOut   string
	snapSteps int
)

// main registers the bounce commands and runs the root command under a
// context cancelled by an interrupt. It exits with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:   "bounce",
		Short: "multiplying balls simulation and recorder",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(os.Stderr, verbose)
		},
		RunE: runWindow,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".bounce", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "random seed for spawn directions")
	rootCmd.PersistentFlags().IntVar(&maxBalls, "max-balls", 0, "population cap")
	rootCmd.PersistentFlags().Float64Var(&cooldown, "cooldown", 0, "seconds between spawns of one ball")
	rootCmd.PersistentFlags().IntVar(&fps, "fps", 0, "video frame rate")
	rootCmd.PersistentFlags().Float64Var(&duration, "duration", 0, "recording length in seconds")
	rootCmd.PersistentFlags().StringVar(&output, "output", "", "output video path")
	rootCmd.PersistentFlags().StringVar(&format, "format", "", "frame image format (png, bmp, tiff)")

	windowCmd := &cobra.Command{
		Use:   "window",
		Short: "run the simulation in a window",
		RunE:  runWindow,
	}
	for _, c := range []*cobra.Command{rootCmd, windowCmd} {
		c.Flags().StringVar(&host, "host", "", "graphics host (raylib, ebiten)")
		c.Flags().BoolVar(&record, "record", false, "capture frames and encode a video")
		c.Flags().Float64Var(&scale, "scale", 0, "window scale")
	}

	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "render headless and encode a video",
		RunE:  runRecord,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the simulation in the terminal",
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&theme, "theme", "mono", "color theme (mono, cyberpunk, retro)")

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the population of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&svgPath, "svg", "", "write the population curve as svg")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "advance headless and save one frame (svg or image)",
		RunE:  runSnapshot,
	}
	snapshotCmd.Flags().IntVar(&snapSteps, "steps", 600, "ticks to simulate before the snapshot")
	snapshotCmd.Flags().StringVarP(&snapOut, "out", "o", "snapshot.svg", "output file (.svg, .png, .bmp, .tiff)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("presets:")
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage configuration files",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the default configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "bounce.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			fmt.Printf("config written to %s\n", path)
			return nil
		},
	}
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(windowCmd, recordCmd, liveCmd, runsCmd, plotCmd, exportCmd, snapshotCmd, presetsCmd, configCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves the configuration from --config, --preset or the
// defaults, then applies flag overrides. It also returns the run name
// recorded in run metadata.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	var (
		cfg  *config.Config
		name = "default"
		err  error
	)
	switch {
	case configFile != "":
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, "", err
		}
		name = "custom"
	case preset != "":
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		name = preset
	default:
		cfg = config.DefaultConfig()
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Simulation.Seed = seed
	}
	if flags.Changed("max-balls") {
		cfg.Simulation.MaxBalls = maxBalls
	}
	if flags.Changed("cooldown") {
		cfg.Simulation.Cooldown = cooldown
	}
	if flags.Changed("fps") {
		cfg.Capture.FPS = fps
	}
	if flags.Changed("duration") {
		cfg.Capture.Duration = duration
	}
	if flags.Changed("output") {
		applyOutput(&cfg.Capture, output)
	}
	if flags.Changed("format") {
		cfg.Capture.Format = format
	}
	if flags.Changed("host") {
		cfg.Window.Host = host
	}
	if flags.Changed("scale") {
		cfg.Window.Scale = scale
	}
	if flags.Changed("record") {
		cfg.Capture.Enabled = record
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, name, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tFRAMES\tBALLS\tENCODED\tOUTPUT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d\t%d\t%t\t%s\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Written,
			run.Captured,
			run.FinalBalls,
			run.Encoded,
			run.Output,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadPopulation(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return errors.New("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("samples: %d\n\n", len(samples))

	data := make([]float64, len(samples))
	for i, s := range samples {
		data[i] = float64(s.Balls)
	}

	graph := asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("balls over %.1fs", samples[len(samples)-1].Time)),
	)
	fmt.Println(graph)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	if svgPath != "" {
		samples, err := st.LoadPopulation(runID)
		if err != nil {
			return err
		}
		svg := export.PopulationSVG(samples, 800, 400, "#00ff88")
		if svg == "" {
			return errors.New("not enough samples for svg")
		}
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("svg written to %s\n", svgPath)
		return nil
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}
