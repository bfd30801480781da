// Package cmd provides the entrypoint and CLI command configuration for the
// tracescope application.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"runtime/pprof"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/tracescope/tracescope/internal/acquire"
	"github.com/tracescope/tracescope/internal/config"
	"github.com/tracescope/tracescope/internal/logging"
	"github.com/tracescope/tracescope/internal/sampling"
	"github.com/tracescope/tracescope/internal/ui"
)

func buildVersion(version, commit, date, builtBy string) string {
	result := version
	if commit != "" {
		result = fmt.Sprintf("%s\ncommit: %s", result, commit)
	}
	if date != "" {
		result = fmt.Sprintf("%s\nbuilt at: %s", result, date)
	}
	if builtBy != "" {
		result = fmt.Sprintf("%s\nbuilt by: %s", result, builtBy)
	}
	result = fmt.Sprintf("%s\ngoos: %s\ngoarch: %s", result, runtime.GOOS, runtime.GOARCH)
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Sum != "" {
		result = fmt.Sprintf("%s\nmodule version: %s, checksum: %s", result, info.Main.Version, info.Main.Sum)
	}

	return result
}

// Execute initializes and runs the tracescope terminal application.
func Execute(version, commit, date, builtBy string) error {
	rootCmd := newRootCmd(buildVersion(version, commit, date, builtBy))
	return fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(rootCmd.Version),
		fang.WithoutCompletions(),
		fang.WithoutManpage(),
	)
}

func newRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tracescope",
		Short: "A terminal scope for current traces and logic channels.",
		Long: "tracescope plots a sampled current trace with eight digital channels,\n" +
			"decimated to the terminal width, with live statistics over the view or a marked interval.",
		Args: cobra.NoArgs,
	}

	rootCmd.Version = version
	rootCmd.SetVersionTemplate(`tracescope {{printf "version %s\n" .Version}}`)

	defaults := config.Default()
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "path to a YAML config file")
	flags.Float64("rate", defaults.Acquisition.Rate, "samples per second")
	flags.Duration("buffer", defaults.Acquisition.Buffer, "time the sample buffer holds")
	flags.Duration("duration", defaults.Chart.Duration, "initial window duration")
	flags.Int("max-width", defaults.Chart.MaxWidth, "largest decimation width")
	flags.Bool("no-digital", !defaults.Chart.Digital, "hide the digital channels")
	flags.String("log", defaults.Log.Path, "write logs to this file")
	flags.String("log-level", defaults.Log.Level, "log level")
	rootCmd.SetGlobalNormalizationFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		switch name {
		case "samplerate", "sample-rate":
			name = "rate"
		case "window":
			name = "duration"
		}
		return pflag.NormalizedName(name)
	})

	rootCmd.Flags().String(
		"cpuprofile",
		"",
		"write cpu profile to file",
	)

	rootCmd.RunE = func(cmd *cobra.Command, _ []string) error {
		cpuprofile, err := cmd.Flags().GetString("cpuprofile")
		if err != nil {
			return fmt.Errorf("parse cpuprofile flag: %w", err)
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		log, closeLog, err := logging.New(cfg.Log.Path, cfg.Log.Level)
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		defer func() {
			_ = closeLog()
		}()

		if cpuprofile != "" {
			profileFile, err := os.Create(cpuprofile)
			if err != nil {
				return fmt.Errorf("create cpuprofile file: %w", err)
			}
			if err := pprof.StartCPUProfile(profileFile); err != nil {
				_ = profileFile.Close()
				return fmt.Errorf("start cpu profile: %w", err)
			}
			defer func() {
				pprof.StopCPUProfile()
				_ = profileFile.Close()
			}()
		}

		return run(cmd.Context(), cfg, log)
	}

	rootCmd.AddCommand(newStatsCmd())
	return rootCmd
}

// loadConfig layers defaults, the config file, and explicit flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("parse config flag: %w", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyFlags(cmd.Flags()); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newPipeline creates the ring and the simulated feed writing into it.
func newPipeline(cfg *config.Config, log logrus.FieldLogger) (*sampling.Ring, *acquire.Feed, error) {
	ring, err := sampling.NewRing(cfg.Capacity(), cfg.Acquisition.Rate, float64(time.Now().UnixMicro()))
	if err != nil {
		return nil, nil, err
	}
	feed := acquire.NewFeed(ring, acquire.NewSimulator(cfg.Acquisition.Rate),
		acquire.WithInterval(cfg.Acquisition.Interval),
		acquire.WithLogger(log),
	)
	return ring, feed, nil
}

// run drives the feed and the UI until the UI quits. A feed failure is shown
// in the UI rather than tearing it down.
func run(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	ring, feed, err := newPipeline(cfg, log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	p := tea.NewProgram(ui.New(ring, cfg, log), tea.WithContext(gctx))

	g.Go(func() error {
		if err := feed.Run(gctx); err != nil {
			p.Send(ui.FeedErrorMsg{Err: err})
		}
		return nil
	})
	g.Go(func() error {
		defer cancel()
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("run tracescope: %w", err)
		}
		return nil
	})

	return g.Wait()
}
