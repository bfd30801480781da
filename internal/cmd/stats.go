package cmd

import (
	"fmt"
	"io"

	"charm.land/lipgloss/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tracescope/tracescope/internal/chart"
	"github.com/tracescope/tracescope/internal/sampling"
	"github.com/tracescope/tracescope/internal/ui/format"
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Fill the buffer from the simulator and print window statistics.",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().Duration("fill", 0, "simulated time to generate (defaults to the buffer length)")
	cmd.Flags().Int("width", 200, "decimation width")
	cmd.Flags().Duration("offset", 0, "end the window this long before the newest sample")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		fill, err := cmd.Flags().GetDuration("fill")
		if err != nil {
			return fmt.Errorf("parse fill flag: %w", err)
		}
		width, err := cmd.Flags().GetInt("width")
		if err != nil {
			return fmt.Errorf("parse width flag: %w", err)
		}
		offset, err := cmd.Flags().GetDuration("offset")
		if err != nil {
			return fmt.Errorf("parse offset flag: %w", err)
		}
		if fill <= 0 {
			fill = cfg.Acquisition.Buffer
		}

		log := logrus.New()
		log.SetOutput(io.Discard)
		ring, feed, err := newPipeline(cfg, log)
		if err != nil {
			return err
		}
		if err := feed.Advance(int64(fill.Seconds() * cfg.Acquisition.Rate)); err != nil {
			return err
		}

		vp := chart.NewViewport(cfg.DurationUs(), cfg.BufferUs())
		channels := 0
		out := chart.NewOutput()
		var (
			r  chart.Range
			st chart.Stats
		)
		ring.View(func(s sampling.Snapshot) {
			if offset > 0 {
				end := s.LatestUs() - float64(offset.Microseconds())
				vp.Set(end-cfg.DurationUs(), end, s.LatestUs(), s.EarliestUs())
			}
			r = vp.Resolve(s.LatestUs(), s.EarliestUs())
			channels = chart.ActiveChannels(cfg.Chart.Digital, r.Duration())
			chart.Decimate(out, s, r, min(width, cfg.Chart.MaxWidth), channels)
			st = chart.Aggregate(s, chart.StatsRange(vp.Window(), r))
		})

		return writeStats(cmd.OutOrStdout(), ring.Written(), r, st, out)
	}
	return cmd
}

func writeStats(w io.Writer, written int64, r chart.Range, st chart.Stats, out *chart.Output) error {
	label := lipgloss.NewStyle().Width(10).Faint(true)
	value := lipgloss.NewStyle().Bold(true)
	digitalPoints := out.Len() - len(out.Analog)

	rows := [][2]string{
		{"written", format.Count(int(written))},
		{"window", format.Duration(r.Duration())},
		{"ends", format.Timestamp(r.End)},
		{"samples", format.Count(st.Count)},
		{"average", format.Current(st.Average)},
		{"max", format.Current(st.MaxOrZero())},
		{"charge", format.Charge(st.Charge)},
		{"mode", fmt.Sprintf("%s (step %.2f)", out.Mode, out.Step)},
		{"analog", fmt.Sprintf("%d points", len(out.Analog))},
		{"digital", fmt.Sprintf("%d channels, %d points", out.Channels, digitalPoints)},
	}
	for _, row := range rows {
		if _, err := lipgloss.Fprintln(w, label.Render(row[0])+value.Render(row[1])); err != nil {
			return fmt.Errorf("write stats: %w", err)
		}
	}
	return nil
}
