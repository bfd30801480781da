// Package ui renders the Bubble Tea application UI.
package ui

import (
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/sirupsen/logrus"

	"github.com/tracescope/tracescope/internal/chart"
	"github.com/tracescope/tracescope/internal/config"
	"github.com/tracescope/tracescope/internal/sampling"
	"github.com/tracescope/tracescope/internal/ui/components/errorpopup"
	"github.com/tracescope/tracescope/internal/ui/components/frame"
	"github.com/tracescope/tracescope/internal/ui/components/keybar"
	"github.com/tracescope/tracescope/internal/ui/components/logic"
	"github.com/tracescope/tracescope/internal/ui/components/scrollbar"
	"github.com/tracescope/tracescope/internal/ui/components/stats"
	"github.com/tracescope/tracescope/internal/ui/components/tracechart"
	"github.com/tracescope/tracescope/internal/ui/format"
	"github.com/tracescope/tracescope/internal/ui/theme"
)

// refreshInterval paces redraws while live.
const refreshInterval = 50 * time.Millisecond

const (
	panFraction = 0.25
	zoomFactor  = 2.0
	logicHeight = chart.MaxChannels + 2
	minTraceRow = 6
)

// frameMsg triggers a recompute and redraw.
type frameMsg time.Time

// FeedErrorMsg reports that the acquisition feed stopped with an error.
type FeedErrorMsg struct {
	Err error
}

// App is the main application model.
type App struct {
	keys     KeyMap
	ring     *sampling.Ring
	viewport *chart.Viewport
	out      *chart.Output
	log      logrus.FieldLogger
	maxWidth int
	digital  bool

	window   chart.Range
	latest   float64
	earliest float64

	width  int
	height int
	ready  bool

	stats      stats.Model
	keybar     keybar.Model
	trace      tracechart.Model
	overview   scrollbar.Model
	logic      logic.Model
	traceFrame frame.Model
	logicFrame frame.Model
	errorPopup errorpopup.Model
	feedErr    error
}

// New creates the application over ring using the chart settings of cfg.
func New(ring *sampling.Ring, cfg *config.Config, log logrus.FieldLogger) App {
	styles := theme.NewStyles()
	keys := DefaultKeyMap()

	frameStyles := frame.Styles{
		Title:  styles.Title,
		Meta:   styles.Muted,
		Border: styles.BorderStyle,
	}
	logicStyles := logic.Styles{
		Label:    styles.Label,
		Muted:    styles.Muted,
		Channels: styles.Channels,
	}

	return App{
		keys:     keys,
		ring:     ring,
		viewport: chart.NewViewport(cfg.DurationUs(), cfg.BufferUs()),
		out:      chart.NewOutput(),
		log:      log,
		maxWidth: cfg.Chart.MaxWidth,
		digital:  cfg.Chart.Digital,
		stats: stats.New(
			stats.WithStyles(stats.Styles{
				Bar:    styles.StatsBar,
				Fill:   styles.StatsFill,
				Label:  styles.StatsLabel,
				Value:  styles.StatsValue,
				Live:   styles.Live,
				Paused: styles.Paused,
			}),
		),
		keybar: keybar.New(
			keybar.WithStyles(keybar.Styles{
				Bar:   styles.KeyBar,
				Key:   styles.KeyCap,
				Item:  styles.KeyItem,
				Brand: styles.Title,
			}),
			keybar.WithBindings(keys.ShortHelp()...),
			keybar.WithBrand("tracescope "+format.Rate(1e6/ring.PeriodUs())),
		),
		trace: tracechart.New(
			tracechart.WithStyles(tracechart.Styles{
				Axis:   styles.Axis,
				Label:  styles.Label,
				Trace:  styles.Trace,
				Cursor: styles.Cursor,
				Muted:  styles.Muted,
			}),
		),
		overview: scrollbar.New(
			scrollbar.WithStyles(scrollbar.Styles{
				Track: styles.Muted,
				Thumb: styles.Trace,
			}),
		),
		logic:      logic.New(logic.WithStyles(logicStyles)),
		traceFrame: frame.New(frame.WithStyles(frameStyles), frame.WithTitle("Current")),
		logicFrame: frame.New(frame.WithStyles(frameStyles), frame.WithTitle("Digital")),
		errorPopup: errorpopup.New(
			errorpopup.WithStyles(errorpopup.Styles{
				Title:   styles.ErrorTitle,
				Message: styles.Muted,
				Border:  styles.ErrorBorder,
			}),
		),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		a.recompute()
		return a, tickCmd()

	case FeedErrorMsg:
		a.feedErr = msg.Err
		a.log.WithError(msg.Err).Error("acquisition stopped")

	case tea.KeyPressMsg:
		if key.Matches(msg, a.keys.Quit) {
			return a, tea.Quit
		}
		if a.handleKey(msg) {
			a.recompute()
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.layout()
		a.recompute()
	}

	return a, nil
}

// handleKey applies a navigation key and reports whether anything changed.
func (a *App) handleKey(msg tea.KeyPressMsg) bool {
	dur := a.window.Duration()
	switch {
	case key.Matches(msg, a.keys.Pause):
		if a.viewport.Paused() {
			a.viewport.Live()
		} else {
			a.viewport.Pause(a.latest)
		}
	case key.Matches(msg, a.keys.PanLeft):
		a.viewport.Pan(-dur*panFraction, a.latest, a.earliest)
	case key.Matches(msg, a.keys.PanRight):
		a.viewport.Pan(dur*panFraction, a.latest, a.earliest)
	case key.Matches(msg, a.keys.ZoomIn):
		a.viewport.Zoom(1/zoomFactor, a.latest, a.earliest)
	case key.Matches(msg, a.keys.ZoomOut):
		a.viewport.Zoom(zoomFactor, a.latest, a.earliest)
	case key.Matches(msg, a.keys.CursorBegin):
		end := a.window.Begin + dur*3/4
		if w := a.viewport.Window(); w.HasCursor {
			end = w.Cursor.End
		}
		a.viewport.SetCursor(a.window.Begin+dur/4, end)
	case key.Matches(msg, a.keys.CursorEnd):
		begin := a.window.Begin + dur/4
		if w := a.viewport.Window(); w.HasCursor {
			begin = w.Cursor.Begin
		}
		a.viewport.SetCursor(begin, a.window.Begin+dur*3/4)
	case key.Matches(msg, a.keys.ClearCursor):
		a.viewport.ClearCursor()
	case key.Matches(msg, a.keys.Digital):
		a.digital = !a.digital
		a.layout()
	default:
		return false
	}

	a.log.WithFields(logrus.Fields{
		"key":    msg.String(),
		"paused": a.viewport.Paused(),
	}).Debug("view changed")
	return true
}

// layout sizes every component for the current terminal.
func (a *App) layout() {
	a.stats.SetWidth(a.width)
	a.keybar.SetWidth(a.width)

	middle := max(a.height-a.stats.Height()-a.keybar.Height(), 0)
	traceHeight := middle
	if a.digital && middle-logicHeight >= minTraceRow {
		traceHeight = middle - logicHeight
		a.logicFrame.SetSize(a.width, logicHeight)
	} else {
		a.logicFrame.SetSize(0, 0)
	}
	a.traceFrame.SetSize(a.width, traceHeight)

	// The last inner row of the trace frame holds the buffer overview.
	w, h := a.traceFrame.InnerSize()
	a.trace.SetSize(w, max(h-1, 0))
	a.overview.SetWidth(w)
	lw, _ := a.logicFrame.InnerSize()
	a.logic.SetWidth(lw)
	a.errorPopup.SetSize(a.width, middle)
}

// plotWidth is the decimation width: two braille dots per plot column.
func (a App) plotWidth() int {
	return min(2*a.trace.PlotColumns(), a.maxWidth)
}

// recompute decimates the current window and refreshes statistics from one
// ring snapshot.
func (a *App) recompute() {
	var st chart.Stats
	a.ring.View(func(s sampling.Snapshot) {
		a.latest, a.earliest = s.LatestUs(), s.EarliestUs()
		a.window = a.viewport.Resolve(a.latest, a.earliest)
		channels := chart.ActiveChannels(a.digital, a.window.Duration())
		chart.Decimate(a.out, s, a.window, a.plotWidth(), channels)
		st = chart.Aggregate(s, chart.StatsRange(a.viewport.Window(), a.window))
	})

	w := a.viewport.Window()
	a.trace.SetTrace(a.out.Analog, a.out.Step, a.window)
	if w.HasCursor {
		a.trace.SetCursor(w.Cursor)
	} else {
		a.trace.ClearCursor()
	}
	a.logic.SetOutput(a.out, a.window)
	a.overview.SetRange(a.latest-a.earliest, a.window.Duration(), a.window.Begin-a.earliest)
	a.stats.SetData(stats.Data{
		Paused:    w.Pinned,
		HasCursor: w.HasCursor,
		Stats:     st,
		Mode:      a.out.Mode,
		Step:      a.out.Step,
	})

	a.traceFrame.SetMeta(format.Duration(a.window.Duration()))
	switch {
	case !a.digital:
		a.logicFrame.SetMeta("off")
	case a.out.Channels == 0:
		a.logicFrame.SetMeta("window > " + format.Duration(chart.DigitalDurationLimitUs))
	default:
		a.logicFrame.SetMeta("D0–D7")
	}
}

// View implements tea.Model.
func (a App) View() tea.View {
	var v tea.View
	v.AltScreen = true
	v.SetContent(a.content())
	return v
}

func (a App) content() string {
	if !a.ready {
		return "Initializing..."
	}

	a.traceFrame.SetContent(a.trace.View() + "\n" + a.overview.View())
	middle := a.traceFrame.View()
	if lw, _ := a.logicFrame.InnerSize(); lw > 0 {
		a.logicFrame.SetContent(a.logic.View())
		middle = lipgloss.JoinVertical(lipgloss.Left, middle, a.logicFrame.View())
	}

	if a.feedErr != nil {
		a.errorPopup.SetMessage(a.feedErr.Error())
		a.errorPopup.SetBackground(middle)
		middle = a.errorPopup.View()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		a.stats.View(),
		middle,
		a.keybar.View(),
	)
}
