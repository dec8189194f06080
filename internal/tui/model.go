package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hperssn/intervals/internal/domain"
	"github.com/hperssn/intervals/internal/timer"
)

const (
	defaultFrameInterval = 50 * time.Millisecond
	maxGaugeWidth        = 60
)

type Options struct {
	Clock         timer.Clock
	FrameInterval time.Duration
	// Bell receives a terminal bell at every step boundary and at completion.
	// Nil keeps the workout silent.
	Bell io.Writer
}

// workout is shared by every copy of Model that bubbletea passes around.
type workout struct {
	cfg    domain.WorkoutConfig
	clock  timer.Clock
	engine *timer.Engine
	sched  *frameScheduler
	bell   io.Writer

	startedAt  time.Time
	finishedAt time.Time
	totalSec   int
	boundaries int
	feedback   []timer.Feedback
}

type Model struct {
	w *workout

	keys  KeyMap
	help  help.Model
	gauge progress.Model
	width int
}

// NewModel validates cfg and starts the workout's timer. The first frame is
// scheduled by Init.
func NewModel(cfg domain.WorkoutConfig, opts Options) (Model, error) {
	if err := cfg.Validate(); err != nil {
		return Model{}, err
	}
	if opts.Clock == nil {
		opts.Clock = timer.SystemClock
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = defaultFrameInterval
	}

	w := &workout{
		cfg:   cfg,
		clock: opts.Clock,
		sched: newFrameScheduler(opts.FrameInterval),
		bell:  opts.Bell,
	}
	w.engine = timer.New(opts.Clock, w.sched, w.onEvent)

	if err := w.engine.Start(domain.GenerateSteps(cfg)); err != nil {
		return Model{}, err
	}
	w.startedAt = opts.Clock.Now()

	return Model{
		w:     w,
		keys:  DefaultKeyMap(),
		help:  help.New(),
		gauge: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}, nil
}

func (w *workout) onEvent(e timer.Event) {
	w.feedback = append(w.feedback, e.Feedback())

	switch e.Type {
	case timer.EventStepBoundary:
		w.boundaries++
	case timer.EventComplete:
		w.totalSec = e.TotalSeconds
		w.finishedAt = w.clock.Now()
	}
}

// cmds collects the frames and bells produced while handling one message.
func (w *workout) cmds() tea.Cmd {
	cmds := w.sched.drain()
	if w.bell != nil {
		for _, f := range w.feedback {
			cmds = append(cmds, ring(w.bell, bells(f)))
		}
	}
	w.feedback = nil
	return tea.Batch(cmds...)
}

// bellGap separates the bells of a burst.
var bellGap = 150 * time.Millisecond

// bells is the pattern for each kind of feedback: one bell for a step
// boundary, a burst for the end of the workout.
func bells(f timer.Feedback) int {
	if f == timer.FeedbackCompletion {
		return 3
	}
	return 1
}

func ring(out io.Writer, n int) tea.Cmd {
	return func() tea.Msg {
		for i := 0; i < n; i++ {
			if i > 0 {
				time.Sleep(bellGap)
			}
			fmt.Fprint(out, "\a")
		}
		return nil
	}
}

func (m Model) Init() tea.Cmd {
	return m.w.cmds()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.w.sched.fire(msg.id)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.w.engine.Cancel()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Toggle):
			m.w.engine.Toggle()
		}

	// Reported by tea.WithReportFocus: leaving the terminal counts as the
	// app going to the background.
	case tea.BlurMsg:
		m.w.engine.Suspend(m.w.clock.Now())
	case tea.FocusMsg:
		m.w.engine.Foreground(m.w.clock.Now())

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.gauge.Width = min(max(msg.Width-8, 10), maxGaugeWidth)
	}

	return m, m.w.cmds()
}

// Snapshot exposes the engine state for callers that outlive the program.
func (m Model) Snapshot() timer.Snapshot {
	return m.w.engine.Snapshot()
}

func (m Model) View() string {
	snap := m.w.engine.Snapshot()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Intervals"))
	b.WriteString("  ")
	b.WriteString(subtleStyle.Render(summary(m.w.cfg)))
	b.WriteString("\n\n")

	switch snap.State {
	case timer.StateComplete:
		b.WriteString(m.completeView())
	case timer.StateCancelled:
		b.WriteString(subtleStyle.Render("Workout cancelled"))
		b.WriteString("\n")
	default:
		b.WriteString(m.runningView(snap))
	}

	return frameStyle.Render(b.String())
}

func (m Model) runningView(snap timer.Snapshot) string {
	var b strings.Builder

	if snap.Step != nil {
		b.WriteString(labelStyle(snap.Step.Kind()).Render(snap.Step.Label()))
		if domain.IsFirstRepOfSet(snap.Step) {
			b.WriteString(subtleStyle.Render("  new set"))
		}
		b.WriteString("\n")
	}

	b.WriteString(clockStyle.Render(domain.FormatClock(snap.SecondsLeft)))
	b.WriteString("\n")
	b.WriteString(m.gauge.ViewAs(snap.Progress))
	b.WriteString("\n\n")

	b.WriteString(timeline(m.w.engine.Steps(), snap.StepIndex))
	b.WriteString("  ")
	b.WriteString(subtleStyle.Render(fmt.Sprintf("step %d/%d", snap.StepIndex+1, snap.TotalSteps)))
	b.WriteString("\n")

	if snap.State == timer.StatePaused {
		status := "Paused"
		if m.w.engine.Suspended() {
			status = "Paused while away"
		}
		b.WriteString("\n")
		b.WriteString(pausedStyle.Render(status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) completeView() string {
	var b strings.Builder
	b.WriteString(doneStyle.Render("Workout complete!"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Workout time  %s\n", domain.FormatClock(m.w.totalSec)))
	b.WriteString(fmt.Sprintf("Elapsed       %s\n", domain.FormatClock(int(m.w.finishedAt.Sub(m.w.startedAt)/time.Second))))
	b.WriteString("\n")
	b.WriteString(subtleStyle.Render("press q to exit"))
	return b.String()
}

func summary(c domain.WorkoutConfig) string {
	return fmt.Sprintf("%d sets × %d reps · %s", c.Sets, c.Reps, domain.FormatClock(domain.TotalSeconds(c)))
}

// timeline renders one cell per step: finished steps dim, the current one
// bright, the rest in their kind's color.
func timeline(steps domain.Sequence, current int) string {
	cells := make([]string, len(steps))
	for i, s := range steps {
		style := lipgloss.NewStyle().Foreground(kindColor(s.Kind()))
		cell := "▪"
		switch {
		case i < current:
			style = subtleStyle
		case i == current:
			style = style.Bold(true)
			cell = "■"
		}
		cells[i] = style.Render(cell)
	}
	return strings.Join(cells, "")
}
