package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/pfannkuchen/pkg/observability"
	"github.com/matzehuels/pfannkuchen/pkg/pipeline"
)

var (
	barFullStyle  = lipgloss.NewStyle().Foreground(colorCyan)
	barEmptyStyle = lipgloss.NewStyle().Foreground(colorDim)
	labelStyle    = lipgloss.NewStyle().Foreground(colorGray).Width(10)
)

const defaultBarWidth = 40

// =============================================================================
// Messages
// =============================================================================

type computeStartMsg struct{ n, tasks int }

type chunkDoneMsg struct{ task, maxFlips, checksum int }

type computeDoneMsg struct {
	res *pipeline.Result
	err error
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// =============================================================================
// progressModel - live chunk progress for "run --progress"
// =============================================================================

// progressModel shows how many tasks have finished along with the running
// maximum and partial checksum.
type progressModel struct {
	n        int
	total    int
	done     int
	maxFlips int
	checksum int
	start    time.Time
	now      time.Time
	barWidth int
	finished bool
	err      error
	cancel   context.CancelFunc
}

func newProgressModel(n int, cancel context.CancelFunc) progressModel {
	now := time.Now()
	return progressModel{n: n, start: now, now: now, barWidth: defaultBarWidth, cancel: cancel}
}

func (m progressModel) Init() tea.Cmd {
	return tick()
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case computeStartMsg:
		m.total = msg.tasks
	case chunkDoneMsg:
		m.done++
		m.maxFlips = max(m.maxFlips, msg.maxFlips)
		m.checksum += msg.checksum
	case computeDoneMsg:
		m.finished = true
		m.err = msg.err
		if msg.res != nil {
			m.maxFlips, m.checksum = msg.res.MaxFlips, msg.res.Checksum
			m.done = m.total
		}
		return m, tea.Quit
	case tickMsg:
		m.now = time.Time(msg)
		return m, tick()
	case tea.WindowSizeMsg:
		m.barWidth = min(defaultBarWidth, max(10, msg.Width-30))
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m progressModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Pfannkuchen(%d)", m.n)))
	b.WriteString("\n\n")

	b.WriteString(m.bar())
	b.WriteString(" ")
	b.WriteString(StyleDim.Render(fmt.Sprintf("%d/%d tasks", m.done, m.total)))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("max flips") + " " + StyleNumber.Render(fmt.Sprint(m.maxFlips)) + "\n")
	b.WriteString(labelStyle.Render("checksum") + " " + StyleNumber.Render(fmt.Sprint(m.checksum)) + "\n")
	b.WriteString(labelStyle.Render("elapsed") + " " + StyleValue.Render(formatDuration(m.now.Sub(m.start))) + "\n")

	if !m.finished {
		b.WriteString("\n")
		b.WriteString(StyleDim.Render("q cancel"))
	}
	b.WriteString("\n")
	return b.String()
}

func (m progressModel) fraction() float64 {
	if m.total == 0 {
		return 0
	}
	return float64(m.done) / float64(m.total)
}

func (m progressModel) bar() string {
	filled := int(m.fraction() * float64(m.barWidth))
	return barFullStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", m.barWidth-filled))
}

// =============================================================================
// progressHooks - bridge from the pipeline to the program
// =============================================================================

// progressHooks forwards compute events to a running bubbletea program.
type progressHooks struct {
	observability.NoopComputeHooks
	send func(tea.Msg)
}

func (h progressHooks) OnComputeStart(_ context.Context, n, tasks int) {
	h.send(computeStartMsg{n: n, tasks: tasks})
}

func (h progressHooks) OnChunkComplete(_ context.Context, _, task, maxFlips, checksum int) {
	h.send(chunkDoneMsg{task: task, maxFlips: maxFlips, checksum: checksum})
}

// runWithProgress executes opts while rendering progressModel on stderr.
// Quitting the view cancels the computation.
func runWithProgress(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (*pipeline.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newProgressModel(opts.N, cancel), tea.WithOutput(os.Stderr))
	opts.Hooks = observability.MultiComputeHooks{
		observability.Compute(),
		progressHooks{send: p.Send},
	}

	resCh := make(chan computeDoneMsg, 1)
	go func() {
		res, err := runner.Execute(ctx, opts)
		msg := computeDoneMsg{res: res, err: err}
		resCh <- msg
		p.Send(msg)
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		<-resCh
		return nil, fmt.Errorf("progress view: %w", err)
	}
	cancel()
	done := <-resCh
	return done.res, done.err
}
