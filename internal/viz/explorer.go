package viz

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/vibsim/internal/dynamo"
	"github.com/san-kum/vibsim/internal/physics"
	"github.com/san-kum/vibsim/internal/sim"
)

const (
	minDt    = 1e-5
	wFactor  = 1.1
	chartPad = 12
)

// Explorer re-solves the oscillator whenever dt or w changes and shows the
// overlay, the error profile and the run metrics.
type Explorer struct {
	initial dynamo.Params
	params  dynamo.Params
	sim     *sim.Simulator
	result  *sim.Result
	err     error
	width   int
	height  int
}

func NewExplorer(p dynamo.Params, s *sim.Simulator) Explorer {
	e := Explorer{
		initial: p,
		params:  p,
		sim:     s,
		width:   DefaultWidth,
		height:  DefaultHeight,
	}
	e.solve()
	return e
}

func (e *Explorer) solve() {
	e.result, e.err = e.sim.Run(e.params)
}

func (e Explorer) Params() dynamo.Params { return e.params }

func (e Explorer) Result() *sim.Result { return e.result }

func (e Explorer) Init() tea.Cmd { return nil }

func (e Explorer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return e.handleKey(msg)
	case tea.WindowSizeMsg:
		e.width = max(msg.Width-chartPad, 10)
		e.height = max(msg.Height/2, 5)
	}
	return e, nil
}

func (e Explorer) handleKey(msg tea.KeyMsg) (Explorer, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return e, tea.Quit
	case "left", "h":
		if e.params.Dt/2 >= minDt {
			e.params.Dt /= 2
		}
	case "right", "l":
		e.params.Dt *= 2
	case "up", "k":
		e.params.W *= wFactor
	case "down", "j":
		e.params.W /= wFactor
	case "r":
		e.params = e.initial
	default:
		return e, nil
	}
	e.solve()
	return e, nil
}

func (e Explorer) View() string {
	var s strings.Builder

	s.WriteString(Title.Render("undamped oscillator  u'' + w²u = 0") + "\n")
	s.WriteString(fmt.Sprintf("%s %s  %s %s  %s %s  %s %s\n",
		MetricLabel.Render("I"), MetricValue.Render(fmt.Sprintf("%g", e.params.I)),
		MetricLabel.Render("w"), MetricValue.Render(fmt.Sprintf("%.4g", e.params.W)),
		MetricLabel.Render("dt"), MetricValue.Render(fmt.Sprintf("%g", e.params.Dt)),
		MetricLabel.Render("T"), MetricValue.Render(fmt.Sprintf("%g", e.params.T)),
	))
	s.WriteString(Separator(e.width+chartPad) + "\n")

	if e.err != nil {
		s.WriteString(StatusUnstable.Render("error: "+e.err.Error()) + "\n")
		s.WriteString(KeyHint.Render("r reset · q quit") + "\n")
		return s.String()
	}

	r := e.result
	s.WriteString(Comparison(r.Trajectory, r.Params, e.width, e.height) + "\n\n")

	errs := make([]float64, r.Trajectory.Len())
	for i := range errs {
		errs[i] = math.Abs(r.Trajectory.U[i] - r.Exact[i])
	}
	s.WriteString(MetricLabel.Render("|u - exact| ") + SparklineChart(errs, e.width) + "\n")

	osc := physics.NewOscillator(r.Params.I, r.Params.W)
	status := StatusStable.Render(fmt.Sprintf("stable  w·dt = %.3f < 2", r.Params.Courant()))
	if !r.Stable {
		status = StatusUnstable.Render(fmt.Sprintf("unstable  w·dt = %.3f ≥ 2", r.Params.Courant()))
	}
	stats := fmt.Sprintf("%s %s  %s %s  %s %s",
		MetricLabel.Render("steps"), MetricValue.Render(fmt.Sprintf("%d", r.Trajectory.Steps())),
		MetricLabel.Render("max error"), MetricValue.Render(fmt.Sprintf("%.3e", r.Metrics["max_error"])),
		MetricLabel.Render("w̃"), MetricValue.Render(fmt.Sprintf("%.5g", osc.NumericalFrequency(r.Params.Dt))),
	)
	s.WriteString(Panel.Render(status+"\n"+stats) + "\n")
	s.WriteString(KeyHint.Render("←/→ dt · ↓/↑ w · r reset · q quit") + "\n")

	return s.String()
}

func RunExplorer(p dynamo.Params, s *sim.Simulator) error {
	_, err := tea.NewProgram(NewExplorer(p, s), tea.WithAltScreen()).Run()
	return err
}
