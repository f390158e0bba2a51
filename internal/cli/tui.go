package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/callsurface/pkg/callstate"
	"github.com/matzehuels/callsurface/pkg/pipeline"
	"github.com/matzehuels/callsurface/pkg/render/frame"
	"github.com/matzehuels/callsurface/pkg/scenario"
	"github.com/matzehuels/callsurface/pkg/surface/control"
	"github.com/matzehuels/callsurface/pkg/surface/toast"
)

// frameInterval is the TUI's animation tick.
const frameInterval = 16 * time.Millisecond

// maxIntents bounds the intent history shown in the footer.
const maxIntents = 5

// Cell styles
var (
	cellStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1).
			Align(lipgloss.Center).
			Width(12)
	cellSelectedStyle = cellStyle.BorderForeground(colorCyan)
	cellOnStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("16")).Background(colorWhite)
	cellAcceptStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorWhite).Background(colorGreen)
	cellEndStyle      = lipgloss.NewStyle().Bold(true).Foreground(colorWhite).Background(colorRed)
	cellDisabledStyle = lipgloss.NewStyle().Foreground(colorDim)
	toastStyle        = lipgloss.NewStyle().Foreground(colorWhite).Background(lipgloss.Color("238")).Padding(0, 2)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

var speakerCycle = []string{"builtin", "speaker", "headphones", "bluetooth", "airpods", "airpods-pro", "airpods-max", "none"}

// tickMsg advances the animation timeline.
type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// =============================================================================
// SurfaceModel - Interactive control surface
// =============================================================================

// SurfaceModel is the bubbletea model driving a live control surface.
type SurfaceModel struct {
	Stage       *pipeline.Stage
	State       scenario.State
	Cursor      int
	Interaction bool
	Animated    bool
	Intents     []string

	speaker int
}

// NewSurfaceModel creates a model on a fresh stage, settled on st.
func NewSurfaceModel(opts pipeline.Options, st scenario.State) *SurfaceModel {
	m := &SurfaceModel{
		Stage:       pipeline.NewStage(opts, opts.Logger),
		State:       st,
		Interaction: true,
		Animated:    !opts.Immediate,
	}
	m.Stage.Apply(st, false)
	return m
}

func (m *SurfaceModel) Init() tea.Cmd {
	return tick()
}

func (m *SurfaceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.Stage.Timeline.Advance(frameInterval)
		return m, tick()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "1":
			m.setClass(callstate.ClassIncoming)
		case "2":
			m.setClass(callstate.ClassOutgoingRinging)
		case "3":
			m.setClass(callstate.ClassActive)
		case "s":
			m.speaker = (m.speaker + 1) % len(speakerCycle)
			mode, _ := callstate.ParseSpeaker(speakerCycle[m.speaker])
			m.State.Snapshot.Speaker = mode
			m.apply()
		case "a":
			m.State.Snapshot.HasAudioRouteMenu = !m.State.Snapshot.HasAudioRouteMenu
			m.apply()
		case "v":
			v := &m.State.Snapshot.Video
			v.IsAvailable = !v.IsAvailable
			v.CanChangeStatus = v.IsAvailable
			m.apply()
		case "c":
			v := &m.State.Snapshot.Video
			v.IsCameraActive = !v.IsCameraActive
			v.HasVideo = v.IsCameraActive
			m.apply()
		case "m":
			m.State.Muted = !m.State.Muted
			m.apply()
		case "t":
			m.State.Toasts = nextToasts(m.State.Toasts)
			m.apply()
		case "i":
			m.Interaction = !m.Interaction
			m.Stage.Buttons.SetInteractionEnabled(m.Interaction)
		case "left", "h":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "right", "l":
			if m.Cursor < len(m.live())-1 {
				m.Cursor++
			}
		case "enter", " ":
			m.tap()
		}
	}
	return m, nil
}

func (m *SurfaceModel) setClass(c callstate.Class) {
	m.State.Snapshot.Class = c
	m.apply()
}

func (m *SurfaceModel) apply() {
	m.Stage.Apply(m.State, m.Animated)
	if n := len(m.live()); m.Cursor >= n {
		m.Cursor = max(n-1, 0)
	}
}

// live returns the controls that are not leaving.
func (m *SurfaceModel) live() []frame.Button {
	var out []frame.Button
	for _, b := range m.Stage.Capture(0).Controls {
		if !b.Removing {
			out = append(out, b)
		}
	}
	return out
}

func (m *SurfaceModel) tap() {
	live := m.live()
	if m.Cursor >= len(live) {
		return
	}
	role := live[m.Cursor].Role
	if !m.Stage.Buttons.PressDown(role) {
		m.record(role.String() + " ignored")
		return
	}
	if intent, ok := m.Stage.Buttons.PressUp(role); ok {
		m.record(role.String() + " → " + intent.String())
	}
}

func (m *SurfaceModel) record(s string) {
	m.Intents = append(m.Intents, s)
	if len(m.Intents) > maxIntents {
		m.Intents = m.Intents[len(m.Intents)-maxIntents:]
	}
}

func (m *SurfaceModel) View() string {
	f := m.Stage.Capture(0)
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Call surface"))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%s · %s · t=%dms",
		m.State.Snapshot.Class, m.State.Snapshot.Speaker, f.At.Milliseconds())))
	b.WriteString("\n\n")

	for _, t := range f.Toasts {
		if t.Alpha < 0.05 {
			continue
		}
		b.WriteString(toastStyle.Render(t.Text))
		b.WriteString("\n")
	}
	if len(f.Toasts) > 0 {
		b.WriteString("\n")
	}

	var cells []string
	live := 0
	for _, c := range f.Controls {
		if c.Removing {
			cells = append(cells, cellStyle.BorderForeground(colorDim).Render(cellDisabledStyle.Render("·")+"\n"+cellDisabledStyle.Render(c.Label)))
			continue
		}
		style := cellStyle
		if live == m.Cursor {
			style = cellSelectedStyle
		}
		live++
		cells = append(cells, style.Render(glyphCell(c)+"\n"+c.Label))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	b.WriteString("\n\n")

	status := fmt.Sprintf("muted %v · interaction %v · toasts %d", m.State.Muted, m.Interaction, len(f.Toasts))
	b.WriteString(listDimStyle.Render(status))
	b.WriteString("\n")
	for _, s := range m.Intents {
		b.WriteString(StyleHighlight.Render("  " + s))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("1/2/3 state  s speaker  a menu  v video  c camera  m mute  t toasts  i interaction  ←/→ select  ⏎ tap  q quit"))
	return b.String()
}

// glyphCell renders a control's glyph in its appearance.
func glyphCell(c frame.Button) string {
	g := frame.DefaultIcons.Resolve(c.Visual, frame.TintFor(c.Appearance))
	sym := " " + g.Symbol + " "
	switch {
	case !c.Enabled:
		return cellDisabledStyle.Render(sym)
	case c.Appearance.Color == control.ColorGreen:
		return cellAcceptStyle.Render(sym)
	case c.Appearance.Color == control.ColorRed:
		return cellEndStyle.Render(sym)
	case c.On:
		return cellOnStyle.Render(sym)
	}
	return sym
}

// nextToasts adds the first kind missing from s, or clears s when full.
func nextToasts(s toast.Set) toast.Set {
	for _, k := range toast.Kinds() {
		if !s.Has(k) {
			return s.With(k)
		}
	}
	return 0
}

// tuiCommand creates the tui command for driving the surface interactively.
func (c *CLI) tuiCommand() *cobra.Command {
	var (
		state   string
		speaker string
		pf      playFlags
	)

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Drive the control surface interactively",
		Long: `Drive the control surface interactively.

Change the call state, audio route, video and mute flags from the keyboard and
watch the buttons and toasts animate. Tapping a control prints the intent it
surfaces.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options()
			if err != nil {
				return err
			}
			pf.apply(cmd, &opts)
			class, err := callstate.ParseClass(state)
			if err != nil {
				return err
			}
			mode, err := callstate.ParseSpeaker(speaker)
			if err != nil {
				return err
			}
			// The TUI owns the terminal; keep engine logs quiet.
			opts.Logger = newLogger(io.Discard, LogInfo)

			m := NewSurfaceModel(opts, scenario.State{Snapshot: callstate.Snapshot{Class: class, Speaker: mode}})
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	pf.register(cmd)
	cmd.Flags().StringVar(&state, "state", "incoming", "initial call state")
	cmd.Flags().StringVar(&speaker, "speaker", "builtin", "initial audio route")

	registerCallStateCompletions(cmd)

	return cmd
}
