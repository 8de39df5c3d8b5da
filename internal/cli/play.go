package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/flowmotion/flowmotion/pkg/scene"
	"github.com/flowmotion/flowmotion/pkg/timeline"
)

// playCommand creates the play command, a terminal preview of the timeline.
func (c *CLI) playCommand() *cobra.Command {
	var fps float64

	cmd := &cobra.Command{
		Use:   "play [scene.json]",
		Short: "Preview the animation timeline in the terminal",
		Long: `Preview the animation timeline in the terminal.

The play command evaluates the timeline frame by frame and shows each
element's brightness, draw progress, and opacity as live bars, along with
the step indicator and the global dim level. It is a debugging view of the
exact per-frame state a renderer would receive.

Keys: space play/pause, ←/→ step one frame, r restart, q quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlay(args[0], fps)
		},
	}

	cmd.Flags().Float64Var(&fps, "fps", 0, "playback frame rate (default from config)")

	return cmd
}

func (c *CLI) runPlay(path string, fps float64) error {
	if fps == 0 {
		fps = c.Config.FPS
	}

	s, err := scene.ReadSceneFile(path)
	if err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return err
	}
	if len(s.Timeline) == 0 || fps <= 1 {
		printInfo("Scene has no timeline to play")
		return nil
	}

	model := newPlayerModel(&s, fps)
	_, err = tea.NewProgram(model).Run()
	return err
}

// =============================================================================
// PlayerModel - Timeline Playback
// =============================================================================

// tickMsg advances playback by one frame.
type tickMsg time.Time

// playerModel is the bubbletea model for timeline playback.
type playerModel struct {
	scene     *scene.Scene
	evaluator *timeline.Evaluator
	elements  timeline.Elements

	fps         float64
	frame       int
	totalFrames int
	playing     bool
}

func newPlayerModel(s *scene.Scene, fps float64) playerModel {
	return playerModel{
		scene:       s,
		evaluator:   timeline.NewEvaluator(s, fps),
		elements:    timeline.ElementsFromScene(s),
		fps:         fps,
		totalFrames: timeline.TotalFrames(s.Timeline, fps),
		playing:     true,
	}
}

func (m playerModel) tick() tea.Cmd {
	return tea.Tick(time.Duration(float64(time.Second)/m.fps), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m playerModel) Init() tea.Cmd {
	return m.tick()
}

func (m playerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.playing = !m.playing
			if m.playing {
				return m, m.tick()
			}
		case "left", "h":
			m.playing = false
			if m.frame > 0 {
				m.frame--
			}
		case "right", "l":
			m.playing = false
			if m.frame < m.totalFrames-1 {
				m.frame++
			}
		case "r":
			m.frame = 0
			if !m.playing {
				m.playing = true
				return m, m.tick()
			}
		}
	case tickMsg:
		if !m.playing {
			return m, nil
		}
		if m.frame < m.totalFrames-1 {
			m.frame++
			return m, m.tick()
		}
		m.playing = false
	}
	return m, nil
}

func (m playerModel) View() string {
	state := m.evaluator.Frame(m.frame)

	var b strings.Builder
	title := m.scene.Header
	if title == "" {
		title = "Timeline"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("space play/pause  ←/→ step  r restart  q quit"))
	b.WriteString("\n\n")

	status := "paused"
	if m.playing {
		status = "playing"
	}
	b.WriteString(fmt.Sprintf("%s %s %s\n",
		renderBar(float64(m.frame)/float64(max(m.totalFrames-1, 1)), 30),
		StyleNumber.Render(fmt.Sprintf("%d/%d", m.frame, m.totalFrames-1)),
		StyleDim.Render(status)))

	if state == nil {
		b.WriteString("\n" + StyleDim.Render("still mode") + "\n")
		return b.String()
	}

	if state.Step != nil {
		b.WriteString(fmt.Sprintf("%s %s\n",
			StyleHighlight.Render(fmt.Sprintf("step %d/%d", state.Step.Ordinal, state.StepCount)),
			StyleValue.Render(state.Step.Text)))
	}
	b.WriteString(StyleDim.Render(fmt.Sprintf("floor %.2f · canvas opacity %.2f", state.Floor, state.GlobalOpacity)))
	b.WriteString("\n\n")

	for _, id := range m.elements.Nodes {
		writeElementRow(&b, "node", id, state.Elements[id])
	}
	for _, ref := range m.elements.Containers {
		writeElementRow(&b, "box ", ref.ID, state.Elements[ref.ID])
	}
	for _, id := range m.elements.Connections {
		writeElementRow(&b, "line", id, state.Elements[id])
	}

	return b.String()
}

func writeElementRow(b *strings.Builder, kind, id string, st timeline.ElementState) {
	label := id
	if len(label) > 24 {
		label = label[:21] + "..."
	}
	fmt.Fprintf(b, "%s %s %s %s\n",
		StyleDim.Render(kind),
		lipgloss.NewStyle().Width(24).Render(label),
		renderBar(st.Brightness, 20),
		StyleDim.Render(fmt.Sprintf("draw %.2f · opacity %.2f", st.DrawProgress, st.Opacity)))
}

// renderBar draws a fixed-width progress bar for a value in [0, 1].
func renderBar(v float64, width int) string {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	filled := int(v*float64(width) + 0.5)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return StyleHighlight.Render(bar)
}
