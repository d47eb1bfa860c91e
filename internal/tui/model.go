// Package tui renders the live counters in a terminal with Bubble Tea.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tartampluch/go-lifestats/internal/config"
	"github.com/tartampluch/go-lifestats/internal/engine"
	"github.com/tartampluch/go-lifestats/internal/locale"
	"github.com/tartampluch/go-lifestats/internal/profile"
)

// FieldMsg carries one changed snapshot field from the session.
type FieldMsg struct {
	Key   engine.FieldKey
	Value int64
}

// errMsg reports a failure to start the session.
type errMsg struct{ err error }

// Model implements the Bubble Tea live counters view.
type Model struct {
	tr       *locale.Translator
	settings config.Settings
	profile  profile.Profile
	session  *engine.Session

	// send delivers messages to the running program; set by Run.
	send func(tea.Msg)

	values map[engine.FieldKey]int64
	err    error

	width  int
	height int
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0")).MarginTop(1)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E")).MarginTop(1)
)

// NewModel builds the model for p. The session is created here and started
// by Init.
func NewModel(tr *locale.Translator, settings config.Settings, clock engine.Clock, p profile.Profile) (*Model, error) {
	s, err := engine.NewSession(clock, p.Birth)
	if err != nil {
		return nil, err
	}
	return &Model{
		tr:       tr,
		settings: settings,
		profile:  p,
		session:  s,
		values:   make(map[engine.FieldKey]int64),
	}, nil
}

// Session exposes the live session, e.g. for the HTTP snapshot endpoint.
func (m *Model) Session() *engine.Session {
	return m.session
}

// Run drives the program until the user quits or ctx is cancelled.
func Run(ctx context.Context, m *Model) error {
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	m.send = program.Send
	defer m.session.Stop()

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("%s: %w", config.ErrTUI, err)
	}
	return nil
}

// Init implements tea.Model. The session starts from a command so that its
// first delivery reaches a running event loop.
func (m *Model) Init() tea.Cmd {
	send := m.send
	return func() tea.Msg {
		err := m.session.Start(m.settings.LiveInterval, func(k engine.FieldKey, v int64) {
			send(FieldMsg{Key: k, Value: v})
		},
			engine.WithImmediate(m.settings.Immediate),
			engine.WithErrorHandler(func(err error) {
				slog.Warn(config.MsgLiveTickErr,
					config.LogKeyComponent, config.CompTUI,
					config.LogKeySession, m.session.ID(),
					config.LogKeyError, err,
				)
			}),
		)
		if err != nil {
			return errMsg{fmt.Errorf("%s: %w", config.ErrLiveStart, err)}
		}
		return nil
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case FieldMsg:
		m.values[msg.Key] = msg.Value
		return m, nil
	case errMsg:
		m.err = msg.err
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.session.Stop()
			return m, tea.Quit
		}
		return m, nil
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	var blocks []string

	blocks = append(blocks, titleStyle.Render(m.profile.Name))
	blocks = append(blocks, labelStyle.Render(m.tr.TData(config.TKeyOriginDay, map[string]any{
		"Day": m.tr.Weekday(m.profile.Birth.Weekday()),
	})))

	if m.err != nil {
		blocks = append(blocks, errorStyle.Render(m.err.Error()))
	}

	if m.settings.SectionEnabled(config.SectionRealtime) {
		blocks = append(blocks, m.renderFields(config.TKeySecRealtime, engine.CounterKeys, m.tr.Number))
	}
	if m.settings.SectionEnabled(config.SectionBiometrics) {
		blocks = append(blocks, m.renderFields(config.TKeySecBiometrics, engine.EstimateKeys, m.tr.Compact))
	}
	if m.settings.SectionEnabled(config.SectionFacts) {
		blocks = append(blocks, m.renderFacts())
	}
	if m.settings.SectionEnabled(config.SectionAstronomical) {
		blocks = append(blocks, m.renderAstro())
	}

	blocks = append(blocks, footerStyle.Render(m.tr.T(config.TKeyTUIHelp)))

	content := lipgloss.JoinVertical(lipgloss.Left, blocks...)
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

// renderFields lists keys as aligned label/value rows, formatting values with show.
func (m *Model) renderFields(titleKey string, keys []engine.FieldKey, show func(int64) string) string {
	labels := make([]string, len(keys))
	width := 0
	for i, k := range keys {
		labels[i] = m.tr.FieldLabel(k)
		width = max(width, lipgloss.Width(labels[i]))
	}

	lines := []string{sectionStyle.Render(m.tr.T(titleKey))}
	for i, k := range keys {
		value := config.CounterPlaceholder
		if v, ok := m.values[k]; ok {
			value = show(v)
		}
		pad := strings.Repeat(" ", width-lipgloss.Width(labels[i]))
		lines = append(lines, labelStyle.Render(labels[i]+pad)+"  "+valueStyle.Render(value))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFacts() string {
	g := engine.GlobalStandingFor(m.profile.Birth)
	lines := []string{
		sectionStyle.Render(m.tr.T(config.TKeySecFacts)),
		m.tr.TData(config.TKeyGlobalRank, map[string]any{
			"Rank":   m.tr.Number(g.Rank),
			"Suffix": m.tr.OrdinalSuffix(g.Rank),
		}),
	}
	if years, ok := m.values[engine.FieldYears]; ok {
		facts := engine.FunFactsFor(engine.Snapshot{Years: years})
		lines = append(lines,
			m.tr.TData(config.TKeyDogYears, map[string]any{"Value": m.tr.Number(facts.DogYears)}),
			m.tr.TData(config.TKeySunDistance, map[string]any{"Value": m.tr.Number(facts.SunDistanceMillionKm)}),
		)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderAstro() string {
	t := m.profile.Birth.Time()
	z := engine.ZodiacFor(t.Month(), t.Day())
	return strings.Join([]string{
		sectionStyle.Render(m.tr.T(config.TKeySecAstronomical)),
		m.tr.TData(config.TKeyStarSign, map[string]any{"Symbol": z.Symbol, "Sign": z.Sign}),
		labelStyle.Render(m.tr.TData(config.TKeyElement, map[string]any{"Element": z.Element})),
	}, "\n")
}
