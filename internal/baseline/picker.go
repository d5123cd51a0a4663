// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package baseline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/tfctl/cromwell-infra/internal/aws"
)

var (
	// ErrNoVersions is returned when there is nothing to pick from.
	ErrNoVersions = errors.New("no object versions to pick from")
	// ErrNoSelection is returned when the picker is left without a choice.
	ErrNoSelection = errors.New("no version picked")
)

var (
	pickerTitleStyle  = lipgloss.NewStyle().Bold(true)
	pickerCursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#623CE4"))
	pickerHelpStyle   = lipgloss.NewStyle().Faint(true)
)

// PickVersion shows versions on out and reads keys from in until one is
// chosen. Typing narrows the list by version id or date.
func PickVersion(ctx context.Context, title string, versions []aws.ObjectVersion, in io.Reader, out io.Writer) (aws.ObjectVersion, error) {
	if len(versions) == 0 {
		return aws.ObjectVersion{}, ErrNoVersions
	}

	p := tea.NewProgram(newPickerModel(title, versions),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	final, err := p.Run()
	if err != nil {
		return aws.ObjectVersion{}, fmt.Errorf("version picker: %w", err)
	}

	m, ok := final.(pickerModel)
	if !ok || m.chosen == nil {
		return aws.ObjectVersion{}, ErrNoSelection
	}
	return *m.chosen, nil
}

type pickerModel struct {
	title    string
	versions []aws.ObjectVersion
	// visible holds indexes into versions that match the filter.
	visible []int
	cursor  int
	filter  textinput.Model
	chosen  *aws.ObjectVersion
}

func newPickerModel(title string, versions []aws.ObjectVersion) pickerModel {
	ti := textinput.New()
	ti.Prompt = "filter: "
	ti.Placeholder = "version id or date"
	ti.CharLimit = 64
	ti.Cursor.SetMode(cursor.CursorBlink)
	ti.Focus()

	m := pickerModel{
		title:    title,
		versions: versions,
		filter:   ti,
	}
	m.applyFilter()
	return m
}

func (m pickerModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.chosen = nil
			return m, tea.Quit
		case tea.KeyUp:
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case tea.KeyDown:
			if m.cursor < len(m.visible)-1 {
				m.cursor++
			}
			return m, nil
		case tea.KeyEnter:
			if len(m.visible) == 0 {
				return m, nil
			}
			v := m.versions[m.visible[m.cursor]]
			m.chosen = &v
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m pickerModel) View() string {
	var b strings.Builder
	b.WriteString(pickerTitleStyle.Render("Pick a baseline version of " + m.title))
	b.WriteString("\n\n")
	b.WriteString(m.filter.View())
	b.WriteString("\n\n")

	if len(m.visible) == 0 {
		b.WriteString("  no matching versions\n")
	}
	for i, idx := range m.visible {
		line := versionLine(m.versions[idx])
		if i == m.cursor {
			b.WriteString(pickerCursorStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(pickerHelpStyle.Render("UP/DOWN: move, ENTER: pick, ESC: quit"))
	b.WriteString("\n")
	return b.String()
}

func (m *pickerModel) applyFilter() {
	query := strings.ToLower(strings.TrimSpace(m.filter.Value()))

	visible := make([]int, 0, len(m.versions))
	for i, v := range m.versions {
		if query == "" || strings.Contains(strings.ToLower(versionLine(v)), query) {
			visible = append(visible, i)
		}
	}
	m.visible = visible

	if m.cursor >= len(m.visible) {
		m.cursor = max(len(m.visible)-1, 0)
	}
}

func versionLine(v aws.ObjectVersion) string {
	line := fmt.Sprintf("%s  %-36s %8s",
		v.LastModified.UTC().Format("2006-01-02T15:04:05Z"),
		v.VersionID,
		humanize.Bytes(uint64(v.Size)), //nolint:gosec
	)
	if v.IsLatest {
		line += "  latest"
	}
	return line
}
