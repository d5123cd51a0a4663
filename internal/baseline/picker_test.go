// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package baseline

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfctl/cromwell-infra/internal/aws"
)

var pickable = []aws.ObjectVersion{
	{VersionID: "3HL4kqtJvjVBH40Nrjfkd", LastModified: time.Date(2026, 10, 3, 8, 0, 0, 0, time.UTC), Size: 4096, IsLatest: true},
	{VersionID: "UIORUnfndfiufdisojhr4", LastModified: time.Date(2026, 10, 2, 8, 0, 0, 0, time.UTC), Size: 4000},
	{VersionID: "9x7TzqCcPo0RaTa1aNFnD", LastModified: time.Date(2026, 9, 14, 8, 0, 0, 0, time.UTC), Size: 3900},
}

func press(m tea.Model, keys ...tea.KeyMsg) pickerModel {
	for _, k := range keys {
		m, _ = m.Update(k)
	}
	return m.(pickerModel)
}

func TestPicker_Navigate(t *testing.T) {
	m := newPickerModel("s3://assets/stack.template.json", pickable)
	require.Len(t, m.visible, 3)

	m = press(m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.cursor)

	m = press(m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, m.cursor)

	m = press(m, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, m.chosen)
	assert.Equal(t, "UIORUnfndfiufdisojhr4", m.chosen.VersionID)
}

func TestPicker_Filter(t *testing.T) {
	m := newPickerModel("s3://assets/stack.template.json", pickable)
	m = press(m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown})

	m = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2026-10")})
	assert.Equal(t, "2026-10", m.filter.Value())
	assert.Equal(t, []int{0, 1}, m.visible)
	assert.Equal(t, 1, m.cursor)

	m = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("-03")})
	assert.Equal(t, []int{0}, m.visible)
	assert.Equal(t, 0, m.cursor)

	m = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("zzz")})
	assert.Empty(t, m.visible)
	assert.Contains(t, m.View(), "no matching versions")

	// Nothing to pick.
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, m.chosen)
}

func TestPicker_Quit(t *testing.T) {
	m := newPickerModel("s3://assets/stack.template.json", pickable)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestPicker_View(t *testing.T) {
	view := newPickerModel("s3://assets/stack.template.json", pickable).View()

	assert.Contains(t, view, "Pick a baseline version of s3://assets/stack.template.json")
	assert.Contains(t, view, "> 2026-10-03T08:00:00Z  3HL4kqtJvjVBH40Nrjfkd")
	assert.Contains(t, view, "latest")
	assert.Contains(t, view, "2026-09-14T08:00:00Z  9x7TzqCcPo0RaTa1aNFnD")
	assert.Contains(t, view, "4.1 kB")
}

func TestPickVersion(t *testing.T) {
	_, err := PickVersion(context.Background(), "s3://assets/t.json", nil, strings.NewReader(""), &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrNoVersions)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var out bytes.Buffer
	v, err := PickVersion(ctx, "s3://assets/t.json", pickable, strings.NewReader("\r"), &out)
	require.NoError(t, err)
	assert.Equal(t, "3HL4kqtJvjVBH40Nrjfkd", v.VersionID)
}
