package ui

import (
	"errors"
	"strings"
	"testing"

	"curse-modpack/addon"
	"curse-modpack/pack"

	tea "github.com/charmbracelet/bubbletea"
)

func TestTruncateFunction(t *testing.T) {
	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"Hello World", 5, "He..."},
		{"Hi", 5, "Hi"},
		{"Test", 4, "Test"},
		{"LongString", 7, "Long..."},
		{"", 5, ""},
	}

	for _, test := range tests {
		result := truncate(test.input, test.maxLen)
		if result != test.expected {
			t.Fatalf("truncate(%q, %d) = %q, expected %q", test.input, test.maxLen, result, test.expected)
		}
	}
}

func TestReleaseColor(t *testing.T) {
	tests := []struct {
		release addon.Release
		want    int
	}{
		{addon.Alpha, ColorRed},
		{addon.Beta, ColorYellow},
		{addon.Stable, ColorGreen},
		{addon.Release(3), ColorGrey},
	}
	for _, tt := range tests {
		if got := ReleaseColor(tt.release); got != tt.want {
			t.Errorf("ReleaseColor(%s) = %06x, want %06x", tt.release, got, tt.want)
		}
	}
	if !strings.Contains(Release(addon.Beta), "Beta") {
		t.Error("Release should render the tier name")
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m SelectModel, keys ...string) SelectModel {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(SelectModel)
	}
	return m
}

func TestSelectModel(t *testing.T) {
	mods := []addon.Mod{
		{ID: 1, Name: "Tinkers Construct"},
		{ID: 2, Name: "Mantle"},
		{ID: 3, Name: "JEI"},
	}
	installed := func(id int) bool { return id == 2 }

	t.Run("navigation stays in bounds", func(t *testing.T) {
		m := press(NewSelect(mods, installed), "up", "down", "down", "down", "down")
		if m.selectedIndex != 2 {
			t.Fatalf("selectedIndex = %d, want 2", m.selectedIndex)
		}
	})

	t.Run("select and confirm", func(t *testing.T) {
		m := press(NewSelect(mods, installed), " ", "down", " ", "down", " ", "enter")
		chosen := m.Chosen()
		if len(chosen) != 2 || chosen[0].ID != 1 || chosen[1].ID != 3 {
			t.Fatalf("Chosen() = %v, want Tinkers Construct and JEI", chosen)
		}
	})

	t.Run("toggle twice deselects", func(t *testing.T) {
		m := press(NewSelect(mods, nil), " ", " ", "enter")
		if len(m.Chosen()) != 0 {
			t.Fatalf("expected nothing chosen, got %v", m.Chosen())
		}
	})

	t.Run("cancel chooses nothing", func(t *testing.T) {
		m := press(NewSelect(mods, nil), " ", "q")
		if m.Chosen() != nil {
			t.Fatalf("expected nil after cancel, got %v", m.Chosen())
		}
	})

	t.Run("view lists mods", func(t *testing.T) {
		view := NewSelect(mods, installed).View()
		for _, mod := range mods {
			if !strings.Contains(view, mod.Name) {
				t.Errorf("view does not mention %s", mod.Name)
			}
		}
	})
}

func TestProgressModel(t *testing.T) {
	mods := pack.NewStore("mods")
	file := &addon.File{ID: 1, Mod: addon.Mod{ID: 1, Name: "Mantle"}, Name: "Mantle.jar"}
	change := pack.Installation(mods, file)

	m := NewProgress(make(chan tea.Msg))
	steps := []tea.Msg{
		pack.Event{Type: pack.EventStart, Index: 0, Total: 2, Change: change},
		pack.Event{Type: pack.EventFetch, Index: 0, Total: 2, Change: change},
		pack.Event{Type: pack.EventCommit, Index: 0, Total: 2, Change: change},
		pack.Event{Type: pack.EventStart, Index: 1, Total: 2, Change: change},
		pack.Event{Type: pack.EventRollback, Index: 1, Total: 2, Change: change, Err: errors.New("boom")},
		DoneMsg{Err: errors.New("boom")},
	}
	for _, msg := range steps {
		next, _ := m.Update(msg)
		m = next.(ProgressModel)
	}

	if !m.done {
		t.Fatal("model should be done")
	}
	if len(m.completed) != 1 || len(m.errors) != 1 {
		t.Fatalf("completed=%v errors=%v", m.completed, m.errors)
	}
	if m.Err() == nil {
		t.Error("expected the batch error to be kept")
	}
	if view := m.View(); !strings.Contains(view, "boom") || !strings.Contains(view, "Mantle.jar") {
		t.Errorf("unexpected view:\n%s", view)
	}
}
