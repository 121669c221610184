// Package uitest runs tab commands synchronously in tests.
package uitest

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/aiconsole/internal/app"
)

// maxRounds bounds Pump so a tab that keeps reloading cannot hang a test.
const maxRounds = 10

// Collect runs cmd and every command batched inside it, returning the
// messages they produce. Spinner ticks are dropped.
func Collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	var out []tea.Msg
	switch msg := cmd().(type) {
	case nil, spinner.TickMsg:
	case tea.BatchMsg:
		for _, c := range msg {
			out = append(out, Collect(c)...)
		}
	default:
		out = append(out, msg)
	}
	return out
}

// Pump runs cmd, feeds the produced messages back into tab, and repeats
// with the commands that returns. It yields every message seen, in order.
func Pump(tab app.Tab, cmd tea.Cmd) []tea.Msg {
	var seen []tea.Msg
	pending := Collect(cmd)
	for round := 0; round < maxRounds && len(pending) > 0; round++ {
		var next []tea.Msg
		for _, msg := range pending {
			seen = append(seen, msg)
			var c tea.Cmd
			_, c = tab.Update(msg)
			next = append(next, Collect(c)...)
		}
		pending = next
	}
	return seen
}

// Find returns the first message of type T.
func Find[T tea.Msg](msgs []tea.Msg) (T, bool) {
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Count returns how many messages have type T.
func Count[T tea.Msg](msgs []tea.Msg) int {
	n := 0
	for _, m := range msgs {
		if _, ok := m.(T); ok {
			n++
		}
	}
	return n
}

// Key builds a key message from its string form as used in key bindings.
func Key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+e":
		return tea.KeyMsg{Type: tea.KeyCtrlE}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// Type sends each rune of s as a key press.
func Type(tab app.Tab, s string) {
	for _, r := range s {
		tab.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}
