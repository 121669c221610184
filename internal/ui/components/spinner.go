package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/aiconsole/internal/ui/styles"
)

// slowAfter is how long a call runs before the elapsed time is shown.
const slowAfter = 2 * time.Second

var activityLabelStyle = lipgloss.NewStyle().Foreground(styles.TextSecondary)

// Activity is the spinner shown while a backend call is in flight. It keeps
// the label of the current operation and, once the call is slow, how long it
// has been waiting.
type Activity struct {
	spin    spinner.Model
	label   string
	started time.Time
	now     func() time.Time
}

// NewActivity returns an idle activity indicator with a default label.
func NewActivity(label string) Activity {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	return Activity{spin: s, label: label, now: time.Now}
}

// Start marks the beginning of a call and returns the first tick. An empty
// label keeps the current one.
func (a *Activity) Start(label string) tea.Cmd {
	if label != "" {
		a.label = label
	}
	a.started = a.now()
	return a.spin.Tick
}

// Update advances the animation. Ticks addressed to other spinners are ignored.
func (a Activity) Update(msg tea.Msg) (Activity, tea.Cmd) {
	var cmd tea.Cmd
	a.spin, cmd = a.spin.Update(msg)
	return a, cmd
}

// View renders the glyph alone.
func (a Activity) View() string {
	return a.spin.View()
}

// Label returns the label of the current operation.
func (a Activity) Label() string {
	return a.label
}

// Elapsed reports how long the current call has been running.
func (a Activity) Elapsed() time.Duration {
	if a.started.IsZero() {
		return 0
	}
	return a.now().Sub(a.started)
}

// Status renders the glyph, the label and, for slow calls, the wait so far.
func (a Activity) Status() string {
	text := a.label
	if d := a.Elapsed(); d >= slowAfter {
		text += fmt.Sprintf(" (%ds)", int(d.Seconds()))
	}
	return a.spin.View() + " " + activityLabelStyle.Render(text)
}

// Centered renders Status in the middle of a width x height area.
func (a Activity) Centered(width, height int) string {
	return styles.CenterBoth(a.Status(), width, height)
}
