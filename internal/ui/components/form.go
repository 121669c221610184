package components

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/aiconsole/internal/ui/styles"
)

// FieldKind selects how a form field is edited and validated.
type FieldKind int

const (
	// FieldText is a single-line text input.
	FieldText FieldKind = iota
	// FieldPassword is a text input with masked echo.
	FieldPassword
	// FieldNumber accepts a whole number.
	FieldNumber
	// FieldDecimal accepts a decimal number.
	FieldDecimal
	// FieldBool is a checkbox toggled with space.
	FieldBool
	// FieldChoice cycles through Options with left and right.
	FieldChoice
	// FieldJSON accepts a JSON object.
	FieldJSON
)

// Option is one selectable value of a choice field.
type Option struct {
	Label string
	Value string
}

// Field describes one form input.
type Field struct {
	Key         string
	Label       string
	Placeholder string
	Options     []Option
	Kind        FieldKind
	Required    bool
}

// ValidationError is returned when a field holds an unacceptable value.
// Forms never submit while one is pending.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// FormResult is the outcome of a message handled by a Form.
type FormResult int

const (
	// FormNone means the form is still being edited.
	FormNone FormResult = iota
	// FormSubmit means all fields validated and the user submitted.
	FormSubmit
	// FormCancel means the user dismissed the form.
	FormCancel
)

type formField struct {
	Field
	input   textinput.Model
	checked bool
	choice  int
}

// Form is a modal create/edit form with Submit and Cancel buttons.
type Form struct {
	title       string
	submitLabel string
	fields      []*formField
	err         error
	focus       int
	offset      int
	width       int
	height      int
}

// NewForm builds a form. Text-like fields start empty, bools unchecked and
// choices on their first option.
func NewForm(title, submitLabel string, fields ...Field) *Form {
	f := &Form{title: title, submitLabel: submitLabel, width: 80}
	for _, fd := range fields {
		ff := &formField{Field: fd}
		ti := textinput.New()
		ti.Placeholder = fd.Placeholder
		ti.CharLimit = 2000
		ti.Width = 40
		ti.Prompt = ""
		if fd.Kind == FieldPassword {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		ff.input = ti
		f.fields = append(f.fields, ff)
	}
	return f
}

func (f *Form) field(key string) *formField {
	for _, ff := range f.fields {
		if ff.Key == key {
			return ff
		}
	}
	return nil
}

// Title returns the form title.
func (f *Form) Title() string {
	return f.title
}

// SetValue sets a text-like field, or selects the option with value v.
func (f *Form) SetValue(key, v string) {
	ff := f.field(key)
	if ff == nil {
		return
	}
	if ff.Kind == FieldChoice {
		for i, o := range ff.Options {
			if o.Value == v {
				ff.choice = i
				return
			}
		}
		return
	}
	ff.input.SetValue(v)
}

// SetBool sets a checkbox field.
func (f *Form) SetBool(key string, v bool) {
	if ff := f.field(key); ff != nil {
		ff.checked = v
	}
}

// Value returns the trimmed text of a field, or the selected option value.
func (f *Form) Value(key string) string {
	ff := f.field(key)
	if ff == nil {
		return ""
	}
	if ff.Kind == FieldChoice {
		if len(ff.Options) == 0 {
			return ""
		}
		return ff.Options[ff.choice].Value
	}
	return strings.TrimSpace(ff.input.Value())
}

// Bool returns the state of a checkbox field.
func (f *Form) Bool(key string) bool {
	ff := f.field(key)
	return ff != nil && ff.checked
}

// Int returns a number field. Empty fields yield 0.
func (f *Form) Int(key string) int {
	n, _ := strconv.Atoi(f.Value(key))
	return n
}

// OptionalInt returns a number field, or nil when it is empty.
func (f *Form) OptionalInt(key string) *int {
	v := f.Value(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}

// OptionalFloat returns a decimal field, or nil when it is empty.
func (f *Form) OptionalFloat(key string) *float64 {
	v := f.Value(key)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &n
}

// JSON returns a JSON field, or "{}" when it is empty.
func (f *Form) JSON(key string) json.RawMessage {
	v := f.Value(key)
	if v == "" {
		return json.RawMessage("{}")
	}
	return json.RawMessage(v)
}

// Err returns the pending validation error, if any.
func (f *Form) Err() error {
	return f.err
}

// SetSize sets the space available to the form.
func (f *Form) SetSize(width, height int) {
	f.width = width
	f.height = height
}

// Validate checks every field in order and returns the first problem.
func (f *Form) Validate() error {
	for _, ff := range f.fields {
		v := f.Value(ff.Key)
		if ff.Required && v == "" && ff.Kind != FieldBool {
			return &ValidationError{Field: ff.Label, Reason: "is required"}
		}
		if v == "" {
			continue
		}
		switch ff.Kind {
		case FieldNumber:
			n, err := strconv.Atoi(v)
			if err != nil {
				return &ValidationError{Field: ff.Label, Reason: "must be a whole number"}
			}
			if n < 0 {
				return &ValidationError{Field: ff.Label, Reason: "must not be negative"}
			}
		case FieldDecimal:
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return &ValidationError{Field: ff.Label, Reason: "must be a number"}
			}
			if n < 0 {
				return &ValidationError{Field: ff.Label, Reason: "must not be negative"}
			}
		case FieldJSON:
			var obj map[string]any
			if err := json.Unmarshal([]byte(v), &obj); err != nil {
				return &ValidationError{Field: ff.Label, Reason: "must be a JSON object"}
			}
		}
	}
	return nil
}

// Focus moves focus to the first field.
func (f *Form) Focus() tea.Cmd {
	f.focus = 0
	f.offset = 0
	f.err = nil
	f.updateFocus()
	return textinput.Blink
}

func (f *Form) submitIndex() int { return len(f.fields) }
func (f *Form) cancelIndex() int { return len(f.fields) + 1 }

func (f *Form) move(delta int) {
	n := len(f.fields) + 2
	f.focus = (f.focus + delta + n) % n
	f.updateFocus()
}

func (f *Form) updateFocus() {
	for i, ff := range f.fields {
		if i == f.focus {
			ff.input.Focus()
		} else {
			ff.input.Blur()
		}
	}
	visible := f.visibleRows()
	if f.focus < f.offset {
		f.offset = f.focus
	}
	if f.focus < len(f.fields) && f.focus >= f.offset+visible {
		f.offset = f.focus - visible + 1
	}
}

func (f *Form) visibleRows() int {
	if f.height <= 0 {
		return len(f.fields)
	}
	return max(f.height-10, 3)
}

// Update handles one message.
func (f *Form) Update(msg tea.Msg) (FormResult, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		if f.focus < len(f.fields) {
			var cmd tea.Cmd
			ff := f.fields[f.focus]
			ff.input, cmd = ff.input.Update(msg)
			return FormNone, cmd
		}
		return FormNone, nil
	}

	switch km.String() {
	case "esc":
		f.blurAll()
		return FormCancel, nil

	case "tab", "down":
		f.move(1)
		return FormNone, textinput.Blink

	case "shift+tab", "up":
		f.move(-1)
		return FormNone, textinput.Blink

	case "ctrl+s":
		return f.submit()

	case "enter":
		switch f.focus {
		case f.submitIndex():
			return f.submit()
		case f.cancelIndex():
			f.blurAll()
			return FormCancel, nil
		default:
			f.move(1)
			return FormNone, textinput.Blink
		}
	}

	if f.focus >= len(f.fields) {
		return FormNone, nil
	}

	ff := f.fields[f.focus]
	switch ff.Kind {
	case FieldBool:
		if km.String() == " " || km.String() == "space" {
			ff.checked = !ff.checked
		}
		return FormNone, nil
	case FieldChoice:
		if len(ff.Options) == 0 {
			return FormNone, nil
		}
		switch km.String() {
		case "left", "h":
			ff.choice = (ff.choice - 1 + len(ff.Options)) % len(ff.Options)
		case "right", "l", " ", "space":
			ff.choice = (ff.choice + 1) % len(ff.Options)
		}
		return FormNone, nil
	}

	var cmd tea.Cmd
	ff.input, cmd = ff.input.Update(msg)
	return FormNone, cmd
}

func (f *Form) submit() (FormResult, tea.Cmd) {
	if err := f.Validate(); err != nil {
		f.err = err
		return FormNone, nil
	}
	f.err = nil
	f.blurAll()
	return FormSubmit, nil
}

func (f *Form) blurAll() {
	for _, ff := range f.fields {
		ff.input.Blur()
	}
}

// View renders the form.
func (f *Form) View() string {
	cardWidth := min(max(f.width-10, 50), 90)
	inputWidth := cardWidth - lipgloss.Width(styles.LabelStyle.Render("")) - 10

	rows := []string{styles.CardTitleStyle.Render(f.title)}

	end := min(f.offset+f.visibleRows(), len(f.fields))
	if f.offset > 0 {
		rows = append(rows, styles.HelpStyle.Render("  ↑ more"))
	}
	for i := f.offset; i < end; i++ {
		rows = append(rows, f.renderField(i, inputWidth))
	}
	if end < len(f.fields) {
		rows = append(rows, styles.HelpStyle.Render("  ↓ more"))
	}
	rows = append(rows, "")

	submitStyle := styles.ButtonInactiveStyle
	cancelStyle := styles.ButtonInactiveStyle
	if f.focus == f.submitIndex() {
		submitStyle = styles.ButtonActiveStyle
	}
	if f.focus == f.cancelIndex() {
		cancelStyle = styles.ButtonActiveStyle
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Center,
		submitStyle.Render(" "+f.submitLabel+" "),
		"  ",
		cancelStyle.Render(" Cancel "),
	))

	if f.err != nil {
		rows = append(rows, "", styles.ErrorTextStyle.Render(f.err.Error()))
	}

	rows = append(rows, "", styles.HelpStyle.Render("Tab: next field | Enter: submit on button | Ctrl+S: submit | Esc: cancel"))

	content := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return styles.ModalContentStyle.Width(cardWidth).Render(content)
}

func (f *Form) renderField(i, inputWidth int) string {
	ff := f.fields[i]
	focused := i == f.focus

	label := ff.Label
	if ff.Required {
		label += "*"
	}
	if focused {
		label = styles.FocusedStyle.Render("> " + label)
	} else {
		label = styles.BlurredStyle.Render("  " + label)
	}
	label = styles.LabelStyle.Render(label)

	var value string
	switch ff.Kind {
	case FieldBool:
		box := "[ ]"
		if ff.checked {
			box = "[x]"
		}
		value = box
	case FieldChoice:
		if len(ff.Options) == 0 {
			value = styles.HelpStyle.Render("(none available)")
		} else {
			value = fmt.Sprintf("‹ %s ›", ff.Options[ff.choice].Label)
		}
	default:
		ff.input.Width = max(inputWidth, 10)
		value = ff.input.View()
	}
	if focused {
		value = styles.FocusedStyle.Render(value)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, label, " ", value)
}
