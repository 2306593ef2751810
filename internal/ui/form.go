package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// form is a vertical stack of labelled text inputs with one focused at a
// time. Tab/shift+tab (and enter on non-final fields) move focus.
type form struct {
	labels []string
	inputs []textinput.Model
	focus  int
}

// field describes one form input.
type field struct {
	label       string
	placeholder string
	secret      bool
}

func newForm(fields []field) form {
	f := form{
		labels: make([]string, len(fields)),
		inputs: make([]textinput.Model, len(fields)),
	}

	for i, fd := range fields {
		input := textinput.New()
		input.Placeholder = fd.placeholder
		input.CharLimit = 256
		if fd.secret {
			input.EchoMode = textinput.EchoPassword
			input.EchoCharacter = '•'
		}
		f.labels[i] = fd.label
		f.inputs[i] = input
	}

	if len(f.inputs) > 0 {
		f.inputs[0].Focus()
	}
	return f
}

// atLast reports whether the final field has focus.
func (f *form) atLast() bool {
	return f.focus == len(f.inputs)-1
}

func (f *form) next() {
	f.setFocus((f.focus + 1) % len(f.inputs))
}

func (f *form) prev() {
	f.setFocus((f.focus - 1 + len(f.inputs)) % len(f.inputs))
}

func (f *form) setFocus(i int) {
	f.inputs[f.focus].Blur()
	f.focus = i
	f.inputs[f.focus].Focus()
}

// update forwards a message to the focused input.
func (f *form) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// value returns the trimmed content of field i.
func (f *form) value(i int) string {
	return strings.TrimSpace(f.inputs[i].Value())
}

// reset clears all fields and refocuses the first.
func (f *form) reset() {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
	}
	f.setFocus(0)
}

// view renders the labelled inputs.
func (f *form) view() string {
	var b strings.Builder
	for i := range f.inputs {
		b.WriteString(f.labels[i])
		b.WriteString("\n")
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n\n")
	}
	return b.String()
}
