package ui

import (
	"fmt"
	"strings"

	"github.com/atomicstack/tabnav/internal/logging/events"
	"github.com/atomicstack/tabnav/internal/markup"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// SubmitForm collects values for the editable fields of a submit region
// before it fires.
type SubmitForm struct {
	index  int
	region markup.Region
	fields []markup.Field
	inputs []textinput.Model
	// slots maps each input to its entry in fields
	slots []int
	focus int
}

// NewSubmitForm prepares inputs for region, the index-th region of the
// displayed document.
func NewSubmitForm(index int, region markup.Region, blink bool) *SubmitForm {
	f := &SubmitForm{
		index:  index,
		region: region,
		fields: append([]markup.Field(nil), region.Fields...),
	}
	for i, field := range f.fields {
		if !editable(field) {
			continue
		}
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = field.Name
		ti.CharLimit = 512
		ti.SetValue(field.Value)
		if strings.EqualFold(field.Type, "password") {
			ti.EchoMode = textinput.EchoPassword
		}
		if !blink {
			ti.Cursor.SetMode(cursor.CursorStatic)
		}
		f.inputs = append(f.inputs, ti)
		f.slots = append(f.slots, i)
	}
	return f
}

func editable(field markup.Field) bool {
	switch strings.ToLower(strings.TrimSpace(field.Type)) {
	case "hidden", "checkbox", "radio":
		return false
	}
	return strings.TrimSpace(field.Name) != ""
}

// Editable reports whether the form has anything to edit.
func (f *SubmitForm) Editable() bool { return len(f.inputs) > 0 }
func (f *SubmitForm) Index() int     { return f.index }
func (f *SubmitForm) Action() string { return f.region.Target }

// Fields returns the region's fields with the edited values applied.
func (f *SubmitForm) Fields() []markup.Field {
	out := append([]markup.Field(nil), f.fields...)
	for i, slot := range f.slots {
		out[slot].Value = f.inputs[i].Value()
	}
	return out
}

// Focus focuses the current input.
func (f *SubmitForm) Focus() tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	return f.inputs[f.focus].Focus()
}

func (f *SubmitForm) move(step int) tea.Cmd {
	n := len(f.inputs)
	if n == 0 {
		return nil
	}
	f.focus = ((f.focus+step)%n + n) % n
	return f.Focus()
}

// Update returns the command to run and whether the form finished or was
// cancelled.
func (f *SubmitForm) Update(msg tea.Msg) (tea.Cmd, bool, bool) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			events.Form.Cancel(f.Action(), events.ReasonEscape)
			return nil, false, true
		case "tab", "down":
			return f.move(1), false, false
		case "shift+tab", "up":
			return f.move(-1), false, false
		case "enter":
			if f.focus < len(f.inputs)-1 {
				return f.move(1), false, false
			}
			events.Form.Submit(f.Action(), f.region.Method)
			return nil, true, false
		}
	}
	if len(f.inputs) == 0 {
		return nil, false, false
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd, false, false
}

func (f *SubmitForm) Title() string {
	method := f.region.Method
	if method == "" {
		method = "GET"
	}
	return fmt.Sprintf("%s (%s %s)", f.region.DisplayLabel(), method, f.region.Target)
}

func (f *SubmitForm) Help() string {
	return "Enter next/submit · Tab switch field · Esc cancel"
}

func (f *SubmitForm) lines() []styledLine {
	lines := []styledLine{{text: f.Title(), style: styles.Title}, {}}
	for i, slot := range f.slots {
		field := f.fields[slot]
		label := field.Label
		if label == "" {
			label = field.Name
		}
		style := styles.FormLabel
		marker := "  "
		if i == f.focus {
			style = styles.FormFocused
			marker = "› "
		}
		lines = append(lines, styledLine{text: marker + label, style: style})
		lines = append(lines, styledLine{text: "  " + f.inputs[i].View(), raw: true})
	}
	lines = append(lines, styledLine{}, styledLine{text: f.Help(), style: styles.Footer})
	return lines
}

func (m *Model) openForm(form *SubmitForm) tea.Cmd {
	m.form = form
	m.mode = ModeForm
	events.Form.Open(form.Action(), len(form.inputs))
	return form.Focus()
}

func (m *Model) closeForm() {
	m.form = nil
	m.mode = ModeRegions
}

func (m *Model) handleActiveForm(msg tea.Msg) (bool, tea.Cmd) {
	if m.mode != ModeForm || m.form == nil {
		return false, nil
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok || key.String() == "ctrl+c" {
		return false, nil
	}
	cmd, done, cancel := m.form.Update(msg)
	if cancel {
		m.closeForm()
		return true, cmd
	}
	if done {
		index, fields := m.form.Index(), m.form.Fields()
		m.closeForm()
		m.errMsg = ""
		m.forceClearInfo()
		return true, tea.Batch(cmd, m.bar.Trigger(index, fields))
	}
	return true, cmd
}
