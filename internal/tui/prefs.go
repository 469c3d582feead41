package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/MKhiriev/go-pref-sync/models"
)

type prefField struct {
	name  string
	value string
}

// prefsModel is the preferences editor: a flat field list over the engine's
// preferences record. Fields are upserted through the engine's merge path;
// the field-merge model has no removal, so neither does the editor.
type prefsModel struct {
	fields []prefField
	idx    int

	editing bool
	adding  bool
	inputs  []textinput.Model
	focus   int
	saving  bool
	errMsg  string
}

func newPrefsModel() prefsModel {
	return prefsModel{}
}

// refresh rebuilds the display list from the current record snapshot.
func (m *prefsModel) refresh(record models.Record) {
	names := record.FieldNames()
	fields := make([]prefField, 0, len(names))
	for _, name := range names {
		fields = append(fields, prefField{name: name, value: formatFieldValue(record[name])})
	}
	m.fields = fields

	if m.idx >= len(m.fields) {
		m.idx = len(m.fields) - 1
	}
	if m.idx < 0 {
		m.idx = 0
	}
}

func (m prefsModel) current() (prefField, bool) {
	if len(m.fields) == 0 || m.idx < 0 || m.idx >= len(m.fields) {
		return prefField{}, false
	}
	return m.fields[m.idx], true
}

func (m *prefsModel) startAdd() {
	name := textinput.New()
	name.Placeholder = "имя поля"
	name.Width = 40
	name.Focus()

	value := textinput.New()
	value.Placeholder = "значение"
	value.Width = 40

	m.inputs = []textinput.Model{name, value}
	m.focus = 0
	m.editing = true
	m.adding = true
	m.saving = false
	m.errMsg = ""
}

func (m *prefsModel) startEdit(field prefField) {
	name := textinput.New()
	name.SetValue(field.name)
	name.Width = 40

	value := textinput.New()
	value.SetValue(field.value)
	value.Width = 40
	value.Focus()

	m.inputs = []textinput.Model{name, value}
	m.focus = 1
	m.editing = true
	m.adding = false
	m.saving = false
	m.errMsg = ""
}

func (m *prefsModel) stopEdit() {
	m.editing = false
	m.adding = false
	m.inputs = nil
	m.focus = 0
	m.saving = false
}

func (m prefsModel) View() string {
	if m.editing {
		return m.viewForm()
	}

	out := ""
	if len(m.fields) == 0 {
		out += "Настроек пока нет\n"
	} else {
		out += "Поле                     │ Значение\n"
		out += "─────────────────────────┼────────────────────────────\n"
		for i, field := range m.fields {
			cursor := " "
			if i == m.idx {
				cursor = ">"
			}
			out += fmt.Sprintf("%s %-23s │ %s\n", cursor, fitText(field.name, 23), fitText(field.value, 28))
		}
	}
	if m.errMsg != "" {
		out += "\nОшибка: " + m.errMsg + "\n"
	}

	return renderPage(
		"НАСТРОЙКИ",
		strings.TrimRight(out, "\n"),
		"n: добавить │ e: изменить │ ↑/↓: навигация │ esc: назад",
	)
}

func (m prefsModel) viewForm() string {
	title := "НАСТРОЙКИ: ИЗМЕНЕНИЕ"
	if m.adding {
		title = "НАСТРОЙКИ: НОВОЕ ПОЛЕ"
	}

	out := "Поле      │ [" + m.inputs[0].View() + "]\n"
	out += "Значение  │ [" + m.inputs[1].View() + "]\n"
	if m.saving {
		out += "\nСохранение...\n"
	}
	if m.errMsg != "" {
		out += "\nОшибка: " + m.errMsg + "\n"
	}

	return renderPage(title, strings.TrimRight(out, "\n"), "tab: след. поле │ enter: сохранить │ esc: отмена")
}
