package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/MKhiriev/go-pref-sync/models"
)

// credsModel is the provider-credential editor over the draft buffer. Edits
// land in drafts immediately; nothing reaches the engine until ctrl+s.
type credsModel struct {
	items []models.ProviderCredential
	idx   int

	editing bool
	editID  string
	inputs  []textinput.Model
	focus   int

	reveal     bool
	committing bool
	errMsg     string
	unsaved    bool
}

func newCredsModel() credsModel {
	return credsModel{}
}

func (m credsModel) current() (models.ProviderCredential, bool) {
	if len(m.items) == 0 || m.idx < 0 || m.idx >= len(m.items) {
		return models.ProviderCredential{}, false
	}
	return m.items[m.idx], true
}

func (m *credsModel) startEdit(cred models.ProviderCredential) {
	name := textinput.New()
	name.Placeholder = "название"
	name.SetValue(cred.Name)
	name.Width = 40
	name.Focus()

	provider := textinput.New()
	provider.Placeholder = "провайдер (openai, anthropic, ...)"
	provider.SetValue(cred.Provider)
	provider.Width = 40

	apiKey := textinput.New()
	apiKey.Placeholder = "API-ключ"
	apiKey.SetValue(cred.APIKey)
	apiKey.Width = 40
	apiKey.EchoMode = textinput.EchoPassword
	apiKey.EchoCharacter = '*'

	m.inputs = []textinput.Model{name, provider, apiKey}
	m.focus = 0
	m.editing = true
	m.editID = cred.ID
	m.errMsg = ""
}

func (m *credsModel) stopEdit() {
	m.editing = false
	m.editID = ""
	m.inputs = nil
	m.focus = 0
}

func (m credsModel) View() string {
	if m.editing {
		return m.viewForm()
	}

	out := ""
	if m.committing {
		out += "Сохранение на сервере...\n\n"
	}

	if len(m.items) == 0 {
		out += "Ключей пока нет\n"
	} else {
		out += "Название                 │ Провайдер    │ Ключ\n"
		out += "─────────────────────────┼──────────────┼──────────────\n"
		for i, cred := range m.items {
			cursor := " "
			if i == m.idx {
				cursor = ">"
			}
			out += fmt.Sprintf(
				"%s %-23s │ %-12s │ %s\n",
				cursor,
				fitText(cred.Name, 23),
				fitText(cred.Provider, 12),
				fitText(maskSecret(cred.APIKey, m.reveal), 14),
			)
		}
	}

	if m.unsaved {
		out += "\n* есть несохранённые изменения (ctrl+s)\n"
	}
	if m.errMsg != "" {
		out += "\nОшибка: " + m.errMsg + "\n"
	}

	return renderPage(
		"КЛЮЧИ API",
		strings.TrimRight(out, "\n"),
		"n: добавить │ e: изменить │ ctrl+d: удалить │ ctrl+s: сохранить │ пробел: показать │ esc: назад",
	)
}

func (m credsModel) viewForm() string {
	out := "Название  │ [" + m.inputs[0].View() + "]\n"
	out += "Провайдер │ [" + m.inputs[1].View() + "]\n"
	out += "API-ключ  │ [" + m.inputs[2].View() + "]\n"
	if m.errMsg != "" {
		out += "\nОшибка: " + m.errMsg + "\n"
	}

	return renderPage("КЛЮЧ API", strings.TrimRight(out, "\n"), "tab: след. поле │ enter: применить │ esc: отмена")
}
