package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
)

type loginModel struct {
	input      textinput.Model
	submitting bool
	errMsg     string
}

func newLoginModel() loginModel {
	input := textinput.New()
	input.Placeholder = "идентификатор пользователя"
	input.CharLimit = 64
	input.Width = 40
	input.Focus()

	return loginModel{input: input}
}

func (m loginModel) View() string {
	var b strings.Builder
	b.WriteString("Поле          │ Значение\n")
	b.WriteString("──────────────┼────────────────────────────────────────\n")
	b.WriteString("Идентификатор │ [")
	b.WriteString(m.input.View())
	b.WriteString("]\n")

	if m.submitting {
		b.WriteString("\n[Вход...]\n")
	} else {
		b.WriteString("\n[Войти]\n")
	}

	if m.errMsg != "" {
		b.WriteString("\nОшибка: ")
		b.WriteString(m.errMsg)
		b.WriteString("\n")
	}

	return renderPage("ВХОД", strings.TrimRight(b.String(), "\n"), "enter: войти │ esc: назад")
}
