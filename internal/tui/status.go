package tui

import (
	"strings"

	"github.com/MKhiriev/go-pref-sync/models"
)

func (m appModel) viewStatus() string {
	var b strings.Builder

	session := m.signal.Current()
	if session.Named() {
		b.WriteString("Сессия    : " + session.Identity + "\n")
	} else {
		b.WriteString("Сессия    : анонимная (данные только на устройстве)\n")
	}
	if m.version != "" {
		b.WriteString("Версия    : " + m.version + "\n")
	}
	b.WriteString("\n")

	b.WriteString("Документ   │ Состояние\n")
	b.WriteString("───────────┼─────────────────────────────────────────\n")
	for _, kind := range []models.Kind{models.KindPreferences, models.KindCredentials} {
		line := stateLabel(m.services.Engine.State(kind))
		if err := m.services.Engine.Err(kind); err != nil {
			line += " (" + fitText(humanizeServerUnavailableError(err), 30) + ")"
		}
		b.WriteString(padKindLabel(kindLabel(kind)) + "│ " + line + "\n")
	}

	if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}

	return renderPage(
		"PREF SYNC",
		strings.TrimRight(b.String(), "\n"),
		"1: настройки │ 2: ключи │ i: войти │ o: выйти │ s: повторить синхр. │ q: выход",
	)
}

func padKindLabel(label string) string {
	for runeLen(label) < 11 {
		label += " "
	}
	return label
}

func runeLen(s string) int {
	return len([]rune(s))
}

func stateLabel(state models.SyncState) string {
	switch state {
	case models.StateUninitialized:
		return "не инициализировано"
	case models.StateLoading:
		return "загрузка"
	case models.StateAdopted:
		return "данные приняты"
	case models.StateReconciling:
		return "согласование конфликта"
	case models.StateSubscribed:
		return "подписка активна"
	case models.StateError:
		return "ошибка"
	default:
		return string(state)
	}
}
