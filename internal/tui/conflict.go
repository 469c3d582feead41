// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"fmt"

	"github.com/MKhiriev/go-pref-sync/models"
)

// conflictModel renders a pending divergence as a modal overlay. It owns the
// reply channel of the parked arbitration; answering it exactly once is the
// caller's job.
type conflictModel struct {
	req conflictRequest
}

func newConflictModel(req conflictRequest) *conflictModel {
	return &conflictModel{req: req}
}

func (m *conflictModel) resolve(resolution models.Resolution) {
	m.req.reply <- resolution
}

// snapshotText is the clipboard export of both sides of the conflict.
func (m *conflictModel) snapshotText() string {
	c := m.req.conflict
	return fmt.Sprintf("local:  %s\nremote: %s", c.Local.Canonical(), c.Remote.Canonical())
}

func (m *conflictModel) View() string {
	c := m.req.conflict

	content := "КОНФЛИКТ: " + kindLabel(c.Kind) + "\n\n"
	content += "Данные на устройстве и на сервере расходятся.\n\n"
	content += fmt.Sprintf("Локально   (%d полей): %s\n", len(c.Local), fitText(c.Local.Canonical(), 46))
	content += fmt.Sprintf("На сервере (%d полей): %s\n", len(c.Remote), fitText(c.Remote.Canonical(), 46))
	content += "\n"

	content += "l оставить локальные    r взять серверные"
	if c.OffersMerge() {
		content += "    m объединить"
	}
	content += "\nc копировать оба снимка"

	return overlayBoxStyle.Render(content)
}

func kindLabel(kind models.Kind) string {
	switch kind {
	case models.KindPreferences:
		return "Настройки"
	case models.KindCredentials:
		return "Ключи API"
	default:
		return string(kind)
	}
}
