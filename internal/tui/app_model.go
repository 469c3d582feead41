// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-pref-sync/internal/adapter"
	"github.com/MKhiriev/go-pref-sync/internal/auth"
	"github.com/MKhiriev/go-pref-sync/internal/service"
	"github.com/MKhiriev/go-pref-sync/models"
)

type screen int

const (
	screenStatus screen = iota
	screenLogin
	screenPreferences
	screenCredentials
)

const refreshInterval = 500 * time.Millisecond

type appModel struct {
	ctx      context.Context
	services *service.ClientServices
	signal   *auth.Signal
	sessions *adapter.SessionClient
	arbiter  *ModalArbiter
	version  string

	currentScreen screen

	login loginModel
	prefs prefsModel
	creds credsModel

	conflict *conflictModel

	status     string
	quitByUser bool
}

func newAppModel(ctx context.Context, services *service.ClientServices, signal *auth.Signal, sessions *adapter.SessionClient, arbiter *ModalArbiter, version string) appModel {
	return appModel{
		ctx:           ctx,
		services:      services,
		signal:        signal,
		sessions:      sessions,
		arbiter:       arbiter,
		version:       version,
		currentScreen: screenStatus,
		login:         newLoginModel(),
		prefs:         newPrefsModel(),
		creds:         newCredsModel(),
	}
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.cmdAwaitConflict(), cmdRefreshTick(), textinput.Blink)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg:
		m.refreshLists()
		return m, cmdRefreshTick()
	case conflictMsg:
		m.conflict = newConflictModel(msg.req)
		return m, nil
	case sessionOpenedMsg:
		m.login.submitting = false
		if msg.err != nil {
			m.login.errMsg = humanizeServerUnavailableError(msg.err)
			return m, nil
		}
		m.signal.Emit(msg.session)
		m.login.errMsg = ""
		m.currentScreen = screenStatus
		m.status = "Вход выполнен: " + msg.session.Identity
		return m, cmdClearStatus()
	case prefSavedMsg:
		m.prefs.saving = false
		if msg.err != nil {
			m.prefs.errMsg = humanizeServerUnavailableError(msg.err)
			return m, nil
		}
		m.prefs.stopEdit()
		m.prefs.refresh(m.preferencesRecord())
		return m, nil
	case commitDoneMsg:
		m.creds.committing = false
		if msg.err != nil {
			var validationErr *service.ValidationError
			if errors.As(msg.err, &validationErr) {
				m.creds.errMsg = validationErr.Error()
			} else {
				m.creds.errMsg = humanizeServerUnavailableError(msg.err)
			}
			return m, nil
		}
		m.creds.errMsg = ""
		m.status = "Ключи сохранены"
		return m, cmdClearStatus()
	case copiedMsg:
		if msg.err != nil {
			m.status = "Ошибка копирования: " + msg.err.Error()
		} else {
			m.status = "Скопировано!"
		}
		return m, cmdClearStatus()
	case clearStatusMsg:
		m.status = ""
		return m, nil
	case tea.WindowSizeMsg:
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateScreen(msg)
	}

	if keyMsg.String() == "ctrl+c" {
		m.quitByUser = true
		return m, tea.Quit
	}

	if m.conflict != nil {
		return m.updateConflict(keyMsg)
	}

	return m.updateScreen(msg)
}

func (m appModel) View() string {
	var body string
	switch m.currentScreen {
	case screenStatus:
		body = m.viewStatus()
	case screenLogin:
		body = m.login.View()
	case screenPreferences:
		body = m.prefs.View()
	case screenCredentials:
		body = m.creds.View()
	}

	if m.conflict != nil {
		body += "\n\n" + m.conflict.View()
	}

	return appStyle.Render(body)
}

// ── conflict overlay ──────────────────────────────────────────────────────────

func (m appModel) updateConflict(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	conflict := m.conflict

	switch {
	case key.Matches(keyMsg, keys.useLocal):
		conflict.resolve(models.ResolutionUseLocal)
	case key.Matches(keyMsg, keys.useRemote):
		conflict.resolve(models.ResolutionUseRemote)
	case key.Matches(keyMsg, keys.merge):
		if !conflict.req.conflict.OffersMerge() {
			return m, nil
		}
		conflict.resolve(models.ResolutionMerge)
	case key.Matches(keyMsg, keys.copy):
		return m, cmdCopyToClipboard(conflict.snapshotText())
	default:
		return m, nil
	}

	m.conflict = nil
	return m, m.cmdAwaitConflict()
}

// ── per-screen key handling ───────────────────────────────────────────────────

func (m appModel) updateScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.currentScreen {
	case screenStatus:
		return m.updateStatus(msg)
	case screenLogin:
		return m.updateLogin(msg)
	case screenPreferences:
		return m.updatePrefs(msg)
	case screenCredentials:
		return m.updateCreds(msg)
	}
	return m, nil
}

func (m appModel) updateStatus(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.quit):
		m.quitByUser = true
		return m, tea.Quit
	case key.Matches(keyMsg, keys.prefs):
		m.currentScreen = screenPreferences
		m.prefs.refresh(m.preferencesRecord())
	case key.Matches(keyMsg, keys.creds):
		m.currentScreen = screenCredentials
		if !m.services.CredentialBuffer.HasUnsavedChanges() {
			m.services.CredentialBuffer.Load()
		}
		m.refreshCreds()
	case key.Matches(keyMsg, keys.signIn):
		m.login = newLoginModel()
		m.currentScreen = screenLogin
	case key.Matches(keyMsg, keys.signOut):
		m.signal.Emit(models.Session{Anonymous: true})
		m.status = "Выход выполнен, данные хранятся на устройстве"
		return m, cmdClearStatus()
	case key.Matches(keyMsg, keys.resync):
		m.services.Engine.Resync(models.KindPreferences)
		m.services.Engine.Resync(models.KindCredentials)
		m.status = "Синхронизация перезапущена"
		return m, cmdClearStatus()
	}

	return m, nil
}

func (m appModel) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch {
		case key.Matches(keyMsg, keys.esc):
			m.currentScreen = screenStatus
			return m, nil
		case key.Matches(keyMsg, keys.enter):
			if m.login.submitting {
				return m, nil
			}

			identity := strings.TrimSpace(m.login.input.Value())
			if identity == "" {
				m.login.errMsg = "Идентификатор обязателен"
				return m, nil
			}

			m.login.errMsg = ""
			m.login.submitting = true
			return m, m.cmdOpenSession(identity)
		}
	}

	var cmd tea.Cmd
	m.login.input, cmd = m.login.input.Update(msg)
	return m, cmd
}

func (m appModel) updatePrefs(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.prefs.editing {
		return m.updatePrefsForm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.esc):
		m.currentScreen = screenStatus
	case key.Matches(keyMsg, keys.quit):
		m.quitByUser = true
		return m, tea.Quit
	case key.Matches(keyMsg, keys.up):
		if m.prefs.idx > 0 {
			m.prefs.idx--
		}
	case key.Matches(keyMsg, keys.down):
		if m.prefs.idx < len(m.prefs.fields)-1 {
			m.prefs.idx++
		}
	case key.Matches(keyMsg, keys.newItem):
		m.prefs.startAdd()
		return m, textinput.Blink
	case key.Matches(keyMsg, keys.edit):
		field, exists := m.prefs.current()
		if !exists {
			return m, nil
		}
		m.prefs.startEdit(field)
		return m, textinput.Blink
	}

	return m, nil
}

func (m appModel) updatePrefsForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch {
		case key.Matches(keyMsg, keys.esc):
			m.prefs.stopEdit()
			return m, nil
		case key.Matches(keyMsg, keys.tab):
			m.prefs.inputs[m.prefs.focus].Blur()
			m.prefs.focus = (m.prefs.focus + 1) % len(m.prefs.inputs)
			m.prefs.inputs[m.prefs.focus].Focus()
			return m, nil
		case key.Matches(keyMsg, keys.backtab):
			m.prefs.inputs[m.prefs.focus].Blur()
			m.prefs.focus = (m.prefs.focus - 1 + len(m.prefs.inputs)) % len(m.prefs.inputs)
			m.prefs.inputs[m.prefs.focus].Focus()
			return m, nil
		case key.Matches(keyMsg, keys.enter):
			if m.prefs.saving {
				return m, nil
			}

			name := strings.TrimSpace(m.prefs.inputs[0].Value())
			if name == "" {
				m.prefs.errMsg = "Имя поля обязательно"
				return m, nil
			}

			m.prefs.errMsg = ""
			m.prefs.saving = true
			partial := models.PartialRecord{name: parsePrefValue(m.prefs.inputs[1].Value())}
			return m, m.cmdSavePreference(partial)
		}
	}

	var cmd tea.Cmd
	m.prefs.inputs[m.prefs.focus], cmd = m.prefs.inputs[m.prefs.focus].Update(msg)
	return m, cmd
}

func (m appModel) updateCreds(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.creds.editing {
		return m.updateCredsForm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	buffer := m.services.CredentialBuffer

	switch {
	case key.Matches(keyMsg, keys.esc):
		m.currentScreen = screenStatus
	case key.Matches(keyMsg, keys.quit):
		m.quitByUser = true
		return m, tea.Quit
	case key.Matches(keyMsg, keys.up):
		if m.creds.idx > 0 {
			m.creds.idx--
		}
	case key.Matches(keyMsg, keys.down):
		if m.creds.idx < len(m.creds.items)-1 {
			m.creds.idx++
		}
	case key.Matches(keyMsg, keys.reveal):
		m.creds.reveal = !m.creds.reveal
	case key.Matches(keyMsg, keys.newItem):
		id := buffer.AddDraft()
		m.creds.startEdit(models.ProviderCredential{ID: id})
		return m, textinput.Blink
	case key.Matches(keyMsg, keys.edit):
		cred, exists := m.creds.current()
		if !exists {
			return m, nil
		}
		m.creds.startEdit(cred)
		return m, textinput.Blink
	case key.Matches(keyMsg, keys.delete):
		cred, exists := m.creds.current()
		if !exists {
			return m, nil
		}
		if err := buffer.DeleteDraft(cred.ID); err != nil {
			m.creds.errMsg = err.Error()
			return m, nil
		}
		m.refreshCreds()
	case key.Matches(keyMsg, keys.commit):
		if m.creds.committing {
			return m, nil
		}
		m.creds.errMsg = ""
		m.creds.committing = true
		return m, m.cmdCommitCredentials()
	}

	return m, nil
}

func (m appModel) updateCredsForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch {
		case key.Matches(keyMsg, keys.esc):
			m.creds.stopEdit()
			m.refreshCreds()
			return m, nil
		case key.Matches(keyMsg, keys.tab):
			m.creds.inputs[m.creds.focus].Blur()
			m.creds.focus = (m.creds.focus + 1) % len(m.creds.inputs)
			m.creds.inputs[m.creds.focus].Focus()
			return m, nil
		case key.Matches(keyMsg, keys.backtab):
			m.creds.inputs[m.creds.focus].Blur()
			m.creds.focus = (m.creds.focus - 1 + len(m.creds.inputs)) % len(m.creds.inputs)
			m.creds.inputs[m.creds.focus].Focus()
			return m, nil
		case key.Matches(keyMsg, keys.enter):
			if err := m.applyDraftEdits(); err != nil {
				m.creds.errMsg = err.Error()
				return m, nil
			}
			m.creds.stopEdit()
			m.refreshCreds()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.creds.inputs[m.creds.focus], cmd = m.creds.inputs[m.creds.focus].Update(msg)
	return m, cmd
}

func (m *appModel) applyDraftEdits() error {
	buffer := m.services.CredentialBuffer
	id := m.creds.editID

	fields := map[string]string{
		service.DraftFieldName:     strings.TrimSpace(m.creds.inputs[0].Value()),
		service.DraftFieldProvider: strings.TrimSpace(m.creds.inputs[1].Value()),
		service.DraftFieldAPIKey:   strings.TrimSpace(m.creds.inputs[2].Value()),
	}
	for field, value := range fields {
		if err := buffer.UpdateDraft(id, field, value); err != nil {
			return err
		}
	}
	return nil
}

// ── commands ──────────────────────────────────────────────────────────────────

// cmdAwaitConflict parks a goroutine on the arbiter's request channel so a
// divergence surfaces as a modal no matter which screen is active.
func (m appModel) cmdAwaitConflict() tea.Cmd {
	ctx := m.ctx
	arbiter := m.arbiter

	return func() tea.Msg {
		select {
		case req := <-arbiter.requests:
			return conflictMsg{req: req}
		case <-ctx.Done():
			return nil
		}
	}
}

func (m appModel) cmdOpenSession(identity string) tea.Cmd {
	ctx := m.ctx
	client := m.sessions

	return func() tea.Msg {
		session, err := client.Open(ctx, identity)
		return sessionOpenedMsg{session: session, err: err}
	}
}

func (m appModel) cmdSavePreference(partial models.PartialRecord) tea.Cmd {
	engine := m.services.Engine

	return func() tea.Msg {
		return prefSavedMsg{err: engine.Update(models.KindPreferences, partial)}
	}
}

func (m appModel) cmdCommitCredentials() tea.Cmd {
	ctx := m.ctx
	buffer := m.services.CredentialBuffer

	return func() tea.Msg {
		return commitDoneMsg{err: buffer.Commit(ctx)}
	}
}

func cmdCopyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{err: clipboard.WriteAll(text)}
	}
}

func cmdRefreshTick() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg {
		return refreshMsg{}
	})
}

func cmdClearStatus() tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (m appModel) preferencesRecord() models.Record {
	record, _ := m.services.Engine.Record(models.KindPreferences)
	return record
}

func (m *appModel) refreshLists() {
	if m.currentScreen == screenPreferences && !m.prefs.editing {
		m.prefs.refresh(m.preferencesRecord())
	}
	if m.currentScreen == screenCredentials && !m.creds.editing {
		m.refreshCreds()
	}
}

func (m *appModel) refreshCreds() {
	buffer := m.services.CredentialBuffer
	m.creds.items = buffer.Drafts()
	m.creds.unsaved = buffer.HasUnsavedChanges()

	if m.creds.idx >= len(m.creds.items) {
		m.creds.idx = len(m.creds.items) - 1
	}
	if m.creds.idx < 0 {
		m.creds.idx = 0
	}
}

// parsePrefValue maps typed input onto the Record scalar types: "true"/"false"
// become bool, anything numeric becomes float64, the rest stays a string.
func parsePrefValue(raw string) any {
	raw = strings.TrimSpace(raw)
	switch raw {
	case "true":
		return true
	case "false":
		return false
	}
	if number, err := strconv.ParseFloat(raw, 64); err == nil {
		return number
	}
	return raw
}
