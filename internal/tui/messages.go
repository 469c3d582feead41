package tui

import "github.com/MKhiriev/go-pref-sync/models"

type refreshMsg struct{}

type conflictMsg struct {
	req conflictRequest
}

type sessionOpenedMsg struct {
	session models.Session
	err     error
}

type prefSavedMsg struct {
	err error
}

type commitDoneMsg struct {
	err error
}

type copiedMsg struct {
	err error
}

type clearStatusMsg struct{}
