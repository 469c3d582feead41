// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Session is one auth-state event emitted by the auth signal. The engine
// consumes a stream of these; it never produces them.
//
// An empty Identity or a true Anonymous flag puts the engine in the
// local-authoritative regime; any named identity puts it in the
// remote-authoritative regime.
type Session struct {
	// Identity is the stable user id of the signed-in user, or empty when no
	// user is signed in.
	Identity string

	// Anonymous marks sessions that carry an identity but must still be
	// treated as local-only (e.g. guest sessions issued by the auth provider).
	Anonymous bool

	// Token is the bearer token for the remote tier. Empty for anonymous
	// sessions.
	Token string
}

// Named reports whether the session is in the remote-authoritative regime.
func (s Session) Named() bool {
	return s.Identity != "" && !s.Anonymous
}
