// Package auth carries the client's identity state: who is signed in right
// now, and a broadcast signal that fires on every sign-in and sign-out so the
// sync layer can react without polling.
package auth

import (
	"sync"

	"github.com/MKhiriev/go-pref-sync/models"
)

// Signal broadcasts session transitions to its subscribers.
//
// Each subscriber gets its own buffered channel of size one with latest-wins
// delivery: if a subscriber has not consumed the previous session yet, the
// newer one replaces it. Consumers only ever need the current identity, so
// intermediate transitions are safe to drop.
type Signal struct {
	mu      sync.Mutex
	current models.Session
	subs    map[int]chan models.Session
	nextID  int
}

// NewSignal constructs a Signal whose initial session is anonymous.
func NewSignal() *Signal {
	return &Signal{
		current: models.Session{Anonymous: true},
		subs:    make(map[int]chan models.Session),
	}
}

// Current returns the most recently emitted session.
func (s *Signal) Current() models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Emit records session as current and delivers it to every subscriber.
// Emit never blocks.
func (s *Signal) Emit(session models.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = session
	for _, ch := range s.subs {
		// latest wins: displace an unconsumed session
		select {
		case ch <- session:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- session
		}
	}
}

// Subscribe registers a new subscriber and returns its channel together with
// a cancel function. The channel is closed on cancel. The current session is
// delivered immediately so late subscribers do not miss the state they joined
// in.
func (s *Signal) Subscribe() (<-chan models.Session, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++

	ch := make(chan models.Session, 1)
	ch <- s.current
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}
