package skinclient

import (
	"context"
	"errors"
	"sync"
	"time"

	"skinvault/pkg/rest"
)

// ErrUnauthenticated is returned by every call that needs a session while
// there is none.
var ErrUnauthenticated = errors.New("skinclient: not signed in")

type Mode string

const (
	ModeDemo Mode = "demo"
	ModeLive Mode = "live"
)

type subscriber struct {
	id uint64
	fn func(rest.Session, bool)
}

// State is the process-wide session. Create one at start and share it with
// every consumer; only the Client can change it.
type State struct {
	mu          sync.RWMutex
	session     *rest.Session
	subscribers []subscriber
	nextID      uint64
	now         func() time.Time
}

func NewState() *State {
	return &State{now: time.Now}
}

func (s *State) Session() (rest.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.session == nil {
		return rest.Session{}, false
	}

	return *s.session, true
}

// Mode is derived from the session presence and is never stored.
func (s *State) Mode() Mode {
	if _, ok := s.Session(); ok {
		return ModeLive
	}

	return ModeDemo
}

// Subscribe calls fn after every session change until unsubscribe is called.
// Callbacks run outside the lock in subscription order.
func (s *State) Subscribe(fn func(session rest.Session, ok bool)) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subscribers = append(s.subscribers, subscriber{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once

	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()

			for i, sub := range s.subscribers {
				if sub.id == id {
					s.subscribers = append(s.subscribers[:i:i], s.subscribers[i+1:]...)
					return
				}
			}
		})
	}
}

// BearerToken returns the access token or an empty string.
func (s *State) BearerToken() string {
	session, ok := s.Session()
	if !ok {
		return ""
	}

	return session.AccessToken
}

// Authenticate fails when there is no usable session. An expired session is
// dropped.
func (s *State) Authenticate(context.Context) error {
	session, ok := s.Session()
	if !ok {
		return ErrUnauthenticated
	}

	if !session.ExpiresAt.IsZero() && !s.now().Before(session.ExpiresAt) {
		s.clear()
		return ErrUnauthenticated
	}

	return nil
}

func (s *State) set(session rest.Session) {
	s.mu.Lock()
	s.session = &session
	s.mu.Unlock()

	s.notify(session, true)
}

func (s *State) clear() {
	s.mu.Lock()
	had := s.session != nil
	s.session = nil
	s.mu.Unlock()

	if had {
		s.notify(rest.Session{}, false)
	}
}

func (s *State) notify(session rest.Session, ok bool) {
	s.mu.RLock()
	subscribers := make([]subscriber, len(s.subscribers))
	copy(subscribers, s.subscribers)
	s.mu.RUnlock()

	for _, sub := range subscribers {
		sub.fn(session, ok)
	}
}
