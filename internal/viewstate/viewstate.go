// Package viewstate holds the current state of a view-model and fans every
// new value out to subscribers.
package viewstate

import "sync"

// Store is safe for concurrent use. Subscribers receive values on a channel
// with a buffer of one; a slow subscriber only ever sees the newest state.
type Store[S any] struct {
	mu     sync.Mutex
	state  S
	subs   map[int]chan S
	nextID int
	closed bool
}

func New[S any](initial S) *Store[S] {
	return &Store[S]{state: initial, subs: make(map[int]chan S)}
}

// Get returns the current state.
func (s *Store[S]) Get() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Set replaces the state and publishes it.
func (s *Store[S]) Set(v S) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = v
	s.publish()
}

// Update applies fn to a copy of the state, stores and publishes the result.
func (s *Store[S]) Update(fn func(S) S) S {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = fn(s.state)
	s.publish()
	return s.state
}

// Subscribe returns a channel that first yields the current state and then
// every later one. The returned func unsubscribes and closes the channel.
func (s *Store[S]) Subscribe() (<-chan S, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan S, 1)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	ch <- s.state
	id := s.nextID
	s.nextID++
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
		})
	}
}

// Close closes every subscriber channel. Later Set calls still update the
// state but reach no one.
func (s *Store[S]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, c := range s.subs {
		delete(s.subs, id)
		close(c)
	}
	s.closed = true
}

// publish must be called with mu held. Only publish sends, so after draining
// a full buffer the send cannot block.
func (s *Store[S]) publish() {
	for _, c := range s.subs {
		select {
		case c <- s.state:
		default:
			select {
			case <-c:
			default:
			}
			c <- s.state
		}
	}
}
