package session

import (
	"sync"

	"github.com/aleksmelnik/mediavault/internal/client/models"
)

// UserStream is a latest-value pub/sub channel for the current user.
// Subscribers receive the last published value immediately on subscribe and
// every subsequent change; a nil value means "signed out". Slow subscribers
// never block a publish: an undelivered older value is replaced by the newer
// one.
type UserStream struct {
	mu     sync.Mutex
	last   *models.User
	subs   map[int]chan *models.User
	nextID int
}

func NewUserStream() *UserStream {
	return &UserStream{subs: make(map[int]chan *models.User)}
}

// Publish records u as the latest value and delivers it to all subscribers.
func (s *UserStream) Publish(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.last = u
	for _, ch := range s.subs {
		// Drop the undelivered previous value, if any, then send.
		select {
		case <-ch:
		default:
		}
		ch <- u
	}
}

// Current returns the latest published value.
func (s *UserStream) Current() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Subscribe registers a new subscriber. The returned channel is primed with
// the current value. The cancel function must be called to release the
// subscription; after cancel no further values are delivered.
func (s *UserStream) Subscribe() (<-chan *models.User, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan *models.User, 1)
	ch <- s.last

	id := s.nextID
	s.nextID++
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
	return ch, cancel
}
