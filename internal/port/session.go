package port

import (
	"sync"

	"github.com/nikolayk812/techhub-cart/internal/domain"
)

// StaticSession is a Session whose user is set by the auth layer on sign-in and sign-out.
type StaticSession struct {
	mu   sync.RWMutex
	user *domain.User
}

func NewStaticSession(user *domain.User) *StaticSession {
	return &StaticSession{user: user}
}

func (s *StaticSession) CurrentUser() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return domain.User{}, false
	}
	return *s.user, true
}

func (s *StaticSession) SignIn(user domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &user
}

func (s *StaticSession) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
}
