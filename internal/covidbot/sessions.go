package covidbot

import (
	"sync"
	"time"

	"github.com/ilyalavrinov/covidboard/internal/dashboard"
)

// session is the in-memory state of one chat.
type session struct {
	dash *dashboard.Dashboard

	mu       sync.Mutex
	watchGen uint64
	interval time.Duration
}

// startWatch invalidates any running watch and returns the token of the new one.
func (s *session) startWatch(interval time.Duration) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watchGen++
	s.interval = interval
	return s.watchGen
}

func (s *session) stopWatch() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	wasOn := s.interval != 0
	s.watchGen++
	s.interval = 0
	return wasOn
}

func (s *session) watching(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.watchGen == gen && s.interval != 0
}

func (s *session) watchInterval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

type sessions struct {
	loader dashboard.RegionLoader

	mu     sync.Mutex
	byChat map[int64]*session
}

func newSessions(loader dashboard.RegionLoader) *sessions {
	return &sessions{loader: loader, byChat: make(map[int64]*session)}
}

func (s *sessions) get(chatID int64) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, found := s.byChat[chatID]; found {
		return sess
	}
	sess := &session{dash: dashboard.New(s.loader)}
	s.byChat[chatID] = sess
	return sess
}

func (s *sessions) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byChat)
}
