package bot

import (
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"quizbot/internal/quiz"
)

type State int

const (
	StateIdle State = iota
	StateWaitingForFile
	StateExtracting
	StateCollectingForwards
)

// batchTTL bounds how long a forwarded-quiz batch is kept before a new
// forward starts a fresh one.
const batchTTL = time.Hour

type forwardBatch struct {
	polls     []tgbotapi.Poll
	expiresAt time.Time
}

// sessions holds per-user conversational state: the state machine, the
// forwarded-quiz batch, the last extraction result, and the upload
// rate-limit bookkeeping. All of it is process-lifetime only.
type sessions struct {
	mu         sync.Mutex
	states     map[int64]State
	batches    map[int64]*forwardBatch
	lastResult map[int64]quiz.Result
	lastFile   map[int64]time.Time
}

func newSessions() *sessions {
	return &sessions{
		states:     make(map[int64]State),
		batches:    make(map[int64]*forwardBatch),
		lastResult: make(map[int64]quiz.Result),
		lastFile:   make(map[int64]time.Time),
	}
}

func (s *sessions) State(userID int64) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[userID]
}

func (s *sessions) SetState(userID int64, st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[userID] = st
}

// BeginCollecting resets the user's forward batch and enters collection
// state.
func (s *sessions) BeginCollecting(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[userID] = StateCollectingForwards
	s.batches[userID] = &forwardBatch{expiresAt: time.Now().Add(batchTTL)}
}

// AddForward appends a forwarded poll to the user's batch, starting a new
// batch when the old one expired. Returns the batch size.
func (s *sessions) AddForward(userID int64, p tgbotapi.Poll) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.batches[userID]
	if b == nil || time.Now().After(b.expiresAt) {
		b = &forwardBatch{expiresAt: time.Now().Add(batchTTL)}
		s.batches[userID] = b
	}
	b.polls = append(b.polls, p)
	return len(b.polls)
}

// TakeBatch removes and returns the user's collected polls.
func (s *sessions) TakeBatch(userID int64) []tgbotapi.Poll {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.batches[userID]
	delete(s.batches, userID)
	if b == nil || time.Now().After(b.expiresAt) {
		return nil
	}
	return b.polls
}

func (s *sessions) DropBatch(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.batches, userID)
}

func (s *sessions) SetResult(userID int64, r quiz.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastResult[userID] = r
}

func (s *sessions) Result(userID int64) (quiz.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.lastResult[userID]
	return r, ok
}

func (s *sessions) DropResult(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lastResult, userID)
}

// AllowFile enforces the per-user minimum interval between file uploads.
// When denied it reports how long the user still has to wait.
func (s *sessions) AllowFile(userID int64, interval time.Duration) (bool, time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	if last, ok := s.lastFile[userID]; ok {
		if wait := interval - now.Sub(last); wait > 0 {
			return false, wait
		}
	}
	s.lastFile[userID] = now
	return true, 0
}
