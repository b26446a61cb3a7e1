package app

import (
	"sync"
	"time"

	"quiz-assessment-service/internal/domain"
)

// LeaderboardHub fans out leaderboard snapshots to live subscribers per quiz.
// Each subscriber holds at most one pending snapshot: the newest.
type LeaderboardHub struct {
	mu          sync.Mutex
	subscribers map[int64]map[*subscriber]struct{}
	latest      map[int64]time.Time
}

type subscriber struct {
	ch        chan domain.Leaderboard
	delivered bool
}

func NewLeaderboardHub() *LeaderboardHub {
	return &LeaderboardHub{
		subscribers: make(map[int64]map[*subscriber]struct{}),
		latest:      make(map[int64]time.Time),
	}
}

// Subscribe registers a listener for quizID and then primes it with current().
// The primer is skipped when a Publish reached the listener first, since that
// snapshot was read after registration too. The caller must invoke cancel.
func (h *LeaderboardHub) Subscribe(quizID int64, current func() (domain.Leaderboard, error)) (<-chan domain.Leaderboard, func(), error) {
	sub := &subscriber{ch: make(chan domain.Leaderboard, 1)}

	h.mu.Lock()
	subs, ok := h.subscribers[quizID]
	if !ok {
		subs = make(map[*subscriber]struct{})
		h.subscribers[quizID] = subs
	}
	subs[sub] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		subs, ok := h.subscribers[quizID]
		if !ok {
			return
		}
		if _, ok := subs[sub]; ok {
			delete(subs, sub)
			close(sub.ch)
		}
		if len(subs) == 0 {
			delete(h.subscribers, quizID)
			delete(h.latest, quizID)
		}
	}

	initial, err := current()
	if err != nil {
		cancel()
		return nil, nil, err
	}

	h.mu.Lock()
	if _, ok := h.subscribers[quizID][sub]; ok && !sub.delivered {
		sub.ch <- initial
		sub.delivered = true
	}
	h.mu.Unlock()
	return sub.ch, cancel, nil
}

// HasSubscribers reports whether anyone is watching quizID.
func (h *LeaderboardHub) HasSubscribers(quizID int64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers[quizID]) > 0
}

// Publish delivers lb to every subscriber of its quiz. A snapshot older than
// one already published is dropped. A subscriber that has not consumed its
// pending snapshot gets it replaced instead of blocking the publisher.
func (h *LeaderboardHub) Publish(lb domain.Leaderboard) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs := h.subscribers[lb.QuizID]
	if len(subs) == 0 {
		return
	}
	if lb.UpdatedAt.Before(h.latest[lb.QuizID]) {
		return
	}
	h.latest[lb.QuizID] = lb.UpdatedAt

	for sub := range subs {
		sub.delivered = true
		select {
		case sub.ch <- lb:
		default:
			select {
			case <-sub.ch:
			default:
			}
			sub.ch <- lb
		}
	}
}
