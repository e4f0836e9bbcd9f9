// Package notify delivers user-facing progression messages. The Feed is
// the toast surface: a bounded, most-recent-first list the UI polls and
// clears. Additional sinks (Telegram, logs) can be fanned out to.
package notify

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"pegasis/internal/domain"
)

const feedCapacity = 50

// Toast is one displayed notification.
type Toast struct {
	Level   domain.NotifyLevel `json:"level"`
	Message string             `json:"message"`
	Date    time.Time          `json:"date"`
}

// Feed is an in-memory notification feed for one session.
type Feed struct {
	mu     sync.Mutex
	toasts []Toast
	log    zerolog.Logger
	sinks  []domain.Notifier
}

// NewFeed creates a feed that also forwards every message to the given
// sinks. Sink failures are invisible to the engine.
func NewFeed(log zerolog.Logger, sinks ...domain.Notifier) *Feed {
	return &Feed{log: log, sinks: sinks}
}

// Notify records a toast and forwards it to the sinks.
func (f *Feed) Notify(level domain.NotifyLevel, message string) {
	f.mu.Lock()
	f.toasts = append(f.toasts, Toast{Level: level, Message: message, Date: time.Now()})
	if len(f.toasts) > feedCapacity {
		f.toasts = f.toasts[len(f.toasts)-feedCapacity:]
	}
	f.mu.Unlock()

	f.log.Info().Str("level", string(level)).Msg(message)
	for _, sink := range f.sinks {
		sink.Notify(level, message)
	}
}

// Drain returns the pending toasts, newest last, and clears the feed.
func (f *Feed) Drain() []Toast {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.toasts
	f.toasts = nil
	return out
}

// Registry hands out one feed per user so the session manager and the
// HTTP layer share the same surface.
type Registry struct {
	mu    sync.Mutex
	feeds map[string]*Feed
	log   zerolog.Logger
	sinks []domain.Notifier
}

// NewRegistry creates a feed registry with shared sinks.
func NewRegistry(log zerolog.Logger, sinks ...domain.Notifier) *Registry {
	return &Registry{
		feeds: make(map[string]*Feed),
		log:   log,
		sinks: sinks,
	}
}

// Feed returns the user's feed, creating it on first use.
func (r *Registry) Feed(userID string) *Feed {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.feeds[userID]
	if !ok {
		f = NewFeed(r.log.With().Str("user", userID).Logger(), r.sinks...)
		r.feeds[userID] = f
	}
	return f
}
