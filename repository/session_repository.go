package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"umbrella-customizer/logger"
)

// ErrSessionNotFound is returned when no session has the requested id
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository keeps sessions in memory. Nothing outlives the process.
type SessionRepository[S Session] struct {
	mu       sync.RWMutex
	sessions map[string]S
	log      *logger.Logger
}

// Ensure SessionRepository implements SessionRepositoryInterface
var _ SessionRepositoryInterface[Session] = (*SessionRepository[Session])(nil)

// NewSessionRepository creates an empty SessionRepository
func NewSessionRepository[S Session](log *logger.Logger) *SessionRepository[S] {
	if log == nil {
		log = logger.Nop()
	}
	return &SessionRepository[S]{
		sessions: make(map[string]S),
		log:      log,
	}
}

// Put stores session under its id
func (r *SessionRepository[S]) Put(ctx context.Context, session S) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id := session.ID()
	if id == "" {
		return fmt.Errorf("session id cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sessions[id]; exists {
		return fmt.Errorf("session %s already exists", id)
	}
	r.sessions[id] = session
	return nil
}

// Get returns the session with id
func (r *SessionRepository[S]) Get(ctx context.Context, id string) (S, error) {
	var zero S
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	r.mu.RLock()
	session, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return session, nil
}

// Delete closes and removes the session with id
func (r *SessionRepository[S]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	session, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	session.Close()
	return nil
}

// Count returns the number of live sessions
func (r *SessionRepository[S]) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep closes and removes sessions idle since before cutoff
func (r *SessionRepository[S]) Sweep(cutoff time.Time) int {
	r.mu.Lock()
	var expired []S
	for id, session := range r.sessions {
		if session.LastActive().Before(cutoff) {
			expired = append(expired, session)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, session := range expired {
		session.Close()
	}
	if len(expired) > 0 {
		r.log.Info("expired idle sessions", "count", len(expired))
	}
	return len(expired)
}

// StartJanitor sweeps sessions idle longer than ttl every interval until ctx is done
func (r *SessionRepository[S]) StartJanitor(ctx context.Context, ttl, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				r.Sweep(now.Add(-ttl))
			}
		}
	}()
}

// CloseAll closes and removes every session
func (r *SessionRepository[S]) CloseAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]S)
	r.mu.Unlock()

	for _, session := range sessions {
		session.Close()
	}
}
