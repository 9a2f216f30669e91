package repository

import (
	"context"
	"time"
)

// Session is anything the session repository can hold
type Session interface {
	ID() string
	LastActive() time.Time
	Close()
}

// SessionRepositoryInterface defines the contract for session storage operations
type SessionRepositoryInterface[S Session] interface {
	Put(ctx context.Context, session S) error
	Get(ctx context.Context, id string) (S, error)
	Delete(ctx context.Context, id string) error
	Count() int
}
