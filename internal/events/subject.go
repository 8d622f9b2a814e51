// Package events implements the in-process publish/subscribe fabric between
// the chat service and its consumers.
package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"groupchat/backend/internal/models"
)

var ErrObserverPanic = errors.New("observer panicked")

// Observer receives every event published on a Subject.
type Observer interface {
	Handle(ctx context.Context, evt models.Event) error
}

// Subject delivers events synchronously, in attachment order. A failing or
// panicking observer is logged and skipped; the others still receive the event.
type Subject struct {
	mu        sync.RWMutex
	observers []Observer
	log       *slog.Logger
}

func NewSubject(log *slog.Logger) *Subject {
	return &Subject{log: log}
}

// Attach registers o. Attaching the same observer twice has no effect.
// Observers are compared by identity, so pointer receivers are expected.
func (s *Subject) Attach(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.observers {
		if existing == o {
			return
		}
	}
	s.observers = append(s.observers, o)
}

func (s *Subject) Detach(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.observers {
		if existing == o {
			s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
			return
		}
	}
}

func (s *Subject) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.observers)
}

// Notify delivers evt to a snapshot of the attached observers. Observers
// attached or detached during delivery take effect on the next call.
func (s *Subject) Notify(ctx context.Context, evt models.Event) {
	s.mu.RLock()
	observers := make([]Observer, len(s.observers))
	copy(observers, s.observers)
	s.mu.RUnlock()

	for _, o := range observers {
		if err := s.deliver(ctx, o, evt); err != nil {
			s.log.Error("Observer failed",
				"observer", fmt.Sprintf("%T", o),
				"event", evt.Type(),
				"error", err)
		}
	}
}

func (s *Subject) deliver(ctx context.Context, o Observer, evt models.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrObserverPanic, r)
		}
	}()
	return o.Handle(ctx, evt)
}
