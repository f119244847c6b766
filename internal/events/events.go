// Package events carries change notifications out of the write path.
// "changing" fires before commit and lets subscribers veto the write;
// "changed" fires after commit and is informational only.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"catalogd/internal/models"
)

// Phase says where in the write the notification fires.
type Phase string

const (
	// PhaseChanging fires before commit; a subscriber error cancels the write.
	PhaseChanging Phase = "changing"
	// PhaseChanged fires after a successful commit.
	PhaseChanged Phase = "changed"
)

// EntryState classifies one entity inside a change set.
type EntryState string

const (
	StateAdded    EntryState = "added"
	StateModified EntryState = "modified"
	StateDeleted  EntryState = "deleted"
)

// Entry is one entity touched by a write.
type Entry struct {
	Kind  models.EntityKind `json:"kind"`
	ID    uuid.UUID         `json:"id"`
	State EntryState        `json:"state"`
}

// Event is a change notification covering one committed (or about to be
// committed) batch.
type Event struct {
	Phase   Phase     `json:"phase"`
	Entries []Entry   `json:"entries"`
	At      time.Time `json:"at"`
}

// Publisher delivers events to subscribers. For PhaseChanging a non-nil
// error vetoes the write; for PhaseChanged errors are logged and ignored.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Fanout delivers an event to every subscriber in order, stopping at the
// first error.
type Fanout []Publisher

// Publish implements Publisher.
func (f Fanout) Publish(ctx context.Context, ev Event) error {
	for _, p := range f {
		if err := p.Publish(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}

// Func adapts a function to the Publisher interface.
type Func func(ctx context.Context, ev Event) error

// Publish implements Publisher.
func (f Func) Publish(ctx context.Context, ev Event) error { return f(ctx, ev) }
