package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// Clock returns the current time. Services take one so tests can pin "now".
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now()
}

// now truncates to microseconds so values survive a Postgres round trip.
func (c Clock) now() time.Time {
	if c == nil {
		return systemClock().UTC().Truncate(time.Microsecond)
	}
	return c().UTC().Truncate(time.Microsecond)
}

func mapRepoError(err error, resource string, id string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFound(resource, map[string]any{"id": id})
	case errors.Is(err, repository.ErrStaleVersion):
		return apperrors.NewConflict(resource+" was modified by another request", map[string]any{"id": id})
	default:
		return apperrors.MapError(err)
	}
}

func identityActor(actor domain.Identity) events.Actor {
	id := actor.ID
	return events.Actor{UserID: &id, Name: actor.Name, Role: actor.Role}
}

func publishEvent(ctx context.Context, dispatcher events.Dispatcher, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	// Handlers log their own failures; a notification problem must not fail the request.
	_ = dispatcher.Publish(ctx, event)
}

func recordHistory(ctx context.Context, repo repository.TicketHistoryRepository, entry *domain.TicketHistory) error {
	if repo == nil {
		return nil
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	return repo.Create(ctx, entry)
}

func withinTx(ctx context.Context, tx repository.Transactor, fn func(ctx context.Context) error) error {
	if tx == nil {
		return fn(ctx)
	}
	return tx.WithinTx(ctx, fn)
}

func statusPtr(s domain.TicketStatus) *domain.TicketStatus {
	return &s
}
