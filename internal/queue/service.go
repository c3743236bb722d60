package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/catalog"
	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/metrics"
	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/user"
)

var (
	ErrEntryNotFound           = errors.New("queue entry not found")
	ErrDuplicateActiveEntry    = errors.New("user already has an active queue entry")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrServiceInactive         = errors.New("service is not active")
	ErrUserInactive            = errors.New("user is not active")
	ErrValidationFailed        = errors.New("validation failed")
)

// EventPublisher pushes domain events to the reporting stream. Implementations
// live in internal/messaging.
type EventPublisher interface {
	SendMessage(ctx context.Context, value interface{}) error
}

type EnqueueRequest struct {
	UserID    int    `json:"userId" validate:"required"`
	ServiceID int    `json:"serviceId" validate:"required"`
	Priority  int    `json:"priority" validate:"min=0"`
	Notes     string `json:"notes"`
}

type Service interface {
	Enqueue(ctx context.Context, req EnqueueRequest) (*Entry, error)
	GetEntry(ctx context.Context, id int) (*Entry, error)
	Position(ctx context.Context, entryID int) (int, error)
	ListByService(ctx context.Context, serviceID int, activeOnly bool) ([]Entry, error)
	CallNext(ctx context.Context, serviceID int) (*Entry, error)
	StartServing(ctx context.Context, entryID int) (*Entry, error)
	Complete(ctx context.Context, entryID int) (*Entry, error)
	Cancel(ctx context.Context, entryID int) (*Entry, error)
	MarkNoShow(ctx context.Context, entryID int) (*Entry, error)
	ListHistory(ctx context.Context, serviceID, limit int) ([]History, error)
}

type service struct {
	repo      Repository
	users     user.Repository
	services  catalog.Repository
	metrics   *metrics.Metrics
	publisher EventPublisher
	logger    *slog.Logger
}

func NewService(repo Repository, users user.Repository, services catalog.Repository,
	m *metrics.Metrics, publisher EventPublisher, logger *slog.Logger) Service {
	return &service{
		repo:      repo,
		users:     users,
		services:  services,
		metrics:   m,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *service) Enqueue(ctx context.Context, req EnqueueRequest) (*Entry, error) {
	if req.UserID <= 0 || req.ServiceID <= 0 {
		return nil, ErrValidationFailed
	}

	u, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrUserInactive
	}

	svc, err := s.services.GetByID(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}
	if !svc.IsActive {
		return nil, ErrServiceInactive
	}

	// Advisory pre-check. The partial unique index is the real guarantee;
	// this keeps the common case cheap and the error message precise.
	if _, err := s.repo.ActiveByUser(ctx, req.UserID); err == nil {
		return nil, ErrDuplicateActiveEntry
	} else if !errors.Is(err, ErrEntryNotFound) {
		return nil, err
	}

	e := &Entry{
		UserID:    req.UserID,
		ServiceID: req.ServiceID,
		Priority:  req.Priority,
		Notes:     req.Notes,
	}
	if err := s.repo.Enqueue(ctx, e, svc.EstimatedTime); err != nil {
		return nil, err
	}

	s.metrics.RecordEnqueue(ctx)
	s.publish(ctx, "queue.entry.enqueued", e)

	s.logger.InfoContext(ctx, "entry enqueued",
		"entry_id", e.ID, "user_id", e.UserID, "service_id", e.ServiceID, "position", e.PositionNumber)
	return e, nil
}

func (s *service) GetEntry(ctx context.Context, id int) (*Entry, error) {
	if id <= 0 {
		return nil, ErrValidationFailed
	}
	return s.repo.GetByID(ctx, id)
}

// Position reports the live position: waiting entries ahead plus one. The
// persisted position_number is the number assigned at enqueue time and is
// never renumbered, so it drifts as earlier entries leave.
func (s *service) Position(ctx context.Context, entryID int) (int, error) {
	e, err := s.repo.GetByID(ctx, entryID)
	if err != nil {
		return 0, err
	}
	if e.Status != StatusWaiting {
		return 0, ErrValidationFailed
	}
	ahead, err := s.repo.CountWaitingAhead(ctx, e)
	if err != nil {
		return 0, err
	}
	return ahead + 1, nil
}

func (s *service) ListByService(ctx context.Context, serviceID int, activeOnly bool) ([]Entry, error) {
	if serviceID <= 0 {
		return nil, ErrValidationFailed
	}
	return s.repo.ListByService(ctx, serviceID, activeOnly)
}

// CallNext advances the queue: the highest-priority, lowest-position WAITING
// entry moves to BEING_SERVED.
func (s *service) CallNext(ctx context.Context, serviceID int) (*Entry, error) {
	if serviceID <= 0 {
		return nil, ErrValidationFailed
	}
	e, err := s.repo.NextWaiting(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	return s.serve(ctx, e)
}

func (s *service) StartServing(ctx context.Context, entryID int) (*Entry, error) {
	e, err := s.repo.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	return s.serve(ctx, e)
}

func (s *service) serve(ctx context.Context, e *Entry) (*Entry, error) {
	if !e.Status.CanTransitionTo(StatusBeingServed) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, e.Status, StatusBeingServed)
	}

	now := time.Now()
	e.Status = StatusBeingServed
	e.ServedAt = &now

	if err := s.repo.Transition(ctx, e, nil); err != nil {
		return nil, err
	}

	s.metrics.RecordServed(ctx)
	s.publish(ctx, "queue.entry.called", e)

	s.logger.InfoContext(ctx, "entry being served", "entry_id", e.ID, "service_id", e.ServiceID)
	return e, nil
}

func (s *service) Complete(ctx context.Context, entryID int) (*Entry, error) {
	e, err := s.finish(ctx, entryID, StatusCompleted)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordCompleted(ctx)
	s.publish(ctx, "queue.entry.completed", e)
	return e, nil
}

func (s *service) Cancel(ctx context.Context, entryID int) (*Entry, error) {
	e, err := s.finish(ctx, entryID, StatusCancelled)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordCancelled(ctx)
	s.publish(ctx, "queue.entry.cancelled", e)
	return e, nil
}

func (s *service) MarkNoShow(ctx context.Context, entryID int) (*Entry, error) {
	e, err := s.finish(ctx, entryID, StatusNoShow)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordNoShow(ctx)
	s.publish(ctx, "queue.entry.no_show", e)
	return e, nil
}

// finish moves an entry to a terminal state and writes the history snapshot
// in the same transaction as the entry update. The terminal row is retained;
// history is the reporting copy.
func (s *service) finish(ctx context.Context, entryID int, to Status) (*Entry, error) {
	e, err := s.repo.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if !e.Status.CanTransitionTo(to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, e.Status, to)
	}

	u, err := s.users.GetByID(ctx, e.UserID)
	if err != nil {
		return nil, err
	}
	svc, err := s.services.GetByID(ctx, e.ServiceID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	wait := int(now.Sub(e.CreatedAt).Minutes())

	e.Status = to
	e.CompletedAt = &now
	e.ActualWaitTime = &wait

	hist := &History{
		UserID:      e.UserID,
		ServiceID:   e.ServiceID,
		ServiceName: svc.Name,
		UserName:    u.Name,
		UserCode:    u.StudentCode,
		WaitTime:    &wait,
		Status:      string(to),
		CreatedAt:   e.CreatedAt,
		CompletedAt: now,
	}

	if err := s.repo.Transition(ctx, e, hist); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "entry finished",
		"entry_id", e.ID, "status", to, "wait_minutes", wait)
	return e, nil
}

func (s *service) ListHistory(ctx context.Context, serviceID, limit int) ([]History, error) {
	return s.repo.ListHistory(ctx, serviceID, limit)
}

// publish is best-effort: a broker outage must not fail the queue operation.
func (s *service) publish(ctx context.Context, eventType string, e *Entry) {
	if s.publisher == nil {
		return
	}

	event := QueueEvent{
		Type:           eventType,
		EntryID:        e.ID,
		UserID:         e.UserID,
		ServiceID:      e.ServiceID,
		Status:         e.Status,
		PositionNumber: e.PositionNumber,
		OccurredAt:     time.Now(),
	}

	if err := s.publisher.SendMessage(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish queue event", "type", eventType, "error", err)
		return
	}
	s.metrics.RecordEventPublished(ctx)
}
