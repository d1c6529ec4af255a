package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"example.com/signup/internal/events"
	"example.com/signup/internal/observability"
)

// Service orchestrates roster operations and emits roster events after
// successful mutations. Event delivery is best-effort: a publish failure is
// logged but never fails the request.
type Service struct {
	registry Registry
	events   events.Publisher
	logger   *zap.Logger
}

// NewService constructs a Service.
func NewService(registry Registry, publisher events.Publisher, logger *zap.Logger) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{registry: registry, events: publisher, logger: logger}
}

// ListActivities returns the full directory keyed by activity name.
func (s *Service) ListActivities(ctx context.Context) (map[string]Activity, error) {
	return s.registry.List(ctx)
}

// Signup adds the email to the activity roster and returns the confirmation
// message shown to the caller.
func (s *Service) Signup(ctx context.Context, activity, email string) (string, error) {
	if err := s.registry.Signup(ctx, activity, email); err != nil {
		observability.RecordRejection("signup", rejectionReason(err))
		return "", err
	}

	observability.RecordSignup(activity)
	s.emit(ctx, events.TypeSignup, activity, email)
	return fmt.Sprintf("Signed up %s for %s", email, activity), nil
}

// Unregister removes the email from the activity roster and returns the
// confirmation message shown to the caller.
func (s *Service) Unregister(ctx context.Context, activity, email string) (string, error) {
	if err := s.registry.Unregister(ctx, activity, email); err != nil {
		observability.RecordRejection("unregister", rejectionReason(err))
		return "", err
	}

	observability.RecordUnregistration(activity)
	s.emit(ctx, events.TypeUnregister, activity, email)
	return fmt.Sprintf("Unregistered %s from %s", email, activity), nil
}

func (s *Service) emit(ctx context.Context, eventType, activity, email string) {
	event := events.RosterEvent{
		Type:       eventType,
		Activity:   activity,
		Email:      email,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("roster event not published",
			zap.String("event_type", eventType),
			zap.String("activity", activity),
			zap.Error(err))
	}
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrActivityNotFound):
		return "not_found"
	case errors.Is(err, ErrAlreadyRegistered):
		return "already_registered"
	case errors.Is(err, ErrNotRegistered):
		return "not_registered"
	default:
		return "error"
	}
}
