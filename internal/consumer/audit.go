package consumer

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"example.com/signup/internal/events"
)

// AuditHandler logs every roster change and keeps a net participant delta
// per activity, exposed for inspection.
type AuditHandler struct {
	logger *zap.Logger

	mu      sync.Mutex
	tallies map[string]int
}

// NewAuditHandler constructs an AuditHandler.
func NewAuditHandler(logger *zap.Logger) *AuditHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditHandler{logger: logger, tallies: make(map[string]int)}
}

// Handle implements Handler.
func (h *AuditHandler) Handle(_ context.Context, msg Message) error {
	var delta int
	switch msg.EventType {
	case events.TypeSignup:
		delta = 1
	case events.TypeUnregister:
		delta = -1
	default:
		return fmt.Errorf("unknown event type: %s", msg.EventType)
	}

	h.mu.Lock()
	h.tallies[msg.Event.Activity] += delta
	h.mu.Unlock()

	h.logger.Info("roster change",
		zap.String("event_type", msg.EventType),
		zap.String("activity", msg.Event.Activity),
		zap.String("email", msg.Event.Email),
		zap.Time("occurred_at", msg.Event.OccurredAt))
	return nil
}

// Tally returns the net participant delta observed for the activity.
func (h *AuditHandler) Tally(activity string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.tallies[activity]
}
