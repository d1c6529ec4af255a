// Package memory provides the default in-memory activity registry.
package memory

import (
	"context"
	"sync"

	"example.com/signup/internal/domain"
	"example.com/signup/internal/observability"
)

// Registry stores activities in a map guarded by a single RWMutex. The
// locking policy is an explicit choice: all mutations serialize on one lock
// so two concurrent signups for the same email cannot both pass the
// duplicate check.
type Registry struct {
	mu         sync.RWMutex
	activities map[string]domain.Activity
}

// NewRegistry constructs a registry populated with the seed directory.
func NewRegistry() *Registry {
	return NewRegistryWith(domain.SeedActivities())
}

// NewRegistryWith constructs a registry from the provided activities.
// Tests use this to build isolated fixtures.
func NewRegistryWith(activities []domain.Activity) *Registry {
	r := &Registry{activities: make(map[string]domain.Activity, len(activities))}
	for _, activity := range activities {
		activity.Participants = append([]string(nil), activity.Participants...)
		r.activities[activity.Name] = activity
		observability.SetRosterSize(activity.Name, len(activity.Participants))
	}
	return r
}

// List returns a copy of the full directory keyed by activity name.
func (r *Registry) List(ctx context.Context) (map[string]domain.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]domain.Activity, len(r.activities))
	for name, activity := range r.activities {
		activity.Participants = append([]string(nil), activity.Participants...)
		out[name] = activity
	}
	return out, nil
}

// Signup adds the email to the activity roster.
func (r *Registry) Signup(ctx context.Context, name, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	activity, ok := r.activities[name]
	if !ok {
		return domain.ErrActivityNotFound
	}
	if activity.Registered(email) {
		return domain.ErrAlreadyRegistered
	}

	activity.Participants = append(append([]string(nil), activity.Participants...), email)
	r.activities[name] = activity
	observability.SetRosterSize(name, len(activity.Participants))
	return nil
}

// Unregister removes the email from the activity roster.
func (r *Registry) Unregister(ctx context.Context, name, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	activity, ok := r.activities[name]
	if !ok {
		return domain.ErrActivityNotFound
	}

	participants := make([]string, 0, len(activity.Participants))
	found := false
	for _, participant := range activity.Participants {
		if participant == email {
			found = true
			continue
		}
		participants = append(participants, participant)
	}
	if !found {
		return domain.ErrNotRegistered
	}

	activity.Participants = participants
	r.activities[name] = activity
	observability.SetRosterSize(name, len(activity.Participants))
	return nil
}
