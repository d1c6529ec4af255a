// Package domain defines the business logic for the signup service.
package domain

import (
	"context"
	"errors"
)

var (
	// ErrActivityNotFound is returned when an activity name is not in the registry.
	ErrActivityNotFound = errors.New("activity not found")
	// ErrAlreadyRegistered is returned when the email is already on the activity roster.
	ErrAlreadyRegistered = errors.New("email already registered for activity")
	// ErrNotRegistered is returned when the email is not on the activity roster.
	ErrNotRegistered = errors.New("email not registered for activity")
)

// Activity describes one club or team offering in the directory.
// MaxParticipants is informational capacity only; signup does not enforce it.
type Activity struct {
	Name            string
	Description     string
	Schedule        string
	MaxParticipants int
	Participants    []string
}

// Registered reports whether the email is on the roster.
func (a Activity) Registered(email string) bool {
	for _, participant := range a.Participants {
		if participant == email {
			return true
		}
	}
	return false
}

// Registry captures the roster operations backed by either the in-memory
// store or Postgres. An email appears at most once per activity, but the
// same email may be registered across any number of activities.
type Registry interface {
	List(ctx context.Context) (map[string]Activity, error)
	Signup(ctx context.Context, activity, email string) error
	Unregister(ctx context.Context, activity, email string) error
}
