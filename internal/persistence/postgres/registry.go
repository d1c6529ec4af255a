// Package postgres provides a Postgres-backed activity registry.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/signup/internal/domain"
	"example.com/signup/internal/observability"
)

// Registry persists activities and rosters in Postgres. Uniqueness of an
// email per activity is enforced by the participants primary key, so the
// duplicate check holds under concurrent writers.
type Registry struct {
	pool *pgxpool.Pool
}

// NewRegistry constructs a Registry.
func NewRegistry(pool *pgxpool.Pool) *Registry {
	return &Registry{pool: pool}
}

// Seed inserts the provided activities and their initial rosters if they are
// not already present. Safe to run on every startup.
func (r *Registry) Seed(ctx context.Context, activities []domain.Activity) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const insertActivity = `INSERT INTO activities (name, description, schedule, max_participants)
        VALUES ($1,$2,$3,$4) ON CONFLICT (name) DO NOTHING`
	const insertParticipant = `INSERT INTO participants (activity_name, email)
        VALUES ($1,$2) ON CONFLICT DO NOTHING`

	for _, activity := range activities {
		if _, err := tx.Exec(ctx, insertActivity, activity.Name, activity.Description, activity.Schedule, activity.MaxParticipants); err != nil {
			return err
		}
		for _, email := range activity.Participants {
			if _, err := tx.Exec(ctx, insertParticipant, activity.Name, email); err != nil {
				return err
			}
		}
	}

	return tx.Commit(ctx)
}

// List returns the full directory keyed by activity name.
func (r *Registry) List(ctx context.Context) (map[string]domain.Activity, error) {
	const query = `SELECT a.name, a.description, a.schedule, a.max_participants, p.email
        FROM activities a
        LEFT JOIN participants p ON p.activity_name = a.name
        ORDER BY a.name, p.signed_up_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]domain.Activity)
	for rows.Next() {
		var (
			activity domain.Activity
			email    *string
		)
		if err := rows.Scan(&activity.Name, &activity.Description, &activity.Schedule, &activity.MaxParticipants, &email); err != nil {
			return nil, err
		}

		existing, ok := out[activity.Name]
		if !ok {
			activity.Participants = []string{}
			existing = activity
		}
		if email != nil {
			existing.Participants = append(existing.Participants, *email)
		}
		out[existing.Name] = existing
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

// Signup adds the email to the activity roster.
func (r *Registry) Signup(ctx context.Context, name, email string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := activityExists(ctx, tx, name); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx,
		`INSERT INTO participants (activity_name, email) VALUES ($1,$2) ON CONFLICT DO NOTHING`,
		name, email)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyRegistered
	}

	size, err := rosterSize(ctx, tx, name)
	if err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	observability.SetRosterSize(name, size)
	return nil
}

// Unregister removes the email from the activity roster.
func (r *Registry) Unregister(ctx context.Context, name, email string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := activityExists(ctx, tx, name); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx,
		`DELETE FROM participants WHERE activity_name=$1 AND email=$2`,
		name, email)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotRegistered
	}

	size, err := rosterSize(ctx, tx, name)
	if err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	observability.SetRosterSize(name, size)
	return nil
}

func activityExists(ctx context.Context, tx pgx.Tx, name string) error {
	var found string
	err := tx.QueryRow(ctx, `SELECT name FROM activities WHERE name=$1`, name).Scan(&found)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrActivityNotFound
	}
	return err
}

func rosterSize(ctx context.Context, tx pgx.Tx, name string) (int, error) {
	var size int
	err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM participants WHERE activity_name=$1`, name).Scan(&size)
	return size, err
}
