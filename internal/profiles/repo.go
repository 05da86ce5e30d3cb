package profiles

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/mkovacevic/equilog/internal/telemetry/tracing"
)

var ErrProfileNotFound = errors.New("profile not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, profile Profile) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profiles.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", profile.ID))

	if profile.ID == "" {
		return nil, errors.New("profile id empty")
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now()
	}

	if _, err := r.db.Exec(
		ctx,
		`INSERT INTO profile (id, name, created_at) VALUES ($1, $2, $3);`,
		profile.ID, profile.Name, profile.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &profile, nil
}

// CreateProfile makes the initial profile row for a fresh account.
func (r *Repo) CreateProfile(ctx context.Context, userID, name string) error {
	_, err := r.Add(ctx, Profile{ID: userID, Name: name})
	return err
}

func (r *Repo) Get(ctx context.Context, id string) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profiles.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, name, created_at FROM profile WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, ErrProfileNotFound
	}

	var profile Profile
	if err := rows.Scan(&profile.ID, &profile.Name, &profile.CreatedAt); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *Repo) UpdateName(ctx context.Context, id, name string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profiles.updatename")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE profile SET name = $1 WHERE id = $2;`,
		name, id,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}

	return nil
}
