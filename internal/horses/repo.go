package horses

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/mkovacevic/equilog/internal/telemetry/tracing"
)

var ErrHorseNotFound = errors.New("horse not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, horse Horse) (_ *Horse, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.horses.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if horse.ID == "" {
		horse.ID = uuid.NewString()
	}
	if horse.CreatedAt.IsZero() {
		horse.CreatedAt = time.Now()
	}

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO horse (id, owner_id, name, photo_url, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id;`,
		horse.ID, horse.OwnerID, horse.Name, horse.PhotoURL, horse.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, errors.New("unexpected error [no rows next]")
	}

	var id string
	if err := rows.Scan(&id); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	span.SetAttributes(attribute.String("horse.id", id))

	horse.ID = id
	return &horse, nil
}

func (r *Repo) Get(ctx context.Context, id string) (_ *Horse, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.horses.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, owner_id, name, photo_url, created_at FROM horse WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	found, err := rows2horses(rows)
	if err != nil {
		return nil, err
	}
	if len(found) != 1 {
		return nil, ErrHorseNotFound
	}

	return &found[0], nil
}

// List returns the owner's horses, oldest first, the order the stable screen
// shows them in.
func (r *Repo) List(ctx context.Context, ownerID string) (_ []Horse, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.horses.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("owner_id", ownerID))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, owner_id, name, photo_url, created_at
			FROM horse
			WHERE owner_id = $1
			ORDER BY created_at ASC;`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return rows2horses(rows)
}

func (r *Repo) Update(ctx context.Context, horse *Horse) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.horses.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", horse.ID))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE horse SET name = $1 WHERE id = $2;`,
		horse.Name, horse.ID,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrHorseNotFound
	}

	return nil
}

// SetPhotoURL stores the public photo path, nil clears it.
func (r *Repo) SetPhotoURL(ctx context.Context, id string, photoURL *string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.horses.setphotourl")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE horse SET photo_url = $1 WHERE id = $2;`,
		photoURL, id,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrHorseNotFound
	}

	return nil
}

// Delete removes the horse; its activities go with it via the FK cascade.
func (r *Repo) Delete(ctx context.Context, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.horses.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM horse WHERE id = $1`,
		id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrHorseNotFound
	}
	return nil
}

func (r *Repo) IsOwner(ctx context.Context, horseID, userID string) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.horses.isowner")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("horse_id", horseID))

	rows, err := r.db.Query(
		ctx,
		`SELECT COUNT(*) FROM horse WHERE id = $1 AND owner_id = $2;`,
		horseID, userID,
	)
	if err != nil {
		return false, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return false, err
	}

	if rows.Next() {
		var count int
		if err := rows.Scan(&count); err == nil {
			return count > 0, nil
		}
	}

	return false, errors.New("unexpected error, failed to check horse owner")
}

func rows2horses(rows pgx.Rows) ([]Horse, error) {
	found := []Horse{}
	for rows.Next() {
		var horse Horse
		if err := rows.Scan(
			&horse.ID, &horse.OwnerID, &horse.Name, &horse.PhotoURL, &horse.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		found = append(found, horse)
	}
	return found, nil
}
