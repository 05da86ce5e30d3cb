package activities

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
	"github.com/mkovacevic/equilog/pkg"
)

var (
	ErrActivityNotFound = errors.New("activity not found")

	// ErrHorseGone is returned when an insert references a horse that was
	// deleted in the meantime, surfaced as a foreign key violation.
	ErrHorseGone = errors.New("horse gone")
)

// ActivityParams filters activity queries. Empty string / nil fields are
// ignored. Date fields use DateLayout strings.
type ActivityParams struct {
	HorseID string
	Type    string
	Date    string
	From    string
	To      string
	Planned *bool
}

type ListParams struct {
	ActivityParams
	Page int
	Size int
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, activity Activity) (_ *Activity, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activities.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if activity.ID == "" {
		activity.ID = uuid.NewString()
	}
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now()
	}

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO activity
				(id, horse_id, date, type, duration, level, feeling, notes, is_planned, created_by, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING id;`,
		activity.ID, activity.HorseID, activity.Date, activity.Type,
		activity.Duration, activity.Level, activity.Feeling, activity.Notes,
		activity.IsPlanned, activity.CreatedBy, activity.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return nil, ErrHorseGone
		}
		return nil, err
	}

	if !rows.Next() {
		return nil, errors.New("unexpected error [no rows next]")
	}

	var id string
	if err := rows.Scan(&id); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	span.SetAttributes(attribute.String("activity.id", id))

	activity.ID = id
	return &activity, nil
}

func (r *Repo) Update(ctx context.Context, activity *Activity) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activities.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", activity.ID))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE activity
			SET date = $1, type = $2, duration = $3, level = $4, feeling = $5, notes = $6, is_planned = $7
			WHERE id = $8;`,
		activity.Date, activity.Type, activity.Duration, activity.Level,
		activity.Feeling, activity.Notes, activity.IsPlanned, activity.ID,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrActivityNotFound
	}

	return nil
}

func (r *Repo) Delete(ctx context.Context, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activities.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM activity WHERE id = $1`,
		id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrActivityNotFound
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, id string) (_ *Activity, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activities.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, horse_id, date, type, duration, level, feeling, notes, is_planned, created_by, created_at
			FROM activity
			WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	acts, err := r.rows2activities(rows)
	if err != nil {
		return nil, err
	}

	if len(acts) != 1 {
		return nil, ErrActivityNotFound
	}

	return &acts[0], nil
}

// ListAll returns all matching activities, most recent date first. The
// overview endpoints call this with just the horse ID set and feed the
// result to the aggregation engines.
func (r *Repo) ListAll(ctx context.Context, params ActivityParams) (_ []Activity, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activities.listall")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("horse_id", params.HorseID))
	if params.Planned != nil {
		span.SetAttributes(attribute.Bool("planned", *params.Planned))
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT id, horse_id, date, type, duration, level, feeling, notes, is_planned, created_by, created_at
			FROM activity
				WHERE ($1::uuid IS NULL OR horse_id = $1)
				AND ($2::text IS NULL OR type = $2)
				AND ($3::date IS NULL OR date = $3)
				AND ($4::date IS NULL OR date >= $4)
				AND ($5::date IS NULL OR date <= $5)
				AND ($6::boolean IS NULL OR is_planned = $6)
			ORDER BY date DESC, created_at DESC;`,
		nullable(params.HorseID), nullable(params.Type), nullable(params.Date),
		nullable(params.From), nullable(params.To),
		params.Planned,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	acts, err := r.rows2activities(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2activities: %w", err)
	}
	return acts, nil
}

// List is like ListAll but returns the requested page plus the total count.
func (r *Repo) List(ctx context.Context, params ListParams) (_ []Activity, total int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activities.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("page", params.Page))
	span.SetAttributes(attribute.Int("size", params.Size))
	span.SetAttributes(attribute.String("horse_id", params.HorseID))

	if params.Page < 1 {
		return nil, -1, errors.New("page must be greater than 0")
	}
	if params.Size < 1 {
		return nil, -1, errors.New("size must be greater than 0")
	}

	countAll, err := r.Count(ctx, params.ActivityParams)
	if err != nil {
		return nil, -1, err
	}

	limit := params.Size
	offset := (params.Page - 1) * params.Size
	if countAll <= limit {
		limit = countAll
		offset = 0
	}
	if countAll-offset < limit {
		offset = countAll - limit
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT id, horse_id, date, type, duration, level, feeling, notes, is_planned, created_by, created_at
			FROM activity
				WHERE ($1::uuid IS NULL OR horse_id = $1)
				AND ($2::text IS NULL OR type = $2)
				AND ($3::date IS NULL OR date >= $3)
				AND ($4::date IS NULL OR date <= $4)
				AND ($5::boolean IS NULL OR is_planned = $5)
			ORDER BY date DESC, created_at DESC
			LIMIT $6
			OFFSET $7;`,
		nullable(params.HorseID), nullable(params.Type),
		nullable(params.From), nullable(params.To),
		params.Planned,
		limit, offset,
	)
	if err != nil {
		return nil, -1, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, -1, err
	}

	acts, err := r.rows2activities(rows)
	if err != nil {
		return nil, -1, err
	}
	return acts, countAll, nil
}

func (r *Repo) Count(ctx context.Context, params ActivityParams) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activities.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `
		SELECT COUNT(*) FROM activity
			WHERE ($1::uuid IS NULL OR horse_id = $1)
			AND ($2::text IS NULL OR type = $2)
			AND ($3::date IS NULL OR date = $3)
			AND ($4::date IS NULL OR date >= $4)
			AND ($5::date IS NULL OR date <= $5)
			AND ($6::boolean IS NULL OR is_planned = $6);
	`,
		nullable(params.HorseID), nullable(params.Type), nullable(params.Date),
		nullable(params.From), nullable(params.To),
		params.Planned,
	)
	if err != nil {
		return -1, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return -1, err
	}

	if rows.Next() {
		var count int
		if err := rows.Scan(&count); err == nil {
			return count, nil
		}
	}

	return -1, errors.New("unexpected error, failed to get activities count")
}

func (r *Repo) rows2activities(rows pgx.Rows) ([]Activity, error) {
	var acts []Activity
	for rows.Next() {
		var a Activity
		var date time.Time
		if err := rows.Scan(
			&a.ID, &a.HorseID, &date, &a.Type,
			&a.Duration, &a.Level, &a.Feeling, &a.Notes,
			&a.IsPlanned, &a.CreatedBy, &a.CreatedAt,
		); err != nil {
			return nil, err
		}
		a.Date = date.Format(DateLayout)
		acts = append(acts, a)
	}

	if acts == nil {
		acts = make([]Activity, 0)
	}

	return acts, nil
}

// nullable maps empty strings to NULL so the optional query filters above
// can be skipped.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
