package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"

	"github.com/Siddarth2230/kiters/internal/models"
	"github.com/Siddarth2230/kiters/pkg/metrics"
)

var (
	ErrNotFound  = errors.New("external id not found")
	ErrDuplicate = errors.New("external id already exists")
)

// uniqueViolation is the Postgres SQLSTATE for unique_violation.
const uniqueViolation = "23505"

const schema = `
CREATE TABLE IF NOT EXISTS external_ids (
    id         BIGSERIAL PRIMARY KEY,
    eid        TEXT        NOT NULL UNIQUE,
    prefix     TEXT        NOT NULL,
    uuid       UUID        NOT NULL,
    created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS external_ids_prefix_created_idx
    ON external_ids (prefix, created_at DESC);
`

type ExternalIDRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewExternalIDRepository(db *sql.DB, logger *slog.Logger) *ExternalIDRepository {
	return &ExternalIDRepository{db: db, logger: logger}
}

// EnsureSchema creates the external_ids table if it does not exist.
func (r *ExternalIDRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func observe(op string, start time.Time) {
	metrics.DatabaseQueryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (r *ExternalIDRepository) Save(ctx context.Context, rec *models.ExternalIDRecord) error {
	defer observe("save", time.Now())

	query := `
        INSERT INTO external_ids (eid, prefix, uuid, created_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `
	row := r.db.QueryRowContext(ctx, query, rec.EID, rec.Prefix, rec.UUID, rec.CreatedAt)
	if err := row.Scan(&rec.ID); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", ErrDuplicate, rec.EID)
		}
		r.logger.ErrorContext(ctx, "save external id", "eid", rec.EID, "error", err)
		return err
	}
	return nil
}

func (r *ExternalIDRepository) FindByEID(ctx context.Context, eid string) (*models.ExternalIDRecord, error) {
	defer observe("find", time.Now())

	query := `
        SELECT id, eid, prefix, uuid, created_at
        FROM external_ids
        WHERE eid = $1
	`
	var rec models.ExternalIDRecord
	row := r.db.QueryRowContext(ctx, query, eid)
	if err := row.Scan(&rec.ID, &rec.EID, &rec.Prefix, &rec.UUID, &rec.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.ErrorContext(ctx, "find external id", "eid", eid, "error", err)
		return nil, err
	}
	return &rec, nil
}

func (r *ExternalIDRepository) ExistsByEID(ctx context.Context, eid string) (bool, error) {
	defer observe("exists", time.Now())

	query := `SELECT EXISTS(SELECT 1 FROM external_ids WHERE eid = $1)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, eid).Scan(&exists); err != nil {
		r.logger.ErrorContext(ctx, "check external id", "eid", eid, "error", err)
		return false, err
	}
	return exists, nil
}

// ListByPrefix returns the newest records for prefix, at most limit.
func (r *ExternalIDRepository) ListByPrefix(ctx context.Context, prefix string, limit int) ([]models.ExternalIDRecord, error) {
	defer observe("list", time.Now())

	query := `
        SELECT id, eid, prefix, uuid, created_at
        FROM external_ids
        WHERE prefix = $1
        ORDER BY created_at DESC, id DESC
        LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, prefix, limit)
	if err != nil {
		r.logger.ErrorContext(ctx, "list external ids", "prefix", prefix, "error", err)
		return nil, err
	}
	defer rows.Close()

	var out []models.ExternalIDRecord
	for rows.Next() {
		var rec models.ExternalIDRecord
		if err := rows.Scan(&rec.ID, &rec.EID, &rec.Prefix, &rec.UUID, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *ExternalIDRepository) DeleteByEID(ctx context.Context, eid string) error {
	defer observe("delete", time.Now())

	result, err := r.db.ExecContext(ctx, `DELETE FROM external_ids WHERE eid = $1`, eid)
	if err != nil {
		r.logger.ErrorContext(ctx, "delete external id", "eid", eid, "error", err)
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}

	r.logger.InfoContext(ctx, "deleted external id", "eid", eid)
	return nil
}
