package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/tooldeck/internal/domain/entity"
	"github.com/bnema/tooldeck/internal/domain/repository"
	"github.com/bnema/tooldeck/internal/logging"
)

const (
	getViewState = `SELECT fingerprint, name, page, scale, updated_at
FROM view_states WHERE fingerprint = ?`

	upsertViewState = `INSERT INTO view_states (fingerprint, name, page, scale, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(fingerprint) DO UPDATE SET
    name = excluded.name,
    page = excluded.page,
    scale = excluded.scale,
    updated_at = excluded.updated_at`

	deleteViewState = `DELETE FROM view_states WHERE fingerprint = ?`

	listRecentViewStates = `SELECT fingerprint, name, page, scale, updated_at
FROM view_states ORDER BY updated_at DESC, fingerprint LIMIT ?`
)

type viewStateRepo struct {
	db *sql.DB
}

// NewViewStateRepository creates a new SQLite-backed view state repository.
func NewViewStateRepository(db *sql.DB) repository.ViewStateRepository {
	return &viewStateRepo{db: db}
}

func (r *viewStateRepo) Get(ctx context.Context, fp entity.Fingerprint) (*entity.RememberedView, error) {
	logging.FromContext(ctx).Debug().Str("fingerprint", fp.Short()).Msg("getting view state")

	view, err := scanViewState(r.db.QueryRowContext(ctx, getViewState, string(fp)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get view state: %w", err)
	}
	return view, nil
}

func (r *viewStateRepo) Save(ctx context.Context, view *entity.RememberedView) error {
	logging.FromContext(ctx).Debug().
		Str("fingerprint", view.Fingerprint.Short()).
		Int("page", view.Page).
		Float64("scale", view.Scale).
		Msg("saving view state")

	updatedAt := view.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, upsertViewState,
		string(view.Fingerprint), view.Name, view.Page, view.Scale, updatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("save view state: %w", err)
	}
	return nil
}

func (r *viewStateRepo) Delete(ctx context.Context, fp entity.Fingerprint) error {
	if _, err := r.db.ExecContext(ctx, deleteViewState, string(fp)); err != nil {
		return fmt.Errorf("delete view state: %w", err)
	}
	return nil
}

func (r *viewStateRepo) Recent(ctx context.Context, limit int) (views []*entity.RememberedView, err error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, listRecentViewStates, limit)
	if err != nil {
		return nil, fmt.Errorf("list view states: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	for rows.Next() {
		view, err := scanViewState(rows)
		if err != nil {
			return nil, fmt.Errorf("scan view state: %w", err)
		}
		views = append(views, view)
	}
	return views, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanViewState(row rowScanner) (*entity.RememberedView, error) {
	var (
		fp        string
		view      entity.RememberedView
		updatedAt int64
	)
	if err := row.Scan(&fp, &view.Name, &view.Page, &view.Scale, &updatedAt); err != nil {
		return nil, err
	}
	view.Fingerprint = entity.Fingerprint(fp)
	view.UpdatedAt = time.UnixMilli(updatedAt)
	return &view, nil
}
