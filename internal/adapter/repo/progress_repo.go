package repo

import (
	"context"
	"fmt"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// ProgressRepositoryPG implements domain.ProgressRepository.
type ProgressRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewProgressRepository(sql infra.SQLExecutor) *ProgressRepositoryPG {
	return &ProgressRepositoryPG{sql: sql}
}

var _ domain.ProgressRepository = (*ProgressRepositoryPG)(nil)

// Get fetches the cursor for the key, nil when the stream has never run.
func (r *ProgressRepositoryPG) Get(ctx context.Context, userID string, mediaType domain.MediaType, sortBy domain.SortBy) (*domain.ProgressRecord, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QGetProgress, userID, string(mediaType), string(sortBy))
	record, err := scanProgress(row.Scan)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get progress: %w", err)
	}
	return record, nil
}

// Upsert merges the patch into the record, creating it at page 1 / index 0
// when absent, and stamps lastUpdated.
func (r *ProgressRepositoryPG) Upsert(ctx context.Context, userID string, mediaType domain.MediaType, sortBy domain.SortBy, patch domain.ProgressPatch) (*domain.ProgressRecord, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QUpsertProgress,
		userID,
		string(mediaType),
		string(sortBy),
		patch.CurrentPage,
		patch.CurrentIndex,
		patch.TotalGenerated,
		patch.LastMediaID,
	)
	record, err := scanProgress(row.Scan)
	if err != nil {
		return nil, fmt.Errorf("upsert progress: %w", err)
	}
	return record, nil
}

// Reset deletes the record; a missing key is a no-op.
func (r *ProgressRepositoryPG) Reset(ctx context.Context, userID string, mediaType domain.MediaType, sortBy domain.SortBy) error {
	if _, err := r.sql.Exec(ctx, sqlinline.QResetProgress, userID, string(mediaType), string(sortBy)); err != nil {
		return fmt.Errorf("reset progress: %w", err)
	}
	return nil
}

// ListForUser returns the user's records, most recently updated first.
func (r *ProgressRepositoryPG) ListForUser(ctx context.Context, userID string) ([]domain.ProgressRecord, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListProgressForUser, userID)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	defer rows.Close()
	var records []domain.ProgressRecord
	for rows.Next() {
		record, err := scanProgress(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

func scanProgress(scan func(dest ...any) error) (*domain.ProgressRecord, error) {
	var record domain.ProgressRecord
	var mediaType, sortBy string
	if err := scan(
		&record.ID,
		&record.UserID,
		&mediaType,
		&sortBy,
		&record.CurrentPage,
		&record.CurrentIndex,
		&record.TotalGenerated,
		&record.LastMediaID,
		&record.LastUpdated,
	); err != nil {
		return nil, err
	}
	record.MediaType = domain.MediaType(mediaType)
	record.SortBy = domain.SortBy(sortBy)
	return &record, nil
}
