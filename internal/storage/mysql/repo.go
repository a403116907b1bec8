package mysql

import (
	"context"
	"database/sql"
	"errors"

	"hostel_picker/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) SaveSnapshot(ctx context.Context, s domain.Snapshot) error {
	_, err := r.db.ExecContext(ctx, insertSnapshotSQL,
		s.ID,
		s.Source,
		s.URL,
		s.Checksum,
		s.Records,
		s.Body,
		s.FetchedAt.UTC(),
	)
	return err
}

func (r *Repo) LogMiss(ctx context.Context, source string, status int, reason string) error {
	_, err := r.db.ExecContext(ctx, insertMissSQL, source, status, reason)
	return err
}

func (r *Repo) LatestSnapshot(ctx context.Context, source string) (domain.Snapshot, error) {
	var s domain.Snapshot
	err := r.db.QueryRowContext(ctx, latestSnapshotSQL, source).Scan(
		&s.ID,
		&s.Source,
		&s.URL,
		&s.Checksum,
		&s.Records,
		&s.Body,
		&s.FetchedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Snapshot{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Snapshot{}, err
	}
	return s, nil
}
