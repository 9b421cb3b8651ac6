package database

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

const getAnalysisJobByUserKey = `-- name: GetAnalysisJobByUserKey :one
SELECT id, user_key, status, error, created_at, updated_at FROM analysis_jobs WHERE user_key=$1
`

func (q *Queries) GetAnalysisJobByUserKey(ctx context.Context, userKey string) (AnalysisJob, error) {
	row := q.db.QueryRowContext(ctx, getAnalysisJobByUserKey, userKey)
	var i AnalysisJob
	err := row.Scan(
		&i.ID,
		&i.UserKey,
		&i.Status,
		&i.Error,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const upsertAnalysisJob = `-- name: UpsertAnalysisJob :exec
INSERT INTO analysis_jobs (
id, user_key, status)
VALUES ($1, $2, $3)
ON CONFLICT (user_key)
DO UPDATE SET
    id = EXCLUDED.id,
    status = EXCLUDED.status,
    error = NULL,
    updated_at = CURRENT_TIMESTAMP
`

type UpsertAnalysisJobParams struct {
	ID      uuid.UUID
	UserKey string
	Status  string
}

func (q *Queries) UpsertAnalysisJob(ctx context.Context, arg UpsertAnalysisJobParams) error {
	_, err := q.db.ExecContext(ctx, upsertAnalysisJob, arg.ID, arg.UserKey, arg.Status)
	return err
}

const updateAnalysisJobStatus = `-- name: UpdateAnalysisJobStatus :exec
UPDATE analysis_jobs
SET status=$1, error=$2, updated_at=CURRENT_TIMESTAMP
WHERE id=$3
`

type UpdateAnalysisJobStatusParams struct {
	Status string
	Error  sql.NullString
	ID     uuid.UUID
}

func (q *Queries) UpdateAnalysisJobStatus(ctx context.Context, arg UpdateAnalysisJobStatusParams) error {
	_, err := q.db.ExecContext(ctx, updateAnalysisJobStatus, arg.Status, arg.Error, arg.ID)
	return err
}
