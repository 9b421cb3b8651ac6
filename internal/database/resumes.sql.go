package database

import (
	"context"

	"github.com/google/uuid"
)

const getResumeByUserKey = `-- name: GetResumeByUserKey :one
SELECT id, user_key, original_filename, mime, size_bytes, object_key, created_at FROM resumes WHERE user_key=$1
`

func (q *Queries) GetResumeByUserKey(ctx context.Context, userKey string) (Resume, error) {
	row := q.db.QueryRowContext(ctx, getResumeByUserKey, userKey)
	var i Resume
	err := row.Scan(
		&i.ID,
		&i.UserKey,
		&i.OriginalFilename,
		&i.Mime,
		&i.SizeBytes,
		&i.ObjectKey,
		&i.CreatedAt,
	)
	return i, err
}

const upsertResume = `-- name: UpsertResume :exec
INSERT INTO resumes (
id, user_key, original_filename, mime, size_bytes, object_key)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (user_key)
DO UPDATE SET
    original_filename = EXCLUDED.original_filename,
    mime = EXCLUDED.mime,
    size_bytes = EXCLUDED.size_bytes,
    object_key = EXCLUDED.object_key,
    created_at = CURRENT_TIMESTAMP
`

type UpsertResumeParams struct {
	ID               uuid.UUID
	UserKey          string
	OriginalFilename string
	Mime             string
	SizeBytes        int64
	ObjectKey        string
}

func (q *Queries) UpsertResume(ctx context.Context, arg UpsertResumeParams) error {
	_, err := q.db.ExecContext(ctx, upsertResume,
		arg.ID,
		arg.UserKey,
		arg.OriginalFilename,
		arg.Mime,
		arg.SizeBytes,
		arg.ObjectKey,
	)
	return err
}
