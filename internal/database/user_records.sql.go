package database

import (
	"context"
	"encoding/json"
)

const getUserRecord = `-- name: GetUserRecord :one
SELECT user_key, kind, data, created_at, updated_at FROM user_records
WHERE user_key=$1 AND kind=$2
`

type GetUserRecordParams struct {
	UserKey string
	Kind    string
}

func (q *Queries) GetUserRecord(ctx context.Context, arg GetUserRecordParams) (UserRecord, error) {
	row := q.db.QueryRowContext(ctx, getUserRecord, arg.UserKey, arg.Kind)
	var i UserRecord
	err := row.Scan(
		&i.UserKey,
		&i.Kind,
		&i.Data,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const upsertUserRecord = `-- name: UpsertUserRecord :exec
INSERT INTO user_records (
user_key, kind, data)
VALUES ($1, $2, $3)
ON CONFLICT (user_key, kind)
DO UPDATE SET
    data = EXCLUDED.data,
    updated_at = CURRENT_TIMESTAMP
`

type UpsertUserRecordParams struct {
	UserKey string
	Kind    string
	Data    json.RawMessage
}

func (q *Queries) UpsertUserRecord(ctx context.Context, arg UpsertUserRecordParams) error {
	_, err := q.db.ExecContext(ctx, upsertUserRecord, arg.UserKey, arg.Kind, arg.Data)
	return err
}
