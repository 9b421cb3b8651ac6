package database

import (
	"context"
)

const createUser = `-- name: CreateUser :exec
INSERT INTO users (
user_key, email)
VALUES ($1, $2)
ON CONFLICT (user_key)
DO NOTHING
`

type CreateUserParams struct {
	UserKey string
	Email   string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) error {
	_, err := q.db.ExecContext(ctx, createUser, arg.UserKey, arg.Email)
	return err
}

const getUserByKey = `-- name: GetUserByKey :one
SELECT id, user_key, email, created_at FROM users WHERE user_key=$1
`

func (q *Queries) GetUserByKey(ctx context.Context, userKey string) (User, error) {
	row := q.db.QueryRowContext(ctx, getUserByKey, userKey)
	var i User
	err := row.Scan(
		&i.ID,
		&i.UserKey,
		&i.Email,
		&i.CreatedAt,
	)
	return i, err
}
