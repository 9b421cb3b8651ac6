package database

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type AnalysisJob struct {
	ID        uuid.UUID
	UserKey   string
	Status    string
	Error     sql.NullString
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Resume struct {
	ID               uuid.UUID
	UserKey          string
	OriginalFilename string
	Mime             string
	SizeBytes        int64
	ObjectKey        string
	CreatedAt        time.Time
}

type User struct {
	ID        uuid.UUID
	UserKey   string
	Email     string
	CreatedAt time.Time
}

type UserRecord struct {
	UserKey   string
	Kind      string
	Data      json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}
