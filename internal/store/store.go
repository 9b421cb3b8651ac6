package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/readypath/backend/internal/database"
	"github.com/readypath/backend/internal/identity"
)

// Querier is the slice of the generated query layer the store needs.
// Satisfied by *database.Queries.
type Querier interface {
	UpsertUserRecord(ctx context.Context, arg database.UpsertUserRecordParams) error
	GetUserRecord(ctx context.Context, arg database.GetUserRecordParams) (database.UserRecord, error)
}

// Store persists at most one record of kind per user key. All four entity
// kinds share this implementation so the upsert cardinality invariant lives
// in one place.
type Store[T any] struct {
	q    Querier
	kind string
}

func New[T any](q Querier, kind string) *Store[T] {
	return &Store[T]{q: q, kind: kind}
}

// Upsert replaces the user's record of this kind wholesale, creating it if
// none exists. An empty user key is a hard failure: writes represent an
// intentional user action and must not silently no-op.
func (s *Store[T]) Upsert(ctx context.Context, userKey string, value T) error {
	if userKey == "" {
		return identity.ErrUnauthorized
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s record: %w", s.kind, err)
	}
	return s.q.UpsertUserRecord(ctx, database.UpsertUserRecordParams{
		UserKey: userKey,
		Kind:    s.kind,
		Data:    data,
	})
}

// GetCurrent returns the user's record of this kind. An empty user key or a
// missing record both report found=false with no error: reads feed
// display-or-empty states and must degrade instead of failing.
func (s *Store[T]) GetCurrent(ctx context.Context, userKey string) (T, bool, error) {
	var value T
	if userKey == "" {
		return value, false, nil
	}
	rec, err := s.q.GetUserRecord(ctx, database.GetUserRecordParams{
		UserKey: userKey,
		Kind:    s.kind,
	})
	if errors.Is(err, sql.ErrNoRows) {
		return value, false, nil
	}
	if err != nil {
		return value, false, fmt.Errorf("get %s record: %w", s.kind, err)
	}
	if err := json.Unmarshal(rec.Data, &value); err != nil {
		return value, false, fmt.Errorf("unmarshal %s record: %w", s.kind, err)
	}
	return value, true, nil
}

// Stores bundles the four typed entity stores over one query layer.
type Stores struct {
	JobRoles   *Store[JobRole]
	UserSkills *Store[UserSkills]
	Analyses   *Store[AnalysisResult]
	Roadmaps   *Store[Roadmap]
}

func NewStores(q Querier) *Stores {
	return &Stores{
		JobRoles:   New[JobRole](q, KindJobRole),
		UserSkills: New[UserSkills](q, KindUserSkills),
		Analyses:   New[AnalysisResult](q, KindAnalysisResult),
		Roadmaps:   New[Roadmap](q, KindRoadmap),
	}
}
