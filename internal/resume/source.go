package resume

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/readypath/backend/internal/database"
)

// Queries is the slice of the generated query layer this package needs.
type Queries interface {
	GetResumeByUserKey(ctx context.Context, userKey string) (database.Resume, error)
}

// TextSource resolves a user's resume record to its extracted text.
type TextSource struct {
	q       Queries
	storage *Storage
}

func NewTextSource(q Queries, storage *Storage) *TextSource {
	return &TextSource{q: q, storage: storage}
}

// Text returns the extracted resume text for the user, or "" with no error
// when the user never uploaded one.
func (t *TextSource) Text(ctx context.Context, userKey string) (string, error) {
	rec, err := t.q.GetResumeByUserKey(ctx, userKey)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("look up resume: %w", err)
	}
	data, err := t.storage.Download(ctx, rec.ObjectKey)
	if err != nil {
		return "", fmt.Errorf("download resume %s: %w", rec.ObjectKey, err)
	}
	return ExtractText(rec.Mime, data)
}
