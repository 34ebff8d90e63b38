package prediction

import (
	"context"
	"time"
)

// Cache is the key-value collaborator predictions are memoized in. Get
// returns ErrCacheMiss when the key is absent or expired. Concurrent writers
// to the same key race with last-write-wins semantics, which is acceptable
// because a recomputed prediction over unchanged data is equivalent.
type Cache interface {
	Get(ctx context.Context, key string) (*Prediction, error)
	Set(ctx context.Context, key string, p *Prediction, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Repository persists generated predictions for historical comparison and
// audit. Latest returns shared.ErrNotFound (wrapped) when the learner has no
// prior prediction.
type Repository interface {
	Save(ctx context.Context, p *Prediction) error
	Latest(ctx context.Context, studentID, courseID string) (*Prediction, error)
	History(ctx context.Context, studentID, courseID string, limit int) ([]*Prediction, error)
}
