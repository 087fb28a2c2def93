package teach

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/studydeck/internal/client/models"
	"github.com/dmitrijs2005/studydeck/internal/client/repositories/metadata"
)

type evaluationState struct {
	EvaluationResults *models.EvaluationScore `json:"evaluationResults"`
}

// EvaluationStore keeps the latest teaching evaluation, persisted under
// its own metadata key.
type EvaluationStore struct {
	repo metadata.Repository

	mu     sync.RWMutex
	latest *models.EvaluationScore
}

// LoadEvaluationStore restores the last saved evaluation, if any.
func LoadEvaluationStore(ctx context.Context, repo metadata.Repository) (*EvaluationStore, error) {
	var st evaluationState
	if _, err := metadata.LoadJSON(ctx, repo, metadata.KeyEvaluations, &st); err != nil {
		return &EvaluationStore{repo: repo}, err
	}
	return &EvaluationStore{repo: repo, latest: st.EvaluationResults}, nil
}

func (e *EvaluationStore) Set(ctx context.Context, score models.EvaluationScore) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.latest = &score
	return metadata.SaveJSON(ctx, e.repo, metadata.KeyEvaluations, evaluationState{EvaluationResults: &score})
}

func (e *EvaluationStore) Latest() (models.EvaluationScore, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.latest == nil {
		return models.EvaluationScore{}, false
	}
	return *e.latest, true
}

func (e *EvaluationStore) Clear(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.latest = nil
	return metadata.SaveJSON(ctx, e.repo, metadata.KeyEvaluations, evaluationState{})
}
