package repository

import (
	"carsurvey/internal/model"
	"context"
	"sync"

	"github.com/google/uuid"
)

type memoryResponseRepo struct {
	mu        sync.RWMutex
	responses []*model.Response
}

// NewMemoryResponseRepo creates a process-local response repository
func NewMemoryResponseRepo() ResponseRepo {
	return &memoryResponseRepo{}
}

func (r *memoryResponseRepo) Append(ctx context.Context, response *model.Response) error {
	if response.ID == "" {
		response.ID = uuid.New().String()
	}

	r.mu.Lock()
	r.responses = append(r.responses, response.Clone())
	r.mu.Unlock()
	return nil
}

func (r *memoryResponseRepo) List(ctx context.Context) ([]*model.Response, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.Response, len(r.responses))
	for i, resp := range r.responses {
		out[i] = resp.Clone()
	}
	return out, nil
}
