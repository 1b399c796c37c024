package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/BerylCAtieno/claim-appeal-api/internal/models"
)

// MemoryRepository keeps appeals for the life of the process. The CLI uses
// it so a one-off generation leaves nothing on disk.
type MemoryRepository struct {
	mu      sync.RWMutex
	appeals map[string]models.Appeal
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{appeals: make(map[string]models.Appeal)}
}

func (r *MemoryRepository) Create(_ context.Context, appeal *models.Appeal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.appeals[appeal.ID]; ok {
		return fmt.Errorf("appeal %s already exists", appeal.ID)
	}
	r.appeals[appeal.ID] = *appeal
	return nil
}

// GetByID returns nil, nil when no appeal has the id.
func (r *MemoryRepository) GetByID(_ context.Context, id string) (*models.Appeal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	appeal, ok := r.appeals[id]
	if !ok {
		return nil, nil
	}
	return &appeal, nil
}

func (r *MemoryRepository) ListRecent(_ context.Context, limit int) ([]models.Appeal, error) {
	r.mu.RLock()
	appeals := make([]models.Appeal, 0, len(r.appeals))
	for _, appeal := range r.appeals {
		appeals = append(appeals, appeal)
	}
	r.mu.RUnlock()

	sort.Slice(appeals, func(i, j int) bool {
		return appeals[i].CreatedAt.After(appeals[j].CreatedAt)
	})
	if limit >= 0 && len(appeals) > limit {
		appeals = appeals[:limit]
	}
	return appeals, nil
}
