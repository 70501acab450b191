package counter

import (
	"context"
	"sync"

	"gorm.io/gorm"
)

//go:generate mockgen -destination=mock/counter_repo_mock.go -package=mock . Repository
type Repository interface {
	GetNextValue(ctx context.Context, counterType string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetNextValue(ctx context.Context, counterType string) (int64, error) {
	var nextValue int64

	// UPSERT atomik supaya dua request paralel tidak mendapat nomor yang sama
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO request_counters (counter_type, last_value, updated_at)
		VALUES (?, 1, now())
		ON CONFLICT (counter_type) DO UPDATE
		SET last_value = request_counters.last_value + 1, updated_at = now()
		RETURNING last_value
	`, counterType).Scan(&nextValue).Error

	if err != nil {
		return 0, err
	}

	return nextValue, nil
}

// MemoryRepository dipakai saat STORE_DRIVER=memory.
type MemoryRepository struct {
	mu     sync.Mutex
	values map[string]int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{values: make(map[string]int64)}
}

func (r *MemoryRepository) GetNextValue(_ context.Context, counterType string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[counterType]++
	return r.values[counterType], nil
}
