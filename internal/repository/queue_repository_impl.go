package repository

import (
	"context"

	"klinik-sentosa/internal/domain/entity"
	domainRepo "klinik-sentosa/internal/domain/repository"
)

type queueRepository struct {
	store domainRepo.RecordStore
}

func NewQueueRepository(store domainRepo.RecordStore) domainRepo.QueueRepository {
	return &queueRepository{store: store}
}

func (r *queueRepository) Create(ctx context.Context, entry *entity.QueueEntry) error {
	return r.store.Insert(ctx, entity.CollectionQueue, entry)
}

// FindAll keeps the backend's order, which is the order patients joined
func (r *queueRepository) FindAll(ctx context.Context) ([]entity.QueueEntry, error) {
	var entries []entity.QueueEntry
	if err := r.store.List(ctx, entity.CollectionQueue, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *queueRepository) UpdateStatus(ctx context.Context, id string, status entity.QueueStatus) error {
	return r.store.Patch(ctx, entity.CollectionQueue, id, map[string]interface{}{
		entity.FieldStatus: status,
	})
}
