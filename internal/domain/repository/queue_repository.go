package repository

import (
	"context"

	"klinik-sentosa/internal/domain/entity"
)

type QueueRepository interface {
	Create(ctx context.Context, entry *entity.QueueEntry) error
	FindAll(ctx context.Context) ([]entity.QueueEntry, error)
	UpdateStatus(ctx context.Context, id string, status entity.QueueStatus) error
}
