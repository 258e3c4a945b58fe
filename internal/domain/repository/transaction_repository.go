package repository

import (
	"context"

	"klinik-sentosa/internal/domain/entity"
)

type TransactionRepository interface {
	Create(ctx context.Context, transaction *entity.Transaction) error
	FindAll(ctx context.Context) ([]entity.Transaction, error)
	Delete(ctx context.Context, id string) error
}
