package repository

import (
	"context"

	"klinik-sentosa/internal/domain/entity"
	domainRepo "klinik-sentosa/internal/domain/repository"
)

type transactionRepository struct {
	store domainRepo.RecordStore
}

func NewTransactionRepository(store domainRepo.RecordStore) domainRepo.TransactionRepository {
	return &transactionRepository{store: store}
}

func (r *transactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	return r.store.Insert(ctx, entity.CollectionTransactions, transaction)
}

func (r *transactionRepository) FindAll(ctx context.Context) ([]entity.Transaction, error) {
	var transactions []entity.Transaction
	if err := r.store.List(ctx, entity.CollectionTransactions, &transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

func (r *transactionRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, entity.CollectionTransactions, id)
}
