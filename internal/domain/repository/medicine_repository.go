package repository

import (
	"context"

	"klinik-sentosa/internal/domain/entity"
)

type MedicineRepository interface {
	Create(ctx context.Context, medicine *entity.Medicine) error
	FindAll(ctx context.Context) ([]entity.Medicine, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	UpdateStock(ctx context.Context, id string, stock int) error
	Delete(ctx context.Context, id string) error
}
