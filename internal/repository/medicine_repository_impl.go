package repository

import (
	"context"

	"klinik-sentosa/internal/domain/entity"
	domainRepo "klinik-sentosa/internal/domain/repository"
)

type medicineRepository struct {
	store domainRepo.RecordStore
}

func NewMedicineRepository(store domainRepo.RecordStore) domainRepo.MedicineRepository {
	return &medicineRepository{store: store}
}

func (r *medicineRepository) Create(ctx context.Context, medicine *entity.Medicine) error {
	return r.store.Insert(ctx, entity.CollectionMedicines, medicine)
}

func (r *medicineRepository) FindAll(ctx context.Context) ([]entity.Medicine, error) {
	var medicines []entity.Medicine
	if err := r.store.List(ctx, entity.CollectionMedicines, &medicines); err != nil {
		return nil, err
	}
	return medicines, nil
}

func (r *medicineRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	return r.store.Patch(ctx, entity.CollectionMedicines, id, fields)
}

func (r *medicineRepository) UpdateStock(ctx context.Context, id string, stock int) error {
	return r.store.Patch(ctx, entity.CollectionMedicines, id, map[string]interface{}{
		entity.FieldStock: stock,
	})
}

func (r *medicineRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, entity.CollectionMedicines, id)
}
