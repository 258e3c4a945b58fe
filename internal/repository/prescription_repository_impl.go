package repository

import (
	"context"

	"klinik-sentosa/internal/domain/entity"
	domainRepo "klinik-sentosa/internal/domain/repository"
)

type prescriptionRepository struct {
	store domainRepo.RecordStore
}

func NewPrescriptionRepository(store domainRepo.RecordStore) domainRepo.PrescriptionRepository {
	return &prescriptionRepository{store: store}
}

func (r *prescriptionRepository) Create(ctx context.Context, prescription *entity.Prescription) error {
	return r.store.Insert(ctx, entity.CollectionPrescriptions, prescription)
}

func (r *prescriptionRepository) FindAll(ctx context.Context) ([]entity.Prescription, error) {
	var prescriptions []entity.Prescription
	if err := r.store.List(ctx, entity.CollectionPrescriptions, &prescriptions); err != nil {
		return nil, err
	}
	return prescriptions, nil
}

func (r *prescriptionRepository) UpdateStatus(ctx context.Context, id string, status entity.PrescriptionStatus) error {
	return r.store.Patch(ctx, entity.CollectionPrescriptions, id, map[string]interface{}{
		entity.FieldStatus: status,
	})
}

func (r *prescriptionRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, entity.CollectionPrescriptions, id)
}
