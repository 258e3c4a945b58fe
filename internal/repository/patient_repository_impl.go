package repository

import (
	"context"

	"klinik-sentosa/internal/domain/entity"
	domainRepo "klinik-sentosa/internal/domain/repository"
)

type patientRepository struct {
	store domainRepo.RecordStore
}

func NewPatientRepository(store domainRepo.RecordStore) domainRepo.PatientRepository {
	return &patientRepository{store: store}
}

func (r *patientRepository) Create(ctx context.Context, patient *entity.Patient) error {
	return r.store.Insert(ctx, entity.CollectionPatients, patient)
}

func (r *patientRepository) FindAll(ctx context.Context) ([]entity.Patient, error) {
	var patients []entity.Patient
	if err := r.store.List(ctx, entity.CollectionPatients, &patients); err != nil {
		return nil, err
	}
	return patients, nil
}

func (r *patientRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, entity.CollectionPatients, id)
}
