package repository

import (
	"context"

	"klinik-sentosa/internal/domain/entity"
)

type PatientRepository interface {
	Create(ctx context.Context, patient *entity.Patient) error
	FindAll(ctx context.Context) ([]entity.Patient, error)
	Delete(ctx context.Context, id string) error
}
