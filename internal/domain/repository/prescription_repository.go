package repository

import (
	"context"

	"klinik-sentosa/internal/domain/entity"
)

type PrescriptionRepository interface {
	Create(ctx context.Context, prescription *entity.Prescription) error
	FindAll(ctx context.Context) ([]entity.Prescription, error)
	UpdateStatus(ctx context.Context, id string, status entity.PrescriptionStatus) error
	Delete(ctx context.Context, id string) error
}
