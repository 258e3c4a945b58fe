package repository

import (
	"context"

	"klinik-sentosa/internal/domain/entity"
)

type ExaminationRepository interface {
	Create(ctx context.Context, exam *entity.Examination) error
	FindAll(ctx context.Context) ([]entity.Examination, error)
	Delete(ctx context.Context, id string) error
}
