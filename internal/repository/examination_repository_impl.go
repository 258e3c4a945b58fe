package repository

import (
	"context"

	"klinik-sentosa/internal/domain/entity"
	domainRepo "klinik-sentosa/internal/domain/repository"
)

type examinationRepository struct {
	store domainRepo.RecordStore
}

func NewExaminationRepository(store domainRepo.RecordStore) domainRepo.ExaminationRepository {
	return &examinationRepository{store: store}
}

func (r *examinationRepository) Create(ctx context.Context, exam *entity.Examination) error {
	return r.store.Insert(ctx, entity.CollectionExaminations, exam)
}

func (r *examinationRepository) FindAll(ctx context.Context) ([]entity.Examination, error) {
	var exams []entity.Examination
	if err := r.store.List(ctx, entity.CollectionExaminations, &exams); err != nil {
		return nil, err
	}
	return exams, nil
}

func (r *examinationRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, entity.CollectionExaminations, id)
}
