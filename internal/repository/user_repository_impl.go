package repository

import (
	"context"

	"klinik-sentosa/internal/domain/entity"
	domainRepo "klinik-sentosa/internal/domain/repository"
)

type userRepository struct {
	store domainRepo.RecordStore
}

func NewUserRepository(store domainRepo.RecordStore) domainRepo.UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return r.store.Insert(ctx, entity.CollectionUsers, user)
}

// FindByUsername returns nil, nil when no user has that username
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	var users []entity.User
	err := r.store.FindBy(ctx, entity.CollectionUsers, map[string]string{"username": username}, &users)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}
