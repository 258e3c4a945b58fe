package repository

import (
	"context"

	"klinik-sentosa/internal/domain/entity"
)

// SessionRepository persists the authenticated user between requests and
// restarts. A session lives until it is deleted.
type SessionRepository interface {
	Save(ctx context.Context, session *entity.Session) error
	FindByTokenID(ctx context.Context, tokenID string) (*entity.Session, error)
	Delete(ctx context.Context, tokenID string) error
}
