package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"klinik-sentosa/internal/domain/entity"
	domainRepo "klinik-sentosa/internal/domain/repository"

	"github.com/redis/go-redis/v9"
)

type sessionRepository struct {
	client *redis.Client
}

func NewSessionRepository(client *redis.Client) domainRepo.SessionRepository {
	return &sessionRepository{client: client}
}

func sessionKey(tokenID string) string {
	return fmt.Sprintf("session:%s", tokenID)
}

// Save stores the session without expiry; it lives until logout
func (r *sessionRepository) Save(ctx context.Context, session *entity.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, sessionKey(session.TokenID), payload, 0).Err()
}

// FindByTokenID returns nil, nil when the session does not exist
func (r *sessionRepository) FindByTokenID(ctx context.Context, tokenID string) (*entity.Session, error) {
	payload, err := r.client.Get(ctx, sessionKey(tokenID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var session entity.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("corrupt session %s: %w", tokenID, err)
	}
	return &session, nil
}

func (r *sessionRepository) Delete(ctx context.Context, tokenID string) error {
	return r.client.Del(ctx, sessionKey(tokenID)).Err()
}
