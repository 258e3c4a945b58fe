package converter

import (
	"klinik-sentosa/internal/delivery/dto"
	"klinik-sentosa/internal/domain/entity"
)

// SessionToUserResponse converts a persisted Session to UserResponse DTO
func SessionToUserResponse(session *entity.Session) *dto.UserResponse {
	if session == nil {
		return nil
	}

	return &dto.UserResponse{
		ID:       session.UserID,
		Username: session.Username,
		Name:     session.Name,
		Role:     session.Role,
	}
}

// UserToSession builds the session stored at login. The password is not kept.
func UserToSession(user *entity.User, tokenID string) *entity.Session {
	return &entity.Session{
		TokenID:  tokenID,
		UserID:   user.ID,
		Username: user.Username,
		Name:     user.Name,
		Role:     user.Role,
	}
}
