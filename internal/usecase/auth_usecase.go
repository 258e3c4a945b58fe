package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"klinik-sentosa/internal/converter"
	"klinik-sentosa/internal/delivery/dto"
	"klinik-sentosa/internal/domain/entity"
	"klinik-sentosa/internal/domain/repository"
	"klinik-sentosa/pkg/jwt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrUsernameExists     = errors.New("username already exists")
	ErrInvalidRole        = errors.New("invalid role")
)

type AuthUsecase interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, tokenID string) error
	Authenticate(ctx context.Context, token string) (*entity.Session, error)
	CreateUser(ctx context.Context, username, password, name, role string) (*dto.UserResponse, error)
}

type authUsecase struct {
	log         *logrus.Logger
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	jwtService  *jwt.JWTService
}

func NewAuthUsecase(
	log *logrus.Logger,
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	jwtService *jwt.JWTService,
) AuthUsecase {
	return &authUsecase{
		log:         log,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		jwtService:  jwtService,
	}
}

// Login checks the credentials and persists the session. The session
// survives restarts until Logout deletes it.
func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := u.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		u.log.Warnf("Failed to find user by username: %+v", err)
		return nil, err
	}
	if user == nil || !passwordMatches(user.Password, req.Password) {
		return nil, ErrInvalidCredentials
	}

	accessToken, tokenID, err := u.jwtService.GenerateAccessToken(user.ID, user.Username, user.Role)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	session := converter.UserToSession(user, tokenID)
	session.CreatedAt = time.Now()
	if err := u.sessionRepo.Save(ctx, session); err != nil {
		u.log.Warnf("Failed to store session in Redis: %+v", err)
		return nil, err
	}

	u.log.Infof("User %s logged in as %s", user.Username, user.Role)
	return &dto.LoginResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(u.jwtService.GetAccessExpiry().Seconds()),
		User:        *converter.SessionToUserResponse(session),
	}, nil
}

func (u *authUsecase) Logout(ctx context.Context, tokenID string) error {
	if err := u.sessionRepo.Delete(ctx, tokenID); err != nil {
		u.log.Warnf("Failed to delete session: %+v", err)
		return err
	}
	return nil
}

// Authenticate validates the token signature and resolves its session
func (u *authUsecase) Authenticate(ctx context.Context, token string) (*entity.Session, error) {
	claims, err := u.jwtService.ValidateToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	session, err := u.sessionRepo.FindByTokenID(ctx, claims.TokenID)
	if err != nil {
		u.log.Warnf("Failed to load session: %+v", err)
		return nil, err
	}
	if session == nil {
		return nil, ErrTokenRevoked
	}

	return session, nil
}

// CreateUser stores a staff account with a bcrypt hashed password
func (u *authUsecase) CreateUser(ctx context.Context, username, password, name, role string) (*dto.UserResponse, error) {
	if !entity.IsValidRole(role) {
		return nil, ErrInvalidRole
	}

	existing, err := u.userRepo.FindByUsername(ctx, username)
	if err != nil {
		u.log.Warnf("Failed to find user by username: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	user := &entity.User{
		Username: username,
		Password: string(hashedPassword),
		Name:     name,
		Role:     role,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateRecord) {
			return nil, ErrUsernameExists
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	return &dto.UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Name:     user.Name,
		Role:     user.Role,
	}, nil
}

// passwordMatches accepts bcrypt hashes and, for accounts imported from the
// legacy data file, plain text passwords
func passwordMatches(stored, given string) bool {
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}
