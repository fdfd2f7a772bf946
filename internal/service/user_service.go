package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/Snomn123/Whatsapp-layout/internal/auth"
	"github.com/Snomn123/Whatsapp-layout/internal/domain"
	"github.com/Snomn123/Whatsapp-layout/internal/repository"
	"github.com/Snomn123/Whatsapp-layout/pkg/log"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type userService struct {
	users  repository.UserRepository
	tokens *auth.Manager
}

// NewUserService creates the account service.
func NewUserService(users repository.UserRepository, tokens *auth.Manager) UserService {
	return &userService{users: users, tokens: tokens}
}

func (s *userService) Register(ctx context.Context, username, password string) (*domain.AuthResult, error) {
	l := log.Ctx(ctx)

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		l.Error().Err(err).Msg("failed to hash password")
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(hashed),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokens.Generate(user.ID, user.Username)
	if err != nil {
		l.Error().Err(err).Uint(log.FieldUserID, user.ID).Msg("failed to issue token after register")
		return nil, err
	}

	l.Info().Uint(log.FieldUserID, user.ID).Str(log.FieldUsername, username).Msg("user registered")
	return &domain.AuthResult{User: user.ToResponse(), Token: token}, nil
}

func (s *userService) Login(ctx context.Context, username, password string) (*domain.AuthResult, error) {
	l := log.Ctx(ctx)

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		l.Error().Err(err).Msg("failed to look up user")
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID, user.Username)
	if err != nil {
		l.Error().Err(err).Uint(log.FieldUserID, user.ID).Msg("failed to issue token after login")
		return nil, err
	}

	return &domain.AuthResult{User: user.ToResponse(), Token: token}, nil
}

func (s *userService) Get(ctx context.Context, userID uint) (*domain.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.ToResponse(), nil
}

func (s *userService) SetAvatar(ctx context.Context, userID uint, avatarURL string) error {
	return s.users.UpdateAvatar(ctx, userID, avatarURL)
}
