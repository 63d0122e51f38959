package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/dzmb1k/niaspo-kurs/internal/domain/user"
	"github.com/dzmb1k/niaspo-kurs/internal/infrastructure/auth"
	"github.com/dzmb1k/niaspo-kurs/internal/infrastructure/postgres"

	"github.com/google/uuid"
)

type Register struct {
	userRepo *postgres.UserRepository
}

func NewRegister(userRepo *postgres.UserRepository) *Register {
	return &Register{userRepo: userRepo}
}

type RegisterParams struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (uc *Register) Execute(ctx context.Context, params RegisterParams) (string, error) {
	if existing, err := uc.userRepo.GetByUsername(ctx, params.Username); err != nil {
		return "", fmt.Errorf("check username: %w", err)
	} else if existing != nil {
		return "", ErrUsernameTaken
	}

	if existing, err := uc.userRepo.GetByEmail(ctx, params.Email); err != nil {
		return "", fmt.Errorf("check email: %w", err)
	} else if existing != nil {
		return "", ErrEmailTaken
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		return "", err
	}

	newUser := &user.User{
		ID:           uuid.New().String(),
		Username:     params.Username,
		Email:        params.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}

	if err := uc.userRepo.Create(ctx, newUser); err != nil {
		return "", fmt.Errorf("create user: %w", err)
	}

	return newUser.ID, nil
}
