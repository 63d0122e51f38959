package usecase

import (
	"context"
	"fmt"

	"github.com/dzmb1k/niaspo-kurs/internal/infrastructure/auth"
	"github.com/dzmb1k/niaspo-kurs/internal/infrastructure/postgres"
)

type Login struct {
	userRepo *postgres.UserRepository
	tokens   *auth.TokenManager
}

func NewLogin(userRepo *postgres.UserRepository, tokens *auth.TokenManager) *Login {
	return &Login{userRepo: userRepo, tokens: tokens}
}

type LoginParams struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

func (uc *Login) Execute(ctx context.Context, params LoginParams) (*LoginResult, error) {
	u, err := uc.userRepo.GetByUsername(ctx, params.Username)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil || !auth.CheckPassword(u.PasswordHash, params.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := uc.tokens.Issue(u.ID, u.Username)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &LoginResult{
		Token:    token,
		UserID:   u.ID,
		Username: u.Username,
	}, nil
}
