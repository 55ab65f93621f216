package services

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"backend/entity"
	"backend/repository"
	"backend/utils"
)

var ErrBadCredentials = errors.New("invalid email or password")

type AdminStore interface {
	GetByEmail(ctx context.Context, email string) (*entity.Admin, error)
}

type AuthService struct {
	Admins AdminStore
	Secret string
	TTL    time.Duration
}

func NewAuthService(admins AdminStore, secret string, ttl time.Duration) *AuthService {
	return &AuthService{Admins: admins, Secret: secret, TTL: ttl}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	admin, err := s.Admins.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrBadCredentials
	}
	if err != nil {
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)) != nil {
		return "", ErrBadCredentials
	}

	return utils.GenerateToken(admin.Email, "admin", s.Secret, s.TTL)
}
