package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"backend/entity"
	"backend/repository"
)

type fakeAdmins struct {
	admin *entity.Admin
}

func (f *fakeAdmins) GetByEmail(_ context.Context, email string) (*entity.Admin, error) {
	if f.admin != nil && f.admin.Email == email {
		return f.admin, nil
	}
	return nil, repository.ErrNotFound
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	svc := NewAuthService(&fakeAdmins{admin: &entity.Admin{
		Email:    "admin@foodcourt.test",
		Password: string(hash),
	}}, "test-secret", time.Hour)

	token, err := svc.Login(context.Background(), "admin@foodcourt.test", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = svc.Login(context.Background(), "admin@foodcourt.test", "wrong")
	assert.ErrorIs(t, err, ErrBadCredentials)

	_, err = svc.Login(context.Background(), "ghost@foodcourt.test", "s3cret")
	assert.ErrorIs(t, err, ErrBadCredentials)
}
