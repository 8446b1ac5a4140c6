package auth_test

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netreq/internal/application/auth"
	"netreq/internal/domain/user"
	"netreq/internal/shared/authorization"
	apperrors "netreq/internal/shared/errors"
	"netreq/internal/shared/logger"
)

type fakeUserRepo struct {
	byEmail map[string]*user.User
	nextID  uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*user.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, u *user.User) error {
	if _, ok := r.byEmail[u.Email()]; ok {
		return user.ErrEmailExists
	}
	r.nextID++
	if err := u.SetID(r.nextID); err != nil {
		return err
	}
	r.byEmail[u.Email()] = u
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uint) (*user.User, error) {
	for _, u := range r.byEmail {
		if u.ID() == id {
			return u, nil
		}
	}
	return nil, user.ErrNotFound
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, u *user.User) error { return nil }
func (r *fakeUserRepo) Delete(ctx context.Context, id uint) error      { return nil }
func (r *fakeUserRepo) List(ctx context.Context, filter user.ListFilter) ([]*user.User, error) {
	return nil, nil
}

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (fakeHasher) Verify(password, hash string) error {
	if hash != "hashed:"+password {
		return fmt.Errorf("password verification failed")
	}
	return nil
}

type fakeTokenIssuer struct{}

func (fakeTokenIssuer) Generate(userID uint, role authorization.UserRole) (string, error) {
	return fmt.Sprintf("token-%d-%s", userID, role), nil
}

func newService(repo user.Repository) *auth.Service {
	log := logger.NewLoggerWithSlog(slog.New(slog.DiscardHandler))
	return auth.NewService(repo, fakeHasher{}, fakeTokenIssuer{}, log)
}

func TestService_Register(t *testing.T) {
	svc := newService(newFakeUserRepo())

	profile, err := svc.Register(context.Background(), auth.RegisterCommand{
		FullName: "Ada Lovelace",
		Email:    "ada@example.com",
		Password: "secret-password",
	})
	require.NoError(t, err)
	assert.NotZero(t, profile.ID)
	assert.Equal(t, "user", profile.Role)
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	svc := newService(newFakeUserRepo())

	_, err := svc.Register(context.Background(), auth.RegisterCommand{
		FullName: "Ada Lovelace",
		Email:    "ada@example.com",
		Password: "secret-password",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), auth.RegisterCommand{
		FullName: "Ada Byron",
		Email:    "ada@example.com",
		Password: "other-password",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflictError(err))
}

func TestService_Login(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newService(repo)

	_, err := svc.Register(context.Background(), auth.RegisterCommand{
		FullName: "Ada Lovelace",
		Email:    "ada@example.com",
		Password: "secret-password",
	})
	require.NoError(t, err)

	result, err := svc.Login(context.Background(), auth.LoginCommand{
		Email:    "ada@example.com",
		Password: "secret-password",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "ada@example.com", result.User.Email)
}

func TestService_Login_WrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newService(repo)

	_, err := svc.Register(context.Background(), auth.RegisterCommand{
		FullName: "Ada Lovelace",
		Email:    "ada@example.com",
		Password: "secret-password",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), auth.LoginCommand{
		Email:    "ada@example.com",
		Password: "wrong-password",
	})
	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrorTypeUnauthorized, appErr.Type)
}

func TestService_Login_UnknownEmailLooksLikeWrongPassword(t *testing.T) {
	svc := newService(newFakeUserRepo())

	_, err := svc.Login(context.Background(), auth.LoginCommand{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrorTypeUnauthorized, appErr.Type)
	assert.Equal(t, "invalid email or password", appErr.Message)
}
