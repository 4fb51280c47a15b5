package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tasklist-backend/domain"
	apperrors "tasklist-backend/pkg/errors"
)

type mockUserRepo struct {
	createFn func(ctx context.Context, user *domain.User) error
	getFn    func(ctx context.Context, userID string) (*domain.User, error)
	updateFn func(ctx context.Context, userID string, attrs map[string]interface{}) (*domain.User, error)
	listFn   func(ctx context.Context, startUserID string, filter *domain.Filter) ([]domain.User, string, error)
	deleteFn func(ctx context.Context, userID string) error
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.createFn(ctx, user)
}

func (m *mockUserRepo) Get(ctx context.Context, userID string) (*domain.User, error) {
	return m.getFn(ctx, userID)
}

func (m *mockUserRepo) Update(ctx context.Context, userID string, attrs map[string]interface{}) (*domain.User, error) {
	return m.updateFn(ctx, userID, attrs)
}

func (m *mockUserRepo) List(ctx context.Context, startUserID string, filter *domain.Filter) ([]domain.User, string, error) {
	return m.listFn(ctx, startUserID, filter)
}

func (m *mockUserRepo) Delete(ctx context.Context, userID string) error {
	return m.deleteFn(ctx, userID)
}

func TestUserServiceCreateGeneratesIDWhenEmpty(t *testing.T) {
	var stored *domain.User
	repo := &mockUserRepo{
		createFn: func(_ context.Context, user *domain.User) error {
			stored = user
			return nil
		},
	}
	svc := NewUserService(repo, &capturingPublisher{}, zap.NewNop())

	user, err := svc.Create(context.Background(), "", CreateUserInput{
		Name:  "Jordan",
		Email: "jordan@example.com",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, user.UserID)
	assert.Equal(t, stored.UserID, user.UserID)
}

func TestUserServiceCreateKeepsExplicitID(t *testing.T) {
	repo := &mockUserRepo{
		createFn: func(_ context.Context, _ *domain.User) error {
			return nil
		},
	}
	svc := NewUserService(repo, &capturingPublisher{}, zap.NewNop())

	user, err := svc.Create(context.Background(), "hook-assigned-id", CreateUserInput{
		Name:  "Jordan",
		Email: "jordan@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "hook-assigned-id", user.UserID)
}

func TestUserServiceCreateRejectsBadEmail(t *testing.T) {
	svc := NewUserService(&mockUserRepo{}, &capturingPublisher{}, zap.NewNop())

	_, err := svc.Create(context.Background(), "", CreateUserInput{
		Name:  "Jordan",
		Email: "not-an-email",
	})

	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestUserServiceFindReturnsNilWhenAbsent(t *testing.T) {
	repo := &mockUserRepo{
		getFn: func(_ context.Context, _ string) (*domain.User, error) {
			return nil, nil
		},
	}
	svc := NewUserService(repo, &capturingPublisher{}, zap.NewNop())

	user, err := svc.Find(context.Background(), "missing")

	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserServiceGetTranslatesAbsence(t *testing.T) {
	repo := &mockUserRepo{
		getFn: func(_ context.Context, _ string) (*domain.User, error) {
			return nil, nil
		},
	}
	svc := NewUserService(repo, &capturingPublisher{}, zap.NewNop())

	_, err := svc.Get(context.Background(), "missing")

	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}
