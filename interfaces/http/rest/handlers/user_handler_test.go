package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"tasklist-backend/application/services"
	"tasklist-backend/domain"
	apperrors "tasklist-backend/pkg/errors"
)

type memoryUserRepo struct {
	users map[string]*domain.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[string]*domain.User)}
}

func (m *memoryUserRepo) Create(_ context.Context, user *domain.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *memoryUserRepo) Get(_ context.Context, userID string) (*domain.User, error) {
	return m.users[userID], nil
}

func (m *memoryUserRepo) Update(_ context.Context, userID string, attrs map[string]interface{}) (*domain.User, error) {
	user, ok := m.users[userID]
	if !ok {
		return nil, apperrors.NewNotFoundError("User", userID)
	}
	if name, ok := attrs["name"].(string); ok {
		user.Name = name
	}
	return user, nil
}

func (m *memoryUserRepo) List(_ context.Context, _ string, _ *domain.Filter) ([]domain.User, string, error) {
	var users []domain.User
	for _, user := range m.users {
		users = append(users, *user)
	}
	return users, "", nil
}

func (m *memoryUserRepo) Delete(_ context.Context, userID string) error {
	if _, ok := m.users[userID]; !ok {
		return apperrors.NewNotFoundError("User", userID)
	}
	delete(m.users, userID)
	return nil
}

func newUserFixture() (*UserHandler, *memoryUserRepo) {
	logger := zap.NewNop()
	repo := newMemoryUserRepo()
	svc := services.NewUserService(repo, nopPublisher{}, logger)
	return NewUserHandler(svc, apperrors.NewHandler(logger, false), logger), repo
}

func TestUserHandlerUpdateRejectsOtherUsers(t *testing.T) {
	handler, repo := newUserFixture()
	repo.users["user-2"] = &domain.User{UserID: "user-2", Name: "Other", Email: "other@example.com"}

	req := withURLParam(authedRequest(http.MethodPut, "/users/user-2", `{"name":"Hijacked"}`), "userId", "user-2")
	rec := httptest.NewRecorder()
	handler.Update(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Other", repo.users["user-2"].Name)
}

func TestUserHandlerDeleteRejectsOtherUsers(t *testing.T) {
	handler, repo := newUserFixture()
	repo.users["user-2"] = &domain.User{UserID: "user-2", Name: "Other", Email: "other@example.com"}

	req := withURLParam(authedRequest(http.MethodDelete, "/users/user-2", ""), "userId", "user-2")
	rec := httptest.NewRecorder()
	handler.Delete(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, repo.users, "user-2")
}

func TestUserHandlerUpdateOwnRecord(t *testing.T) {
	handler, repo := newUserFixture()
	repo.users["user-1"] = &domain.User{UserID: "user-1", Name: "Jordan", Email: "jordan@example.com"}

	req := withURLParam(authedRequest(http.MethodPut, "/users/user-1", `{"name":"Jordan L"}`), "userId", "user-1")
	rec := httptest.NewRecorder()
	handler.Update(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Jordan L", repo.users["user-1"].Name)
}

func TestUserHandlerMeReturnsCallerRecord(t *testing.T) {
	handler, repo := newUserFixture()
	repo.users["user-1"] = &domain.User{UserID: "user-1", Name: "Jordan", Email: "jordan@example.com"}

	rec := httptest.NewRecorder()
	handler.Me(rec, authedRequest(http.MethodGet, "/me", ""))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"userId":"user-1"`)
}

func TestUserHandlerMeReturnsNotFoundBeforeFirstSync(t *testing.T) {
	handler, _ := newUserFixture()

	rec := httptest.NewRecorder()
	handler.Me(rec, authedRequest(http.MethodGet, "/me", ""))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
