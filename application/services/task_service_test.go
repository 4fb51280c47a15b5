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

type mockTaskRepo struct {
	createFn func(ctx context.Context, task *domain.TaskItem) error
	getFn    func(ctx context.Context, userID, itemID string) (*domain.TaskItem, error)
	updateFn func(ctx context.Context, userID, itemID string, attrs map[string]interface{}) (*domain.TaskItem, error)
	listFn   func(ctx context.Context, userID, startItemID string, filter *domain.Filter) ([]domain.TaskItem, string, error)
	deleteFn func(ctx context.Context, userID, itemID string) error
}

func (m *mockTaskRepo) Create(ctx context.Context, task *domain.TaskItem) error {
	return m.createFn(ctx, task)
}

func (m *mockTaskRepo) Get(ctx context.Context, userID, itemID string) (*domain.TaskItem, error) {
	return m.getFn(ctx, userID, itemID)
}

func (m *mockTaskRepo) Update(ctx context.Context, userID, itemID string, attrs map[string]interface{}) (*domain.TaskItem, error) {
	return m.updateFn(ctx, userID, itemID, attrs)
}

func (m *mockTaskRepo) List(ctx context.Context, userID, startItemID string, filter *domain.Filter) ([]domain.TaskItem, string, error) {
	return m.listFn(ctx, userID, startItemID, filter)
}

func (m *mockTaskRepo) Delete(ctx context.Context, userID, itemID string) error {
	return m.deleteFn(ctx, userID, itemID)
}

type capturingPublisher struct {
	events []domain.Event
	err    error
}

func (p *capturingPublisher) Publish(_ context.Context, event domain.Event) error {
	p.events = append(p.events, event)
	return p.err
}

func TestTaskServiceCreateAssignsKeyFields(t *testing.T) {
	var stored *domain.TaskItem
	repo := &mockTaskRepo{
		createFn: func(_ context.Context, task *domain.TaskItem) error {
			stored = task
			return nil
		},
	}
	publisher := &capturingPublisher{}
	svc := NewTaskService(repo, publisher, zap.NewNop())

	task, err := svc.Create(context.Background(), "user-1", CreateTaskInput{
		Title: "Buy groceries",
	})

	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "user-1", task.UserID)
	assert.NotEmpty(t, task.ItemID)
	assert.Equal(t, domain.TaskStatusToDo, task.Status)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, domain.EventTaskItemCreated, publisher.events[0].EventType())
}

func TestTaskServiceCreateRejectsInvalidInput(t *testing.T) {
	repo := &mockTaskRepo{
		createFn: func(_ context.Context, _ *domain.TaskItem) error {
			t.Fatal("repository should not be called")
			return nil
		},
	}
	svc := NewTaskService(repo, &capturingPublisher{}, zap.NewNop())

	_, err := svc.Create(context.Background(), "user-1", CreateTaskInput{
		Title:  "",
		Status: "Done",
	})

	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestTaskServiceCreatePropagatesConflict(t *testing.T) {
	repo := &mockTaskRepo{
		createFn: func(_ context.Context, _ *domain.TaskItem) error {
			return apperrors.NewConflictError("task item already exists")
		},
	}
	publisher := &capturingPublisher{}
	svc := NewTaskService(repo, publisher, zap.NewNop())

	_, err := svc.Create(context.Background(), "user-1", CreateTaskInput{Title: "x"})

	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	assert.Empty(t, publisher.events)
}

func TestTaskServiceUpdateAppliesOnlySetFields(t *testing.T) {
	var gotAttrs map[string]interface{}
	repo := &mockTaskRepo{
		updateFn: func(_ context.Context, userID, itemID string, attrs map[string]interface{}) (*domain.TaskItem, error) {
			gotAttrs = attrs
			return &domain.TaskItem{UserID: userID, ItemID: itemID, Title: "New title"}, nil
		},
	}
	svc := NewTaskService(repo, &capturingPublisher{}, zap.NewNop())

	title := "New title"
	status := "Completed"
	_, err := svc.Update(context.Background(), "user-1", "item-1", UpdateTaskInput{
		Title:  &title,
		Status: &status,
	})

	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"title":  "New title",
		"status": "Completed",
	}, gotAttrs)
}

func TestTaskServiceGetTranslatesAbsence(t *testing.T) {
	repo := &mockTaskRepo{
		getFn: func(_ context.Context, _, _ string) (*domain.TaskItem, error) {
			return nil, nil
		},
	}
	svc := NewTaskService(repo, &capturingPublisher{}, zap.NewNop())

	_, err := svc.Get(context.Background(), "user-1", "missing")

	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestTaskServiceDeletePublishesEvent(t *testing.T) {
	repo := &mockTaskRepo{
		deleteFn: func(_ context.Context, _, _ string) error {
			return nil
		},
	}
	publisher := &capturingPublisher{}
	svc := NewTaskService(repo, publisher, zap.NewNop())

	require.NoError(t, svc.Delete(context.Background(), "user-1", "item-1"))
	require.Len(t, publisher.events, 1)
	assert.Equal(t, domain.EventTaskItemDeleted, publisher.events[0].EventType())
}

func TestTaskServiceCreateSucceedsWhenPublishFails(t *testing.T) {
	repo := &mockTaskRepo{
		createFn: func(_ context.Context, _ *domain.TaskItem) error {
			return nil
		},
	}
	publisher := &capturingPublisher{err: assert.AnError}
	svc := NewTaskService(repo, publisher, zap.NewNop())

	task, err := svc.Create(context.Background(), "user-1", CreateTaskInput{Title: "x"})

	require.NoError(t, err)
	assert.NotNil(t, task)
}
