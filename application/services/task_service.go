package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tasklist-backend/application/ports"
	"tasklist-backend/domain"
	apperrors "tasklist-backend/pkg/errors"
	"tasklist-backend/pkg/utils"
)

// CreateTaskInput is the payload for creating a task item. Key fields are
// deliberately absent: the owning user comes from the caller's token and the
// item id is assigned by the service, so caller-supplied values for either
// can never reach storage.
type CreateTaskInput struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description,omitempty" validate:"max=2000"`
	Status      string `json:"status,omitempty" validate:"omitempty,oneof=ToDo InProgress Completed"`
	DueDate     string `json:"dueDate,omitempty"`
	Image       string `json:"image,omitempty"`
}

// UpdateTaskInput is the payload for updating a task item. Nil fields are
// left untouched.
type UpdateTaskInput struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=ToDo InProgress Completed"`
	DueDate     *string `json:"dueDate,omitempty"`
	Image       *string `json:"image,omitempty"`
}

// TaskService implements the task item operations behind the /tasks routes.
type TaskService struct {
	repo   ports.TaskRepository
	events ports.EventPublisher
	logger *zap.Logger
}

// NewTaskService creates a task service.
func NewTaskService(repo ports.TaskRepository, events ports.EventPublisher, logger *zap.Logger) *TaskService {
	return &TaskService{
		repo:   repo,
		events: events,
		logger: logger,
	}
}

// Create validates the payload, assigns the generated item id and the
// caller's user id, and writes the task. A key collision surfaces as a
// Conflict error.
func (s *TaskService) Create(ctx context.Context, userID string, in CreateTaskInput) (*domain.TaskItem, error) {
	if err := utils.ValidateStruct(in); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	status := domain.TaskStatus(in.Status)
	if in.Status == "" {
		status = domain.TaskStatusToDo
	}

	task := &domain.TaskItem{
		UserID:      userID,
		ItemID:      uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		DueDate:     in.DueDate,
		Image:       in.Image,
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}

	s.publish(ctx, domain.NewTaskItemEvent(domain.EventTaskItemCreated, task.UserID, task.ItemID))
	return task, nil
}

// Get fetches a task scoped to the caller, or NotFound.
func (s *TaskService) Get(ctx context.Context, userID, itemID string) (*domain.TaskItem, error) {
	task, err := s.repo.Get(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, apperrors.NewNotFoundError("Task Item", itemID)
	}
	return task, nil
}

// Update validates the payload and applies the provided fields in place,
// returning the new full record.
func (s *TaskService) Update(ctx context.Context, userID, itemID string, in UpdateTaskInput) (*domain.TaskItem, error) {
	if err := utils.ValidateStruct(in); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	attrs := map[string]interface{}{}
	if in.Title != nil {
		attrs["title"] = *in.Title
	}
	if in.Description != nil {
		attrs["description"] = *in.Description
	}
	if in.Status != nil {
		attrs["status"] = *in.Status
	}
	if in.DueDate != nil {
		attrs["dueDate"] = *in.DueDate
	}
	if in.Image != nil {
		attrs["image"] = *in.Image
	}

	task, err := s.repo.Update(ctx, userID, itemID, attrs)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, domain.NewTaskItemEvent(domain.EventTaskItemUpdated, userID, itemID))
	return task, nil
}

// List returns one page of the caller's tasks plus the continuation key for
// the next page.
func (s *TaskService) List(ctx context.Context, userID, lastEvaluatedKey string, filter *domain.Filter) ([]domain.TaskItem, string, error) {
	return s.repo.List(ctx, userID, lastEvaluatedKey, filter)
}

// Delete removes a task, or reports NotFound when it does not exist.
func (s *TaskService) Delete(ctx context.Context, userID, itemID string) error {
	if err := s.repo.Delete(ctx, userID, itemID); err != nil {
		return err
	}

	s.publish(ctx, domain.NewTaskItemEvent(domain.EventTaskItemDeleted, userID, itemID))
	return nil
}

// publish sends an event after a successful write. Publishing failures are
// logged, not surfaced: the write already happened and is not rolled back.
func (s *TaskService) publish(ctx context.Context, event domain.Event) {
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event",
			zap.String("eventType", event.EventType()),
			zap.Error(err),
		)
	}
}
