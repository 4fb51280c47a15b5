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

// CreateUserInput is the payload for creating a user record. The user id is
// assigned by the service (or passed explicitly by the identity sync hook),
// never taken from the payload.
type CreateUserInput struct {
	Name           string `json:"name" validate:"required,min=1,max=200"`
	Email          string `json:"email" validate:"required,email"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

// UpdateUserInput is the payload for updating a user record. Nil fields are
// left untouched.
type UpdateUserInput struct {
	Name           *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Email          *string `json:"email,omitempty" validate:"omitempty,email"`
	ProfilePicture *string `json:"profilePicture,omitempty"`
}

// UserService implements the user operations behind the /users routes and
// the identity sync hooks.
type UserService struct {
	repo   ports.UserRepository
	events ports.EventPublisher
	logger *zap.Logger
}

// NewUserService creates a user service.
func NewUserService(repo ports.UserRepository, events ports.EventPublisher, logger *zap.Logger) *UserService {
	return &UserService{
		repo:   repo,
		events: events,
		logger: logger,
	}
}

// Create validates the payload and writes a new user. When userID is empty
// a fresh id is generated; the identity sync hook passes the id it already
// holds.
func (s *UserService) Create(ctx context.Context, userID string, in CreateUserInput) (*domain.User, error) {
	if err := utils.ValidateStruct(in); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if userID == "" {
		userID = uuid.NewString()
	}

	user := &domain.User{
		UserID:         userID,
		Name:           in.Name,
		Email:          in.Email,
		ProfilePicture: in.ProfilePicture,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, domain.NewUserEvent(domain.EventUserCreated, user.UserID))
	return user, nil
}

// Get fetches a user record, or NotFound.
func (s *UserService) Get(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NewNotFoundError("User", userID)
	}
	return user, nil
}

// Find fetches a user record, returning (nil, nil) when absent. The
// pre-token hook uses it to decide between sync and create.
func (s *UserService) Find(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.Get(ctx, userID)
}

// Update validates the payload and applies the provided fields in place.
func (s *UserService) Update(ctx context.Context, userID string, in UpdateUserInput) (*domain.User, error) {
	if err := utils.ValidateStruct(in); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	attrs := map[string]interface{}{}
	if in.Name != nil {
		attrs["name"] = *in.Name
	}
	if in.Email != nil {
		attrs["email"] = *in.Email
	}
	if in.ProfilePicture != nil {
		attrs["profilePicture"] = *in.ProfilePicture
	}

	user, err := s.repo.Update(ctx, userID, attrs)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, domain.NewUserEvent(domain.EventUserUpdated, userID))
	return user, nil
}

// List returns one page of user records plus the continuation key for the
// next page.
func (s *UserService) List(ctx context.Context, lastEvaluatedKey string, filter *domain.Filter) ([]domain.User, string, error) {
	return s.repo.List(ctx, lastEvaluatedKey, filter)
}

// Delete removes a user record, or reports NotFound.
func (s *UserService) Delete(ctx context.Context, userID string) error {
	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}

	s.publish(ctx, domain.NewUserEvent(domain.EventUserDeleted, userID))
	return nil
}

func (s *UserService) publish(ctx context.Context, event domain.Event) {
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event",
			zap.String("eventType", event.EventType()),
			zap.Error(err),
		)
	}
}
