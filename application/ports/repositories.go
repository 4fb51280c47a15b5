package ports

import (
	"context"

	"tasklist-backend/domain"
)

// TaskRepository is the storage port for task items. Get returns (nil, nil)
// when the item does not exist; translating absence into a not-found error
// happens above this layer.
type TaskRepository interface {
	// Create writes a new task, failing with a Conflict error when an item
	// with the same key already exists.
	Create(ctx context.Context, task *domain.TaskItem) error

	Get(ctx context.Context, userID, itemID string) (*domain.TaskItem, error)

	// Update applies the given non-key attributes to an existing task and
	// returns the full updated record. Updating an absent key is a
	// NotFound error.
	Update(ctx context.Context, userID, itemID string, attrs map[string]interface{}) (*domain.TaskItem, error)

	// List returns one page of the user's tasks plus the continuation key
	// for the next page ("" when exhausted).
	List(ctx context.Context, userID, startItemID string, filter *domain.Filter) ([]domain.TaskItem, string, error)

	// Delete removes a task, failing with a NotFound error when it does
	// not exist. The underlying delete is not issued in that case.
	Delete(ctx context.Context, userID, itemID string) error
}

// UserRepository is the storage port for user records, mirroring
// TaskRepository on the single-key users table.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	Update(ctx context.Context, userID string, attrs map[string]interface{}) (*domain.User, error)
	List(ctx context.Context, startUserID string, filter *domain.Filter) ([]domain.User, string, error)
	Delete(ctx context.Context, userID string) error
}

// EventPublisher publishes domain events after successful writes.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// IdentityProvider wraps the identity provider's administrative API as used
// by the signup and token hooks.
type IdentityProvider interface {
	// FindUsernameByEmail returns the native username for an account with
	// the given email, or "" when none exists.
	FindUsernameByEmail(ctx context.Context, email string) (string, error)

	// CreateUser provisions a native account without sending an invite,
	// returning the new username.
	CreateUser(ctx context.Context, email, fullName string) (string, error)

	// SetPermanentPassword sets a permanent password, confirming the
	// account.
	SetPermanentPassword(ctx context.Context, username, password string) error

	// LinkProvider links a federated identity to a native account.
	LinkProvider(ctx context.Context, nativeUsername, providerName, providerUserID string) error

	// UpdateUserAttributes sets attributes on an identity record.
	UpdateUserAttributes(ctx context.Context, username string, attrs map[string]string) error
}
