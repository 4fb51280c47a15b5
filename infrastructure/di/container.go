package di

import (
	"go.uber.org/zap"

	"tasklist-backend/application/identity"
	"tasklist-backend/application/services"
	"tasklist-backend/infrastructure/config"
	"tasklist-backend/interfaces/http/rest"
	apperrors "tasklist-backend/pkg/errors"
	"tasklist-backend/pkg/observability"
)

// Container holds the wired application dependencies. The API entrypoints
// use Router; the identity hook entrypoints use the hook services directly.
type Container struct {
	Config       *config.Config
	Logger       *zap.Logger
	Router       *rest.Router
	TaskService  *services.TaskService
	UserService  *services.UserService
	PreSignUp    *identity.PreSignUpService
	PreToken     *identity.PreTokenService
	Metrics      *observability.Metrics
	ErrorHandler *apperrors.Handler
}
