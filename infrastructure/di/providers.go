package di

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awscognito "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-xray-sdk-go/instrumentation/awsv2"
	"go.uber.org/zap"

	"tasklist-backend/application/identity"
	"tasklist-backend/application/ports"
	"tasklist-backend/application/services"
	"tasklist-backend/infrastructure/config"
	cognitoidp "tasklist-backend/infrastructure/identity/cognito"
	"tasklist-backend/infrastructure/messaging/eventbridge"
	"tasklist-backend/infrastructure/persistence/dynamodb"
	"tasklist-backend/interfaces/http/rest"
	"tasklist-backend/interfaces/http/rest/handlers"
	"tasklist-backend/interfaces/http/rest/middleware"
	"tasklist-backend/pkg/auth"
	apperrors "tasklist-backend/pkg/errors"
	"tasklist-backend/pkg/observability"
)

// ProvideLogger creates the process logger.
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates the shared AWS client configuration, with X-Ray
// instrumentation on every client when tracing is enabled.
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return aws.Config{}, err
	}

	if cfg.EnableTracing {
		awsv2.AWSV2Instrumentor(&awsCfg.APIOptions)
	}
	return awsCfg, nil
}

// ProvideDynamoDBClient creates a DynamoDB client.
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client.
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client.
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideCognitoClient creates a Cognito identity provider client.
func ProvideCognitoClient(awsCfg aws.Config) *awscognito.Client {
	return awscognito.NewFromConfig(awsCfg)
}

// ProvideTaskRepository creates the task item repository.
func ProvideTaskRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.TaskRepository {
	return dynamodb.NewTaskRepository(client, cfg.TaskItemTable, cfg.PageSize, logger)
}

// ProvideUserRepository creates the user repository.
func ProvideUserRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.UserRepository {
	return dynamodb.NewUserRepository(client, cfg.UserTable, cfg.PageSize, logger)
}

// ProvideEventPublisher creates the domain event publisher.
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideIdentityProvider creates the Cognito-backed identity provider.
func ProvideIdentityProvider(client *awscognito.Client, cfg *config.Config, logger *zap.Logger) ports.IdentityProvider {
	return cognitoidp.NewIdentityProvider(client, cfg.CognitoUserPoolID, logger)
}

// ProvideTaskService creates the task service.
func ProvideTaskService(repo ports.TaskRepository, events ports.EventPublisher, logger *zap.Logger) *services.TaskService {
	return services.NewTaskService(repo, events, logger)
}

// ProvideUserService creates the user service.
func ProvideUserService(repo ports.UserRepository, events ports.EventPublisher, logger *zap.Logger) *services.UserService {
	return services.NewUserService(repo, events, logger)
}

// ProvidePreSignUpService creates the pre-signup hook service.
func ProvidePreSignUpService(idp ports.IdentityProvider, cfg *config.Config, logger *zap.Logger) *identity.PreSignUpService {
	return identity.NewPreSignUpService(idp, cfg.AutoVerifyUsers, logger)
}

// ProvidePictureFetcher creates the profile picture fetcher.
func ProvidePictureFetcher() identity.PictureFetcher {
	return identity.NewImageFetcher()
}

// ProvidePreTokenService creates the pre-token-generation hook service.
func ProvidePreTokenService(users *services.UserService, idp ports.IdentityProvider, pictures identity.PictureFetcher, logger *zap.Logger) *identity.PreTokenService {
	return identity.NewPreTokenService(users, idp, pictures, logger)
}

// ProvideMetrics creates the CloudWatch metrics emitter.
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config, logger *zap.Logger) *observability.Metrics {
	namespace := fmt.Sprintf("TaskList/%s", cfg.Environment)
	return observability.NewMetrics(client, namespace, cfg.EnableMetrics, logger)
}

// ProvideErrorHandler creates the HTTP error handler.
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *apperrors.Handler {
	return apperrors.NewHandler(logger, cfg.IsProduction())
}

// ProvideTokenVerifier creates the Cognito ID token verifier.
func ProvideTokenVerifier(cfg *config.Config) middleware.TokenVerifier {
	return auth.NewCognitoVerifier(cfg.AWSRegion, cfg.CognitoUserPoolID, cfg.CognitoUserPoolClient)
}

// ProvideAuthenticator creates the authentication middleware.
func ProvideAuthenticator(verifier middleware.TokenVerifier, errors *apperrors.Handler, cfg *config.Config, logger *zap.Logger) *middleware.Authenticator {
	return middleware.NewAuthenticator(verifier, errors, logger, cfg.RunningInLambda)
}

// ProvideTaskHandler creates the task routes handler.
func ProvideTaskHandler(tasks *services.TaskService, errors *apperrors.Handler, logger *zap.Logger) *handlers.TaskHandler {
	return handlers.NewTaskHandler(tasks, errors, logger)
}

// ProvideUserHandler creates the user routes handler.
func ProvideUserHandler(users *services.UserService, errors *apperrors.Handler, logger *zap.Logger) *handlers.UserHandler {
	return handlers.NewUserHandler(users, errors, logger)
}

// ProvideRouter creates the HTTP router.
func ProvideRouter(
	tasks *handlers.TaskHandler,
	users *handlers.UserHandler,
	authenticator *middleware.Authenticator,
	metrics *observability.Metrics,
	errors *apperrors.Handler,
	logger *zap.Logger,
) *rest.Router {
	return rest.NewRouter(tasks, users, authenticator, metrics, errors, logger)
}
