package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"tasklist-backend/pkg/auth"
	apperrors "tasklist-backend/pkg/errors"
)

// Headers set by the Lambda entrypoint after the gateway authorizer has
// already validated the token. Only trusted when running behind the gateway.
const (
	HeaderGatewayAuthorized = "X-Gateway-Authorized"
	HeaderUserID            = "X-User-Id"
	HeaderUserEmail         = "X-User-Email"
	HeaderUserGroups        = "X-User-Groups"
)

// TokenVerifier validates a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*auth.Claims, error)
}

// Authenticator is the authentication middleware for all protected routes.
// It accepts either pre-authorized gateway headers (Lambda deployments) or a
// raw bearer token it verifies itself (local server).
type Authenticator struct {
	verifier     TokenVerifier
	errors       *apperrors.Handler
	logger       *zap.Logger
	trustGateway bool
}

// NewAuthenticator creates the auth middleware. trustGateway must only be
// set when the process is reachable exclusively through the API gateway.
func NewAuthenticator(verifier TokenVerifier, errors *apperrors.Handler, logger *zap.Logger, trustGateway bool) *Authenticator {
	return &Authenticator{
		verifier:     verifier,
		errors:       errors,
		logger:       logger,
		trustGateway: trustGateway,
	}
}

// Middleware authenticates the request and stores the caller in the request
// context. Requests without a verifiable identity get a 401.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := a.authenticate(r)
		if err != nil {
			a.errors.Handle(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.SetUserInContext(r.Context(), user)))
	})
}

func (a *Authenticator) authenticate(r *http.Request) (*auth.UserContext, error) {
	if a.trustGateway && r.Header.Get(HeaderGatewayAuthorized) == "true" {
		return a.fromGatewayHeaders(r)
	}
	return a.fromBearerToken(r)
}

func (a *Authenticator) fromGatewayHeaders(r *http.Request) (*auth.UserContext, error) {
	userID := r.Header.Get(HeaderUserID)
	email := r.Header.Get(HeaderUserEmail)
	if userID == "" || email == "" {
		return nil, apperrors.NewUnauthenticatedError("authorizer passed incomplete identity")
	}

	user := &auth.UserContext{UserID: userID, Email: email}
	if groups := r.Header.Get(HeaderUserGroups); groups != "" {
		user.Groups = strings.Split(groups, ",")
	}
	return user, nil
}

func (a *Authenticator) fromBearerToken(r *http.Request) (*auth.UserContext, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, apperrors.NewUnauthenticatedError("missing Authorization header")
	}

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return nil, apperrors.NewUnauthenticatedError("Authorization header is not a bearer token")
	}

	claims, err := a.verifier.Verify(r.Context(), token)
	if err != nil {
		a.logger.Debug("token verification failed", zap.Error(err))
		return nil, apperrors.NewUnauthenticatedError("invalid token")
	}
	if claims.UserID == "" || claims.Email == "" {
		return nil, apperrors.NewUnauthenticatedError("token is missing required claims")
	}

	return &auth.UserContext{
		UserID: claims.UserID,
		Email:  claims.Email,
		Groups: claims.Groups,
	}, nil
}
