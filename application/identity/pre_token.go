package identity

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tasklist-backend/application/ports"
	"tasklist-backend/application/services"
	"tasklist-backend/domain"
	"tasklist-backend/pkg/observability"
)

// customUserIDAttribute stores the internal user id on the identity record,
// so the API can trust userId from the token without a lookup per request.
const customUserIDAttribute = "custom:userId"

// externalProviderTypes are the provider types that mark a federated
// identity in the token's identities claim.
var externalProviderTypes = map[string]bool{
	"Google":   true,
	"Facebook": true,
	"SAML":     true,
	"OIDC":     true,
}

// PictureFetcher downloads a profile picture and returns it as an embedded
// data URI.
type PictureFetcher interface {
	FetchDataURI(ctx context.Context, imageURL string) (string, error)
}

// PreTokenService handles the identity provider's pre-token-generation
// hook: syncing the internal user record and overriding the issued token's
// claims with the internal user id.
type PreTokenService struct {
	users    *services.UserService
	idp      ports.IdentityProvider
	pictures PictureFetcher
	logger   *zap.Logger
}

// NewPreTokenService creates the pre-token hook service.
func NewPreTokenService(users *services.UserService, idp ports.IdentityProvider, pictures PictureFetcher, logger *zap.Logger) *PreTokenService {
	return &PreTokenService{
		users:    users,
		idp:      idp,
		pictures: pictures,
		logger:   logger,
	}
}

// Handle processes one pre-token-generation event. The user-record sync and
// the email-verification fix touch independent systems and run
// concurrently; a failure in either fails the hook (and thus the login).
func (s *PreTokenService) Handle(ctx context.Context, event events.CognitoEventUserPoolsPreTokenGen) (events.CognitoEventUserPoolsPreTokenGen, error) {
	attrs := event.Request.UserAttributes
	s.logger.Info("pre-token hook invoked", zap.String("userName", event.UserName))

	group, groupCtx := errgroup.WithContext(ctx)

	var user *domain.User
	group.Go(func() error {
		synced, err := s.syncUser(groupCtx, event.UserName, attrs)
		if err != nil {
			return err
		}
		user = synced
		return nil
	})

	if attrs["email"] != "" && hasExternalIdentity(attrs["identities"]) {
		group.Go(func() error {
			// Cognito resets attributes missing from the external
			// provider on every federated login, flipping
			// email_verified back to false and breaking the
			// forgot-password flow. Force it back to true.
			return s.idp.UpdateUserAttributes(groupCtx, event.UserName, map[string]string{
				"email_verified": "true",
			})
		})
	}

	if err := group.Wait(); err != nil {
		return event, err
	}

	event.Response.ClaimsOverrideDetails = events.ClaimsOverrideDetails{
		ClaimsToAddOrOverride: map[string]string{
			"userId": user.UserID,
		},
	}
	return event, nil
}

// syncUser resolves the internal user record for the identity, creating it
// on first login and writing the generated id back to the identity record.
func (s *PreTokenService) syncUser(ctx context.Context, username string, attrs map[string]string) (*domain.User, error) {
	userID := attrs[customUserIDAttribute]
	picture := attrs["picture"]

	if userID != "" {
		existing, err := s.users.Find(ctx, userID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			if picture != "" && existing.ProfilePicture == "" {
				if encoded, ok := s.fetchPicture(ctx, picture); ok {
					return s.users.Update(ctx, userID, services.UpdateUserInput{
						ProfilePicture: &encoded,
					})
				}
			}
			return existing, nil
		}
	}

	in := services.CreateUserInput{
		Name:  fullName(attrs),
		Email: attrs["email"],
	}
	if in.Name == "" {
		in.Name = in.Email
	}
	if picture != "" {
		if encoded, ok := s.fetchPicture(ctx, picture); ok {
			in.ProfilePicture = encoded
		}
	}

	user, err := s.users.Create(ctx, userID, in)
	if err != nil {
		return nil, err
	}

	if err := s.idp.UpdateUserAttributes(ctx, username, map[string]string{
		customUserIDAttribute: user.UserID,
	}); err != nil {
		return nil, err
	}

	return user, nil
}

// fetchPicture downloads and encodes the profile picture. Failures are
// logged and swallowed: the user just ends up without a picture instead of
// being unable to log in.
func (s *PreTokenService) fetchPicture(ctx context.Context, imageURL string) (string, bool) {
	var encoded string
	err := observability.TraceSegment(ctx, "FetchProfilePicture", func(ctx context.Context) error {
		var err error
		encoded, err = s.pictures.FetchDataURI(ctx, imageURL)
		return err
	})
	if err != nil {
		s.logger.Warn("failed to fetch profile picture, continuing without it",
			zap.String("url", imageURL),
			zap.Error(err),
		)
		return "", false
	}
	return encoded, true
}

// hasExternalIdentity reports whether the identities claim includes a
// federated provider.
func hasExternalIdentity(identitiesJSON string) bool {
	if identitiesJSON == "" {
		return false
	}

	var identities []struct {
		ProviderType string `json:"providerType"`
	}
	if err := json.Unmarshal([]byte(identitiesJSON), &identities); err != nil {
		return false
	}

	for _, identity := range identities {
		if externalProviderTypes[identity.ProviderType] {
			return true
		}
	}
	return false
}
