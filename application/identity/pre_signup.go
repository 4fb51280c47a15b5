package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"tasklist-backend/application/ports"
	apperrors "tasklist-backend/pkg/errors"
)

// Cognito lowercases the provider prefix of federated usernames (e.g.
// google_1234), but AdminLinkProviderForUser requires the provider name with
// its original capitalization. This map is the set of supported providers.
var providerNames = map[string]string{
	"google": "Google",
}

// Trigger sources delivered to the pre-signup hook.
const (
	triggerSourceSignUp           = "PreSignUp_SignUp"
	triggerSourceAdminCreateUser  = "PreSignUp_AdminCreateUser"
	triggerSourceExternalProvider = "PreSignUp_ExternalProvider"
)

// PreSignUpService handles the identity provider's pre-registration hook:
// linking federated identities to native accounts and optionally
// auto-verifying native signups.
type PreSignUpService struct {
	idp             ports.IdentityProvider
	autoVerifyUsers bool
	logger          *zap.Logger
}

// NewPreSignUpService creates the pre-signup hook service.
func NewPreSignUpService(idp ports.IdentityProvider, autoVerifyUsers bool, logger *zap.Logger) *PreSignUpService {
	return &PreSignUpService{
		idp:             idp,
		autoVerifyUsers: autoVerifyUsers,
		logger:          logger,
	}
}

// Handle processes one pre-signup event and returns it with the response
// fields filled in. Errors propagate to the identity provider, which
// surfaces them as a failed signup.
func (s *PreSignUpService) Handle(ctx context.Context, event events.CognitoEventUserPoolsPreSignup) (events.CognitoEventUserPoolsPreSignup, error) {
	s.logger.Info("pre-signup hook invoked",
		zap.String("triggerSource", event.TriggerSource),
		zap.String("userName", event.UserName),
	)

	switch event.TriggerSource {
	case triggerSourceExternalProvider:
		if err := s.handleExternalProvider(ctx, event); err != nil {
			return event, err
		}
	case triggerSourceSignUp, triggerSourceAdminCreateUser:
		if s.autoVerifyUsers {
			event.Response.AutoConfirmUser = true
			event.Response.AutoVerifyEmail = true
		}
	}

	return event, nil
}

// handleExternalProvider links the federated identity to a native account,
// creating one first when no account with the same email exists yet.
func (s *PreSignUpService) handleExternalProvider(ctx context.Context, event events.CognitoEventUserPoolsPreSignup) error {
	providerName, providerUserID, err := splitFederatedUserName(event.UserName)
	if err != nil {
		return err
	}

	attrs := event.Request.UserAttributes
	email := attrs["email"]

	username, err := s.idp.FindUsernameByEmail(ctx, email)
	if err != nil {
		return err
	}

	if username == "" {
		// Cognito cannot link a native account created later to an
		// existing federated one, so provision the native account now.
		// The random permanent password is never disclosed; the user
		// signs in through the provider or a password reset.
		username, err = s.idp.CreateUser(ctx, email, fullName(attrs))
		if err != nil {
			return err
		}

		password, err := randomPassword()
		if err != nil {
			return err
		}
		if err := s.idp.SetPermanentPassword(ctx, username, password); err != nil {
			return err
		}

		s.logger.Info("created native account for federated signup",
			zap.String("username", username),
			zap.String("provider", providerName),
		)
	}

	return s.idp.LinkProvider(ctx, username, providerName, providerUserID)
}

// splitFederatedUserName parses a federated username like google_1234 into
// the correctly capitalized provider name and the provider's user id.
func splitFederatedUserName(userName string) (string, string, error) {
	parts := strings.SplitN(userName, "_", 2)
	if len(parts) != 2 {
		return "", "", apperrors.NewValidationError(
			fmt.Sprintf("malformed federated username %q", userName))
	}

	providerName, ok := providerNames[strings.ToLower(parts[0])]
	if !ok {
		return "", "", apperrors.NewValidationError(
			fmt.Sprintf("unsupported identity provider %q", parts[0]))
	}

	return providerName, parts[1], nil
}

func randomPassword() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating password: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
