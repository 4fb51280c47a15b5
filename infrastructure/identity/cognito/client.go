package cognito

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"tasklist-backend/application/ports"
)

// nativeProviderName is the provider name of non-federated accounts.
const nativeProviderName = "Cognito"

// providerSubjectAttribute is the attribute Cognito matches federated
// identities on when linking accounts.
const providerSubjectAttribute = "Cognito_Subject"

// IdentityProvider implements ports.IdentityProvider against a Cognito user
// pool.
type IdentityProvider struct {
	client     *cognitoidentityprovider.Client
	userPoolID string
	logger     *zap.Logger
}

// NewIdentityProvider creates a Cognito-backed identity provider client.
func NewIdentityProvider(client *cognitoidentityprovider.Client, userPoolID string, logger *zap.Logger) ports.IdentityProvider {
	return &IdentityProvider{
		client:     client,
		userPoolID: userPoolID,
		logger:     logger,
	}
}

// FindUsernameByEmail returns the username of the first account matching the
// email, or "" when none exists.
func (p *IdentityProvider) FindUsernameByEmail(ctx context.Context, email string) (string, error) {
	out, err := p.client.ListUsers(ctx, &cognitoidentityprovider.ListUsersInput{
		UserPoolId: aws.String(p.userPoolID),
		Filter:     aws.String(fmt.Sprintf("email = %q", email)),
	})
	if err != nil {
		return "", wrapAPIError("listing users by email", err)
	}

	if len(out.Users) == 0 {
		return "", nil
	}
	return aws.ToString(out.Users[0].Username), nil
}

// CreateUser provisions a native account with a pre-verified email and no
// invite message.
func (p *IdentityProvider) CreateUser(ctx context.Context, email, fullName string) (string, error) {
	out, err := p.client.AdminCreateUser(ctx, &cognitoidentityprovider.AdminCreateUserInput{
		UserPoolId:    aws.String(p.userPoolID),
		Username:      aws.String(email),
		MessageAction: types.MessageActionTypeSuppress,
		UserAttributes: []types.AttributeType{
			{Name: aws.String("name"), Value: aws.String(fullName)},
			{Name: aws.String("email"), Value: aws.String(email)},
			{Name: aws.String("email_verified"), Value: aws.String("true")},
		},
	})
	if err != nil {
		return "", wrapAPIError("creating user", err)
	}

	username := aws.ToString(out.User.Username)
	p.logger.Info("created native identity account", zap.String("username", username))
	return username, nil
}

// SetPermanentPassword sets a permanent password, which also confirms the
// account.
func (p *IdentityProvider) SetPermanentPassword(ctx context.Context, username, password string) error {
	_, err := p.client.AdminSetUserPassword(ctx, &cognitoidentityprovider.AdminSetUserPasswordInput{
		UserPoolId: aws.String(p.userPoolID),
		Username:   aws.String(username),
		Password:   aws.String(password),
		Permanent:  true,
	})
	if err != nil {
		return wrapAPIError("setting user password", err)
	}
	return nil
}

// LinkProvider links a federated identity to a native account.
func (p *IdentityProvider) LinkProvider(ctx context.Context, nativeUsername, providerName, providerUserID string) error {
	_, err := p.client.AdminLinkProviderForUser(ctx, &cognitoidentityprovider.AdminLinkProviderForUserInput{
		UserPoolId: aws.String(p.userPoolID),
		SourceUser: &types.ProviderUserIdentifierType{
			ProviderName:           aws.String(providerName),
			ProviderAttributeName:  aws.String(providerSubjectAttribute),
			ProviderAttributeValue: aws.String(providerUserID),
		},
		DestinationUser: &types.ProviderUserIdentifierType{
			ProviderName:           aws.String(nativeProviderName),
			ProviderAttributeValue: aws.String(nativeUsername),
		},
	})
	if err != nil {
		return wrapAPIError("linking provider", err)
	}

	p.logger.Info("linked federated identity",
		zap.String("username", nativeUsername),
		zap.String("provider", providerName),
	)
	return nil
}

// UpdateUserAttributes sets attributes on an identity record.
func (p *IdentityProvider) UpdateUserAttributes(ctx context.Context, username string, attrs map[string]string) error {
	userAttrs := make([]types.AttributeType, 0, len(attrs))
	for name, value := range attrs {
		userAttrs = append(userAttrs, types.AttributeType{
			Name:  aws.String(name),
			Value: aws.String(value),
		})
	}

	_, err := p.client.AdminUpdateUserAttributes(ctx, &cognitoidentityprovider.AdminUpdateUserAttributesInput{
		UserPoolId:     aws.String(p.userPoolID),
		Username:       aws.String(username),
		UserAttributes: userAttrs,
	})
	if err != nil {
		return wrapAPIError("updating user attributes", err)
	}
	return nil
}

// wrapAPIError includes the service error code in the wrapped message when
// one is available.
func wrapAPIError(op string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s (%s): %w", op, apiErr.ErrorCode(), err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
