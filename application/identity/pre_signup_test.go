package identity

import (
	"context"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "tasklist-backend/pkg/errors"
)

type fakeIdentityProvider struct {
	existingUsername string

	createdEmail     string
	createdName      string
	passwordSet      bool
	linkedUsername   string
	linkedProvider   string
	linkedProviderID string
	updatedAttrs     map[string]string
	updatedUsername  string
}

func (f *fakeIdentityProvider) FindUsernameByEmail(_ context.Context, _ string) (string, error) {
	return f.existingUsername, nil
}

func (f *fakeIdentityProvider) CreateUser(_ context.Context, email, fullName string) (string, error) {
	f.createdEmail = email
	f.createdName = fullName
	return email, nil
}

func (f *fakeIdentityProvider) SetPermanentPassword(_ context.Context, _, password string) error {
	f.passwordSet = password != ""
	return nil
}

func (f *fakeIdentityProvider) LinkProvider(_ context.Context, nativeUsername, providerName, providerUserID string) error {
	f.linkedUsername = nativeUsername
	f.linkedProvider = providerName
	f.linkedProviderID = providerUserID
	return nil
}

func (f *fakeIdentityProvider) UpdateUserAttributes(_ context.Context, username string, attrs map[string]string) error {
	f.updatedUsername = username
	f.updatedAttrs = attrs
	return nil
}

func signupEvent(triggerSource, userName string, attrs map[string]string) events.CognitoEventUserPoolsPreSignup {
	event := events.CognitoEventUserPoolsPreSignup{}
	event.TriggerSource = triggerSource
	event.UserName = userName
	event.Request.UserAttributes = attrs
	return event
}

func TestPreSignUpAutoVerifiesNativeSignup(t *testing.T) {
	svc := NewPreSignUpService(&fakeIdentityProvider{}, true, zap.NewNop())

	out, err := svc.Handle(context.Background(), signupEvent(
		"PreSignUp_SignUp", "jordan@example.com",
		map[string]string{"email": "jordan@example.com"},
	))

	require.NoError(t, err)
	assert.True(t, out.Response.AutoConfirmUser)
	assert.True(t, out.Response.AutoVerifyEmail)
}

func TestPreSignUpLeavesNativeSignupWhenAutoVerifyOff(t *testing.T) {
	svc := NewPreSignUpService(&fakeIdentityProvider{}, false, zap.NewNop())

	out, err := svc.Handle(context.Background(), signupEvent(
		"PreSignUp_SignUp", "jordan@example.com",
		map[string]string{"email": "jordan@example.com"},
	))

	require.NoError(t, err)
	assert.False(t, out.Response.AutoConfirmUser)
	assert.False(t, out.Response.AutoVerifyEmail)
}

func TestPreSignUpLinksFederatedIdentityToExistingAccount(t *testing.T) {
	idp := &fakeIdentityProvider{existingUsername: "native-user"}
	svc := NewPreSignUpService(idp, false, zap.NewNop())

	_, err := svc.Handle(context.Background(), signupEvent(
		"PreSignUp_ExternalProvider", "google_109876",
		map[string]string{"email": "jordan@example.com"},
	))

	require.NoError(t, err)
	assert.Empty(t, idp.createdEmail)
	assert.Equal(t, "native-user", idp.linkedUsername)
	assert.Equal(t, "Google", idp.linkedProvider)
	assert.Equal(t, "109876", idp.linkedProviderID)
}

func TestPreSignUpCreatesAccountBeforeLinking(t *testing.T) {
	idp := &fakeIdentityProvider{}
	svc := NewPreSignUpService(idp, false, zap.NewNop())

	_, err := svc.Handle(context.Background(), signupEvent(
		"PreSignUp_ExternalProvider", "google_109876",
		map[string]string{
			"email":       "jordan@example.com",
			"given_name":  "Jordan",
			"family_name": "Lee",
		},
	))

	require.NoError(t, err)
	assert.Equal(t, "jordan@example.com", idp.createdEmail)
	assert.Equal(t, "Jordan Lee", idp.createdName)
	assert.True(t, idp.passwordSet)
	assert.Equal(t, "jordan@example.com", idp.linkedUsername)
	assert.Equal(t, "Google", idp.linkedProvider)
}

func TestPreSignUpRejectsUnsupportedProvider(t *testing.T) {
	svc := NewPreSignUpService(&fakeIdentityProvider{}, false, zap.NewNop())

	_, err := svc.Handle(context.Background(), signupEvent(
		"PreSignUp_ExternalProvider", "github_12345",
		map[string]string{"email": "jordan@example.com"},
	))

	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestPreSignUpRejectsMalformedFederatedUsername(t *testing.T) {
	svc := NewPreSignUpService(&fakeIdentityProvider{}, false, zap.NewNop())

	_, err := svc.Handle(context.Background(), signupEvent(
		"PreSignUp_ExternalProvider", "no-separator",
		map[string]string{"email": "jordan@example.com"},
	))

	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}
