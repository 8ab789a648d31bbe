package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/aws/smithy-go"

	"github.com/abc-assistant/assistant/internal/config"
	"github.com/abc-assistant/assistant/internal/errs"
	"github.com/abc-assistant/assistant/internal/logger"
)

// cognitoAPI is the subset of the Cognito client used by the provider.
type cognitoAPI interface {
	InitiateAuth(ctx context.Context, in *cognitoidentityprovider.InitiateAuthInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.InitiateAuthOutput, error)
	RespondToAuthChallenge(ctx context.Context, in *cognitoidentityprovider.RespondToAuthChallengeInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.RespondToAuthChallengeOutput, error)
}

// CognitoProvider authenticates against a Cognito user pool app client with
// the USER_PASSWORD_AUTH flow.
type CognitoProvider struct {
	client   cognitoAPI
	clientID string
	log      *slog.Logger
}

// ErrIdentityNotConfigured reports a missing user pool or app client id.
var ErrIdentityNotConfigured = errs.NewConfigError("admin authentication requires ASSISTANT_AUTH_USER_POOL_ID and ASSISTANT_AUTH_CLIENT_ID", nil)

// NewCognitoProvider creates a provider for cfg. The password flow needs no
// AWS credentials, so requests are sent unsigned.
func NewCognitoProvider(ctx context.Context, cfg config.AuthConfig, log *slog.Logger) (*CognitoProvider, error) {
	if !cfg.Enabled() {
		return nil, ErrIdentityNotConfigured
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(aws.AnonymousCredentials{}),
	)
	if err != nil {
		return nil, errs.NewConfigError("failed to load AWS configuration", err)
	}

	return newCognitoProvider(cognitoidentityprovider.NewFromConfig(awsCfg), cfg.ClientID, log), nil
}

func newCognitoProvider(client cognitoAPI, clientID string, log *slog.Logger) *CognitoProvider {
	if log == nil {
		log = logger.Discard()
	}
	return &CognitoProvider{
		client:   client,
		clientID: clientID,
		log:      log.With("component", "cognito"),
	}
}

func (p *CognitoProvider) InitiatePasswordAuth(ctx context.Context, username, password string) (*AuthResult, error) {
	out, err := p.client.InitiateAuth(ctx, &cognitoidentityprovider.InitiateAuthInput{
		AuthFlow: types.AuthFlowTypeUserPasswordAuth,
		ClientId: aws.String(p.clientID),
		AuthParameters: map[string]string{
			"USERNAME": username,
			"PASSWORD": password,
		},
	})
	if err != nil {
		return nil, providerError(err)
	}
	return authResult(out.AuthenticationResult, out.ChallengeName, out.Session), nil
}

func (p *CognitoProvider) RespondNewPassword(ctx context.Context, username, newPassword, session string) (*AuthResult, error) {
	out, err := p.client.RespondToAuthChallenge(ctx, &cognitoidentityprovider.RespondToAuthChallengeInput{
		ChallengeName: types.ChallengeNameTypeNewPasswordRequired,
		ClientId:      aws.String(p.clientID),
		Session:       aws.String(session),
		ChallengeResponses: map[string]string{
			"USERNAME":     username,
			"NEW_PASSWORD": newPassword,
		},
	})
	if err != nil {
		return nil, providerError(err)
	}
	return authResult(out.AuthenticationResult, out.ChallengeName, out.Session), nil
}

func authResult(res *types.AuthenticationResultType, challenge types.ChallengeNameType, session *string) *AuthResult {
	if res != nil && res.AccessToken != nil {
		return &AuthResult{Tokens: &Tokens{
			AccessToken:  aws.ToString(res.AccessToken),
			IDToken:      aws.ToString(res.IdToken),
			RefreshToken: aws.ToString(res.RefreshToken),
		}}
	}
	return &AuthResult{ChallengeName: string(challenge), Session: aws.ToString(session)}
}

// providerError converts SDK errors into ProviderError by API error code.
func providerError(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return &ProviderError{Code: apiErr.ErrorCode(), Message: apiErr.ErrorMessage(), Err: err}
	}
	return &ProviderError{Message: fmt.Sprintf("identity provider request failed: %v", err), Err: err}
}
