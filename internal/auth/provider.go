package auth

import (
	"context"
	"errors"
)

// ChallengeNewPassword is the challenge issued to accounts that must set a
// permanent password.
const ChallengeNewPassword = "NEW_PASSWORD_REQUIRED"

// Known provider error codes.
const (
	CodeUserNotFound     = "UserNotFoundException"
	CodeNotAuthorized    = "NotAuthorizedException"
	CodeUserNotConfirmed = "UserNotConfirmedException"
)

// AuthResult is the outcome of a password authentication: either Tokens or a
// challenge with its session handle.
type AuthResult struct {
	Tokens        *Tokens
	ChallengeName string
	Session       string
}

// Provider is the identity provider contract.
type Provider interface {
	InitiatePasswordAuth(ctx context.Context, username, password string) (*AuthResult, error)
	RespondNewPassword(ctx context.Context, username, newPassword, session string) (*AuthResult, error)
}

// ProviderError is a categorised identity provider failure.
type ProviderError struct {
	Code    string
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Code
}

func (e *ProviderError) Unwrap() error { return e.Err }

// GenericErrorMessage is shown for failures without a message of their own.
const GenericErrorMessage = "An error occurred. Please try again."

// ErrorMessage maps a provider error to the text shown to the user.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		switch pe.Code {
		case CodeUserNotFound:
			return "User not found. Please check your username."
		case CodeNotAuthorized:
			return "Incorrect username or password."
		case CodeUserNotConfirmed:
			return "Please contact administrator to activate your account."
		}
		if pe.Message != "" {
			return pe.Message
		}
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return GenericErrorMessage
}
