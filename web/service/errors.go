package service

import "errors"

// Errors surfaced by the service layer. Handlers map these onto the HTTP
// responses of the panel; anything else is treated as a backend failure.
var (
	// ErrValidation is returned when a required field is missing.
	ErrValidation = errors.New("all fields are required")

	// ErrEmailTaken is returned when registering with an email that
	// already has an account.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password. The message is deliberately the same for both so login
	// attempts cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrTwoFactorNotSetUp is returned when verifying a code for an
	// account that never provisioned a secret.
	ErrTwoFactorNotSetUp = errors.New("two-factor authentication is not set up")

	// ErrInvalidTwoFactorCode is returned when the submitted TOTP code
	// does not match the current time window.
	ErrInvalidTwoFactorCode = errors.New("invalid two-factor code")

	// ErrNoFile is returned when a profile-picture upload carries no file.
	ErrNoFile = errors.New("no file provided")
)
