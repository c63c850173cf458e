package models

import "fmt"

// AuthErrorKind classifies why a connection could not be authenticated
type AuthErrorKind string

const (
	// AuthMissingCredential means the handshake carried no session cookie
	AuthMissingCredential AuthErrorKind = "missing_credential"
	// AuthMalformedCredential means the cookie could not be decoded, not even unverified
	AuthMalformedCredential AuthErrorKind = "malformed_credential"
	// AuthNoUserID means the session payload has no user_id
	AuthNoUserID AuthErrorKind = "no_user_id"
	// AuthUnknownUser means user_id does not resolve to a user record
	AuthUnknownUser AuthErrorKind = "unknown_user"
	// AuthStoreUnavailable means the user store could not be queried
	AuthStoreUnavailable AuthErrorKind = "store_unavailable"
)

// AuthError is returned when no usable identity can be recovered from a handshake
type AuthError struct {
	Kind AuthErrorKind
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication failed (%s): %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("authentication failed (%s)", e.Kind)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// NewAuthError builds an AuthError of the given kind
func NewAuthError(kind AuthErrorKind, err error) *AuthError {
	return &AuthError{Kind: kind, Err: err}
}
