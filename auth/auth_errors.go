package auth

import "errors"

// Messages returned to callers. Internal causes are logged, never returned.
const (
	MsgInvalidCredentials  = "Invalid credentials"
	MsgInactiveAccount     = "User account is inactive"
	MsgInvalidRefreshToken = "Invalid refresh token"
	MsgEmailTaken          = "User with this email already exists"
	MsgUnauthorized        = "Unauthorized"
)

var (
	ErrRefreshSignature = errors.New("refresh token signature or expiry claim rejected")
	ErrSessionReplayed  = errors.New("refresh session missing or already rotated")
	ErrSubjectMismatch  = errors.New("refresh token subject does not own the session")
)
