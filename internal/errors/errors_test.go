package errors_test

import (
	"fmt"
	"testing"

	apperrors "github.com/jrsteele09/finvofy-auth/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnauthorizedKeepsCauseSeparateFromMessage(t *testing.T) {
	err := fmt.Errorf("handler: %w", apperrors.NewUnauthorizedError("Invalid refresh token", apperrors.ErrRefreshTokenExpired))

	var unauthorized *apperrors.UnauthorizedError
	require.True(t, apperrors.As(err, &unauthorized))
	assert.Equal(t, "Invalid refresh token", unauthorized.Message)
	assert.True(t, apperrors.Is(err, apperrors.ErrRefreshTokenExpired))
}

func TestValidationErrorIsDeterministic(t *testing.T) {
	err := apperrors.NewValidationError(map[string]string{"password": "too short", "email": "invalid"})
	assert.Equal(t, "validation failed: email: invalid; password: too short", err.Error())
}
