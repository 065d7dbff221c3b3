package errors_test

import (
	"fmt"
	"testing"

	apperrors "github.com/jrsteele09/go-inventory-dashboard/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	t.Run("matches ErrValidation", func(t *testing.T) {
		err := apperrors.NewValidation("email", "required")
		require.ErrorIs(t, err, apperrors.ErrValidation)
		require.Equal(t, "email: required", err.Error())
	})

	t.Run("survives wrapping", func(t *testing.T) {
		err := fmt.Errorf("login: %w", apperrors.NewValidation("", "Por favor completa todos los campos"))
		require.ErrorIs(t, err, apperrors.ErrValidation)

		var ve *apperrors.ValidationError
		require.True(t, apperrors.As(err, &ve))
		require.Equal(t, "Por favor completa todos los campos", ve.Message)
	})
}

func TestWrapf(t *testing.T) {
	require.NoError(t, apperrors.Wrapf(nil, "ignored"))

	err := apperrors.Wrapf(apperrors.ErrUnauthorized, "GET %s", "/users/me/")
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
	require.Equal(t, "GET /users/me/: unauthorized", err.Error())
}
