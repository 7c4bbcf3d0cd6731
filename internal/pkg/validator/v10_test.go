package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Email     string `json:"email" validate:"required,emailaddr"`
	FirstName string `json:"firstName" validate:"required,minrunes=2"`
	Password  string `validate:"omitempty,password"`
	Internal  string `json:"-"`
}

func TestV10Validator(t *testing.T) {
	v, err := NewV10Validator()
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, v.Validate(signup{Email: "jane@example.com", FirstName: "Jane", Password: "longenough"}))
	})

	t.Run("required fields keep declaration order", func(t *testing.T) {
		err := v.Validate(signup{})

		var ve *ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, []string{"email", "firstName"}, ve.Fields())
		assert.Equal(t, "required", ve.Tag("email"))
		assert.Equal(t, "required", ve.Tag("firstName"))
		assert.Equal(t, "email is a required field", ve.Values()["email"])
	})

	t.Run("custom rules", func(t *testing.T) {
		err := v.Validate(signup{Email: "jane@example", FirstName: " J ", Password: "short"})

		var ve *ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, "emailaddr", ve.Tag("email"))
		assert.Equal(t, "minrunes", ve.Tag("firstName"))
		assert.Equal(t, "password", ve.Tag("password"))
		assert.Equal(t, "password must be 8-72 characters", ve.Values()["password"])
		assert.Equal(t, "email must be a valid email address", ve.Values()["email"])
		assert.Empty(t, ve.Tag("internal"))
	})

	t.Run("email with whitespace is rejected", func(t *testing.T) {
		err := v.Validate(signup{Email: "jane doe@example.com", FirstName: "Jane"})
		var ve *ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, "emailaddr", ve.Tag("email"))
	})

	t.Run("non struct", func(t *testing.T) {
		err := v.Validate("x")
		var ve *ValidationError
		assert.Error(t, err)
		assert.False(t, errors.As(err, &ve))
	})
}
