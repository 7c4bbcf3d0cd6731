package hash

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHMACSHA256(t *testing.T) {
	h := NewHMACSHA256("server-secret")

	sum, err := h.Hash("salt:123456")
	require.NoError(t, err)
	assert.Len(t, sum, 64)

	assert.True(t, h.Verify(string(sum), "salt:123456"))
	assert.False(t, h.Verify(string(sum), "salt:123457"))
	assert.False(t, NewHMACSHA256("other").Verify(string(sum), "salt:123456"))
}

func TestPasswordHashers(t *testing.T) {
	for _, driver := range []string{"", DriverBcrypt, DriverArgon2id} {
		t.Run("driver="+driver, func(t *testing.T) {
			h, err := NewPassword(PasswordConfig{Driver: driver, Pepper: "pep", BcryptCost: 4})
			require.NoError(t, err)

			hashed, err := h.Hash("s3cret-pass")
			require.NoError(t, err)

			assert.True(t, h.Verify(string(hashed), "s3cret-pass"))
			assert.False(t, h.Verify(string(hashed), "wrong-pass"))
			assert.False(t, h.Verify("", "s3cret-pass"))
		})
	}
}

func TestNewPassword_UnknownDriver(t *testing.T) {
	_, err := NewPassword(PasswordConfig{Driver: "md5"})
	assert.Error(t, err)
}

func TestBcrypt_TooLong(t *testing.T) {
	_, err := NewBcrypt(4, "").Hash(strings.Repeat("a", 73))
	assert.ErrorIs(t, err, ErrTooLong)
}

func TestArgon2id_RejectsMalformed(t *testing.T) {
	h := NewArgon2id("")
	assert.False(t, h.Verify("$bcrypt$v=19$m=1,t=1,p=1$AA$AA", "x"))
	assert.False(t, h.Verify("$argon2id$v=1$m=1,t=1,p=1$AA$AA", "x"))
	assert.False(t, h.Verify("not-a-hash", "x"))
}
