package hash

import "fmt"

// Hash produces and checks one-way digests of secrets.
type Hash interface {
	// Hash returns the encoded digest of str.
	Hash(str string) ([]byte, error)
	// Verify reports whether str matches a digest produced by Hash.
	Verify(hashed, str string) bool
}

const (
	// DriverBcrypt selects the bcrypt password hasher.
	DriverBcrypt = "bcrypt"
	// DriverArgon2id selects the argon2id password hasher.
	DriverArgon2id = "argon2id"
)

// PasswordConfig selects and tunes the password hasher.
type PasswordConfig struct {
	Driver     string
	Pepper     string
	BcryptCost int
}

// NewPassword returns the password hasher named by cfg.Driver. An empty driver means bcrypt.
func NewPassword(cfg PasswordConfig) (Hash, error) {
	switch cfg.Driver {
	case "", DriverBcrypt:
		return NewBcrypt(cfg.BcryptCost, cfg.Pepper), nil
	case DriverArgon2id:
		return NewArgon2id(cfg.Pepper), nil
	default:
		return nil, fmt.Errorf("hash: unknown password driver %q", cfg.Driver)
	}
}
