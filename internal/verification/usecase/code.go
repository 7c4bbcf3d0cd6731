package usecase

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"math/big"
	mrand "math/rand/v2"
	"strconv"

	"github.com/shandysiswandi/ecclesia/internal/verification/entity"
)

var codeSpan = big.NewInt(entity.CodeMax - entity.CodeMin + 1)

// CryptoCodes draws codes uniformly from [100000, 999999] using crypto/rand.
type CryptoCodes struct{}

func (CryptoCodes) Generate() string {
	n, err := rand.Int(rand.Reader, codeSpan)
	if err != nil {
		slog.Warn("crypto random source failed, falling back to math/rand", "error", err)
		//nolint:gosec // fallback only when the OS entropy source is unavailable
		return strconv.Itoa(entity.CodeMin + mrand.IntN(entity.CodeMax-entity.CodeMin+1))
	}
	return strconv.FormatInt(entity.CodeMin+n.Int64(), 10)
}

func newSalt() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
