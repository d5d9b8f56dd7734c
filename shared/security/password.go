package security

import (
	"errors"

	"github.com/matthewhartstonge/argon2"
)

var ErrEmptyPassword = errors.New("password must not be empty")

// passwordConfig holds the argon2id parameters used for every new hash.
// Each call to HashEncoded draws a fresh random salt.
var passwordConfig = argon2.DefaultConfig()

// HashPassword hashes the plaintext password with argon2id and returns the
// PHC-encoded string, which embeds the parameters and salt.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	encoded, err := passwordConfig.HashEncoded([]byte(password))
	if err != nil {
		return "", err
	}

	return string(encoded), nil
}

// VerifyPassword reports whether password matches the encoded hash.
// The comparison is done in constant time by the argon2 library.
func VerifyPassword(password, encodedHash string) (bool, error) {
	return argon2.VerifyEncoded([]byte(password), []byte(encodedHash))
}
