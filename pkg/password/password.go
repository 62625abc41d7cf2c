package password

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// Stored format: "pbkdf2$<salt_b64>$<hash_b64>"
const (
	prefix     = "pbkdf2"
	iterations = 200_000
	saltLen    = 16
	keyLen     = 32
)

// Hash derives a PBKDF2-HMAC-SHA256 hash with a fresh random salt.
func Hash(plain string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	dk := pbkdf2.Key([]byte(plain), salt, iterations, keyLen, sha256.New)
	return prefix + "$" +
		base64.StdEncoding.EncodeToString(salt) + "$" +
		base64.StdEncoding.EncodeToString(dk), nil
}

// Verify checks plain against a stored hash. Malformed hashes verify false,
// never panic.
func Verify(plain, stored string) bool {
	salt, expected, err := decode(stored)
	if err != nil {
		return false
	}
	dk := pbkdf2.Key([]byte(plain), salt, iterations, keyLen, sha256.New)
	return hmac.Equal(dk, expected)
}

func decode(stored string) (salt, hash []byte, err error) {
	parts := strings.SplitN(stored, "$", 3)
	if len(parts) != 3 || parts[0] != prefix {
		return nil, nil, errors.New("malformed password hash")
	}
	salt, err = base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, nil, err
	}
	hash, err = base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return nil, nil, err
	}
	return salt, hash, nil
}
