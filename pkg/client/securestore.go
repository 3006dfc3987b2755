package client

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// SecureStore persists the authenticated profile on disk, encrypted with a
// key derived from the user's passphrase. The file layout is
// salt || nonce || ciphertext.
type SecureStore struct {
	path       string
	passphrase []byte
}

const storeSaltSize = 16

// ErrNoStoredProfile is returned by Load when no profile has been saved yet.
var ErrNoStoredProfile = errors.New("client: no stored profile")

// NewSecureStore builds a store at path. The passphrase never leaves the
// process; only the derived key touches the file.
func NewSecureStore(path, passphrase string) *SecureStore {
	return &SecureStore{path: path, passphrase: []byte(passphrase)}
}

func (s *SecureStore) deriveKey(salt []byte) []byte {
	return argon2.IDKey(s.passphrase, salt, 1, 64*1024, 4, chacha20poly1305.KeySize)
}

// Save encrypts and writes the profile, replacing any previous one.
func (s *SecureStore) Save(u *User) error {
	plaintext, err := json.Marshal(u)
	if err != nil {
		return err
	}

	salt := make([]byte, storeSaltSize)
	if _, err := rand.Read(salt); err != nil {
		return err
	}
	aead, err := chacha20poly1305.NewX(s.deriveKey(salt))
	if err != nil {
		return err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return err
	}

	blob := append(salt, nonce...)
	blob = aead.Seal(blob, nonce, plaintext, nil)

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, blob, 0o600)
}

// Load decrypts and returns the stored profile. A wrong passphrase fails
// authentication and surfaces as an error, not garbage data.
func (s *SecureStore) Load() (*User, error) {
	blob, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoStoredProfile
		}
		return nil, err
	}
	if len(blob) < storeSaltSize+chacha20poly1305.NonceSizeX {
		return nil, fmt.Errorf("client: profile store truncated")
	}

	salt := blob[:storeSaltSize]
	nonce := blob[storeSaltSize : storeSaltSize+chacha20poly1305.NonceSizeX]
	ciphertext := blob[storeSaltSize+chacha20poly1305.NonceSizeX:]

	aead, err := chacha20poly1305.NewX(s.deriveKey(salt))
	if err != nil {
		return nil, err
	}
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("client: decrypt profile: %w", err)
	}

	var u User
	if err := json.Unmarshal(plaintext, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Clear removes the stored profile. Missing file is not an error.
func (s *SecureStore) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
