package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/ehr/safesurgery/internal/platform/tablestore"
)

// CredentialsDataset is the name of the credentials file in the data
// directory.
const CredentialsDataset = "credentials"

// ErrInvalidCredentials is the single failure reported for a bad login, so
// unknown users and wrong passwords look the same.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Credential is one row of the credentials file.
type Credential struct {
	Username string `json:"username"`
	Password string `json:"-"`
	Role     string `json:"role"`
}

// Authenticator validates a username and password.
type Authenticator interface {
	Authenticate(username, password string) (*Credential, error)
}

// CredentialStore reads (username, password, role) rows. The file is read on
// every attempt so edits take effect without a restart.
type CredentialStore struct {
	ds *tablestore.Dataset
}

// NewCredentialStore returns a store over the credentials dataset of store.
func NewCredentialStore(store *tablestore.Store) *CredentialStore {
	return &CredentialStore{ds: store.Dataset(CredentialsDataset, "username", "password", "role")}
}

// Authenticate returns the first row whose username and password both
// match. Passwords are stored either in plain text or as bcrypt hashes.
func (s *CredentialStore) Authenticate(username, password string) (*Credential, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	t := s.ds.Load()
	for i := 0; i < t.Len(); i++ {
		if t.Field(i, "username") != username {
			continue
		}
		if !passwordMatches(t.Field(i, "password"), password) {
			continue
		}
		return &Credential{
			Username: username,
			Role:     strings.TrimSpace(t.Field(i, "role")),
		}, nil
	}
	return nil, ErrInvalidCredentials
}

func passwordMatches(stored, given string) bool {
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

// HashPassword returns a bcrypt hash suitable for the password column.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
