package auth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehr/safesurgery/internal/platform/tablestore"
)

func newCredentialStore(t *testing.T, content string) *CredentialStore {
	t.Helper()
	dir := t.TempDir()
	if content != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, CredentialsDataset+".csv"), []byte(content), 0o600))
	}
	return NewCredentialStore(tablestore.New(dir, zerolog.Nop()))
}

func TestAuthenticate_Plaintext(t *testing.T) {
	store := newCredentialStore(t, "username,password,role\nadmin,admin123,Administrador\nenfermera1,clave,Enfermeria\n")

	cred, err := store.Authenticate("enfermera1", "clave")
	require.NoError(t, err)
	assert.Equal(t, "enfermera1", cred.Username)
	assert.Equal(t, RoleEnfermeria, cred.Role)
}

func TestAuthenticate_Bcrypt(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	store := newCredentialStore(t, "username,password,role\ncirujano1,"+hash+",Cirujano\n")

	cred, err := store.Authenticate("cirujano1", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, RoleCirujano, cred.Role)

	_, err = store.Authenticate("cirujano1", hash)
	assert.ErrorIs(t, err, ErrInvalidCredentials, "the hash itself must not work as a password")
}

func TestAuthenticate_FailuresAreIndistinguishable(t *testing.T) {
	store := newCredentialStore(t, "username,password,role\nadmin,admin123,Administrador\n")

	_, unknownUser := store.Authenticate("nobody", "admin123")
	_, wrongPassword := store.Authenticate("admin", "wrong")
	_, empty := store.Authenticate("", "")

	for _, err := range []error{unknownUser, wrongPassword, empty} {
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Equal(t, ErrInvalidCredentials.Error(), err.Error())
	}
}

func TestAuthenticate_FirstMatchingRowWins(t *testing.T) {
	store := newCredentialStore(t, "username,password,role\nana,uno,Enfermeria\nana,dos,Cirujano\n")

	cred, err := store.Authenticate("ana", "dos")
	require.NoError(t, err)
	assert.Equal(t, RoleCirujano, cred.Role)
}

func TestAuthenticate_MissingFile(t *testing.T) {
	store := newCredentialStore(t, "")

	_, err := store.Authenticate("admin", "admin123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_RereadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, CredentialsDataset+".csv")
	store := NewCredentialStore(tablestore.New(dir, zerolog.Nop()))

	_, err := store.Authenticate("nuevo", "pw")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, os.WriteFile(path, []byte("username,password,role\nnuevo,pw,Enfermeria\n"), 0o600))
	_, err = store.Authenticate("nuevo", "pw")
	assert.NoError(t, err)
}

func TestHashPassword_Empty(t *testing.T) {
	_, err := HashPassword("")
	assert.Error(t, err)
}
