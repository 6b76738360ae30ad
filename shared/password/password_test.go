package password_test

import (
	"strings"
	"testing"

	"cowork/shared/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	password.Cost = bcrypt.MinCost

	m.Run()
}

func TestHash(t *testing.T) {
	tests := []struct {
		name    string
		plain   string
		wantErr error
	}{
		{name: "ascii", plain: "secret1"},
		{name: "unicode", plain: "пароль123"},
		{name: "at limit", plain: strings.Repeat("a", password.MaxLength)},
		{name: "empty", plain: "", wantErr: password.ErrEmptyPassword},
		{name: "over limit", plain: strings.Repeat("a", password.MaxLength+1), wantErr: password.ErrTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hashed, err := password.Hash(tt.plain)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, hashed)

				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, tt.plain, hashed)
			assert.NoError(t, password.Verify(tt.plain, hashed))
		})
	}
}

func TestHash_Salted(t *testing.T) {
	first, err := password.Hash("secret1")
	require.NoError(t, err)

	second, err := password.Hash("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerify(t *testing.T) {
	hashed, err := password.Hash("secret1")
	require.NoError(t, err)

	tests := []struct {
		name    string
		plain   string
		hashed  string
		wantErr error
	}{
		{name: "match", plain: "secret1", hashed: hashed},
		{name: "mismatch", plain: "secret2", hashed: hashed, wantErr: password.ErrInvalidPassword},
		{name: "empty plain", plain: "", hashed: hashed, wantErr: password.ErrInvalidPassword},
		{name: "empty hash", plain: "secret1", hashed: "", wantErr: password.ErrInvalidPassword},
		{name: "malformed hash", plain: "secret1", hashed: "not-bcrypt", wantErr: bcrypt.ErrHashTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := password.Verify(tt.plain, tt.hashed)

			if tt.wantErr == nil {
				assert.NoError(t, err)

				return
			}

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
