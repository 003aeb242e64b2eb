package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/jakechorley/shift-planner/internal/config"
)

func TestTokenStore_SaveLoadDelete(t *testing.T) {
	store := &TokenStore{Dir: filepath.Join(t.TempDir(), "tokens")}

	token, err := store.Load("test")
	require.NoError(t, err)
	assert.Nil(t, token)

	expiry := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save("test", &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		Expiry:       expiry,
	}))

	info, err := os.Stat(filepath.Join(store.Dir, "token-test.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(tokenFilePerms), info.Mode().Perm())

	token, err = store.Load("test")
	require.NoError(t, err)
	require.NotNil(t, token)
	assert.Equal(t, "access", token.AccessToken)
	assert.Equal(t, "refresh", token.RefreshToken)
	assert.True(t, expiry.Equal(token.Expiry))

	other, err := store.Load("prod")
	require.NoError(t, err)
	assert.Nil(t, other)

	require.NoError(t, store.Delete("test"))
	require.NoError(t, store.Delete("test"))
	token, err = store.Load("test")
	require.NoError(t, err)
	assert.Nil(t, token)
}

func TestTokenStore_CorruptFile(t *testing.T) {
	store := &TokenStore{Dir: t.TempDir()}
	require.NoError(t, os.WriteFile(store.path("test"), []byte("{not json"), tokenFilePerms))

	_, err := store.Load("test")
	assert.Error(t, err)
}

func TestMissingScopes(t *testing.T) {
	assert.Empty(t, missingScopes(ScopeSheets+" openid", RequiredScopes()))
	assert.Equal(t, []string{ScopeSheets}, missingScopes("openid email", RequiredScopes()))
	assert.Equal(t, []string{ScopeSheets}, missingScopes("", RequiredScopes()))
}

func TestGetOAuthConfig(t *testing.T) {
	cfg, err := GetOAuthConfig(&config.OAuthClientConfig{
		Installed: &config.OAuthClient{
			ClientID:                "client.apps.googleusercontent.com",
			ProjectID:               "shift-planner",
			AuthURI:                 "https://accounts.google.com/o/oauth2/auth",
			TokenURI:                "https://oauth2.googleapis.com/token",
			AuthProviderX509CertURL: "https://www.googleapis.com/oauth2/v1/certs",
			ClientSecret:            "secret",
			RedirectURIs:            []string{"http://localhost"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "client.apps.googleusercontent.com", cfg.ClientID)
	assert.Equal(t, []string{ScopeSheets}, cfg.Scopes)
	assert.Equal(t, "http://localhost:3000/oauth/callback", cfg.RedirectURL)
}
