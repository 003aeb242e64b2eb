package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// OAuthClientPathEnv points at a client file to use instead of searching for one
const OAuthClientPathEnv = EnvPrefix + "OAUTH_CLIENT"

// OAuthClientConfig is a Google OAuth client file as downloaded from the Cloud
// console. Exactly one of Installed and Web is set.
type OAuthClientConfig struct {
	Installed *OAuthClient `json:"installed,omitempty" validate:"required_without=Web,excluded_with=Web"`
	Web       *OAuthClient `json:"web,omitempty" validate:"required_without=Installed"`
}

// OAuthClient holds the credentials of one OAuth client
type OAuthClient struct {
	ClientID                string   `json:"client_id" validate:"required"`
	ProjectID               string   `json:"project_id,omitempty"`
	AuthURI                 string   `json:"auth_uri" validate:"required,url"`
	TokenURI                string   `json:"token_uri" validate:"required,url"`
	AuthProviderX509CertURL string   `json:"auth_provider_x509_cert_url,omitempty" validate:"omitempty,url"`
	ClientSecret            string   `json:"client_secret" validate:"required"`
	RedirectURIs            []string `json:"redirect_uris,omitempty" validate:"dive,uri"`
}

// Client returns whichever client the file holds
func (c *OAuthClientConfig) Client() *OAuthClient {
	if c.Installed != nil {
		return c.Installed
	}
	return c.Web
}

// LoadOAuthClientWithEnv loads the OAuth client for an environment. The path in
// SHIFT_PLANNER_OAUTH_CLIENT wins; otherwise env="test" looks for oauthClient.test.json.
func LoadOAuthClientWithEnv(env string) (*OAuthClientConfig, error) {
	if path := os.Getenv(OAuthClientPathEnv); path != "" {
		return LoadOAuthClientFromPath(path)
	}

	path, err := findFile(oauthClientFileName(env))
	if err != nil {
		return nil, fmt.Errorf("failed to find oauth client file: %w", err)
	}

	return LoadOAuthClientFromPath(path)
}

// LoadOAuthClientFromPath loads and validates an OAuth client file
func LoadOAuthClientFromPath(path string) (*OAuthClientConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth client file: %w", err)
	}

	var oauthCfg OAuthClientConfig
	if err := json.Unmarshal(data, &oauthCfg); err != nil {
		return nil, fmt.Errorf("failed to parse oauth client file: %w", err)
	}

	if err := validate.Struct(&oauthCfg); err != nil {
		return nil, fmt.Errorf("oauth client validation failed: %w", err)
	}

	return &oauthCfg, nil
}

func oauthClientFileName(env string) string {
	if env == "" {
		return "oauthClient.json"
	}
	return "oauthClient." + env + ".json"
}
