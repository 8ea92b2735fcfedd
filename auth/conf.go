package auth

import (
	"errors"

	"golang.org/x/oauth2/clientcredentials"
)

// Conf holds the OAuth2 client credentials used to reach protected roster
// exports. An empty Conf disables authentication.
type Conf struct {
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	AuthURL      string   `json:"auth_url"`
	Scopes       []string `json:"scopes"`
}

// Enabled reports whether credentials are configured.
func (c Conf) Enabled() bool { return c.ClientID != "" }

// Validate checks that enabled credentials are complete.
func (c Conf) Validate() error {
	if !c.Enabled() {
		return nil
	}
	if c.ClientSecret == "" || c.AuthURL == "" {
		return errors.New("auth: client_secret and auth_url are required with client_id")
	}
	return nil
}

func (c Conf) toOauth2Config() clientcredentials.Config {
	return clientcredentials.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		TokenURL:     c.AuthURL,
		Scopes:       c.Scopes,
	}
}
