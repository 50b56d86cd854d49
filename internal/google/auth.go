// Package google holds the Calendar and Tasks collaborators. They sit at
// the boundary of the system: the scheduling core never imports this
// package, it only sees events the orchestrator borrowed from here.
package google

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/tasks/v1"
)

// scopes covers everything the connectors touch.
var scopes = []string{calendar.CalendarScope, tasks.TasksScope}

// OAuthConfig builds an oauth2 config either from GOOGLE_CLIENT_ID /
// GOOGLE_CLIENT_SECRET or from a credentials.json file.
func OAuthConfig(clientID, clientSecret, credentialsFile string) (*oauth2.Config, error) {
	if clientID != "" && clientSecret != "" {
		return &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  "urn:ietf:wg:oauth:2.0:oob",
			Scopes:       scopes,
			Endpoint:     google.Endpoint,
		}, nil
	}

	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("reading %s (set GOOGLE_CLIENT_ID/GOOGLE_CLIENT_SECRET or provide the file): %w", credentialsFile, err)
	}

	config, err := google.ConfigFromJSON(b, scopes...)
	if err != nil {
		return nil, fmt.Errorf("parsing client secret file: %w", err)
	}
	config.RedirectURL = "urn:ietf:wg:oauth:2.0:oob"
	return config, nil
}

// ExchangeAuthCode trades an authorization code for a token.
func ExchangeAuthCode(ctx context.Context, config *oauth2.Config, authCode string) (*oauth2.Token, error) {
	token, err := config.Exchange(ctx, authCode)
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}
	return token, nil
}

// SaveToken persists a token to a file, creating parent directories as
// needed.
func SaveToken(path string, token *oauth2.Token) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("creating token directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating token file: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}

// TokenFromFile loads a previously saved token. The oauth2 client refreshes
// it transparently when expired.
func TokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("decoding token file: %w", err)
	}
	return tok, nil
}
