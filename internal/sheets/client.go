package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/Vaibhavkaremgar/automation-dash-sub000/internal/secrets"
)

// scope is the only Google scope this system needs.
const scope = "https://www.googleapis.com/auth/spreadsheets"

const envRefreshToken = "INSYNC_REFRESH_TOKEN" //nolint:gosec // env var name

// clientCredentials is the OAuth client identity, read from the standard
// Google "installed"/"web" credentials JSON.
type clientCredentials struct {
	ClientID     string
	ClientSecret string
}

type googleCredentialsFile struct {
	Installed *struct {
		ClientID     string `json:"client_id"`
		ClientSecret string `json:"client_secret"`
	} `json:"installed"`
	Web *struct {
		ClientID     string `json:"client_id"`
		ClientSecret string `json:"client_secret"`
	} `json:"web"`
}

func parseClientCredentials(b []byte) (clientCredentials, error) {
	var f googleCredentialsFile
	if err := json.Unmarshal(b, &f); err != nil {
		return clientCredentials{}, fmt.Errorf("decode credentials json: %w", err)
	}

	var id, secret string
	if f.Installed != nil {
		id, secret = f.Installed.ClientID, f.Installed.ClientSecret
	} else if f.Web != nil {
		id, secret = f.Web.ClientID, f.Web.ClientSecret
	}

	if id == "" || secret == "" {
		return clientCredentials{}, errors.New("invalid credentials.json (expected installed/web client_id and client_secret)")
	}
	return clientCredentials{ClientID: id, ClientSecret: secret}, nil
}

// NewAPIService builds an authenticated sheets.Service for the account,
// refreshing access tokens from the stored refresh token. Returns an
// AuthRequiredError when credentials or the token are missing; callers may
// then run with the CSV fallback only.
func NewAPIService(ctx context.Context, credentialsPath, account string) (*sheetsapi.Service, error) {
	b, err := os.ReadFile(credentialsPath) //nolint:gosec // operator-provided path
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &AuthRequiredError{Op: "client setup", Cause: err}
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	creds, err := parseClientCredentials(b)
	if err != nil {
		return nil, err
	}

	refreshToken, err := lookupRefreshToken(account)
	if err != nil {
		return nil, err
	}

	cfg := oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{scope},
	}
	ts := cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})

	svc, err := sheetsapi.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return svc, nil
}

// lookupRefreshToken prefers the keyring; the env var covers containers
// where no keyring backend is available.
func lookupRefreshToken(account string) (string, error) {
	if tok := os.Getenv(envRefreshToken); tok != "" {
		return tok, nil
	}

	store, err := secrets.Open()
	if err != nil {
		return "", err
	}

	tok, err := store.Token(account)
	if err != nil {
		if errors.Is(err, secrets.ErrNotFound) {
			return "", &AuthRequiredError{Op: "client setup", Cause: err}
		}
		return "", err
	}
	return tok, nil
}
