package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Vaibhavkaremgar/automation-dash-sub000/internal/outfmt"
	"github.com/Vaibhavkaremgar/automation-dash-sub000/internal/secrets"
)

// AuthCmd manages the stored Google refresh tokens the sheet adapter
// authenticates with.
type AuthCmd struct {
	SetToken AuthSetTokenCmd `cmd:"" name:"set-token" help:"Store a refresh token for an account"`
	List     AuthListCmd     `cmd:"" help:"List accounts with a stored token"`
}

// AuthSetTokenCmd writes a refresh token into the keyring. The token is read
// from stdin when the flag is omitted, so it never lands in shell history.
type AuthSetTokenCmd struct {
	Account string `arg:"" help:"Google account email"`
	Token   string `help:"Refresh token; read from stdin when omitted"`
}

func (c *AuthSetTokenCmd) Run(ctx context.Context, flags *RootFlags) error {
	account := strings.TrimSpace(c.Account)
	if account == "" {
		return usage("empty account")
	}

	token := strings.TrimSpace(c.Token)
	if token == "" {
		fmt.Fprint(os.Stderr, "refresh token: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read token from stdin: %w", err)
		}
		token = strings.TrimSpace(line)
	}
	if token == "" {
		return usage("empty refresh token")
	}

	store, err := secrets.Open()
	if err != nil {
		return err
	}
	if err := store.SetToken(account, token); err != nil {
		return err
	}

	if outfmt.IsJSON(ctx) {
		return outfmt.WriteJSON(os.Stdout, map[string]any{"account": account, "stored": true})
	}
	return outfmt.WriteKV(os.Stdout, "account", account, "stored", "true")
}

// AuthListCmd lists the accounts that have a token in the keyring.
type AuthListCmd struct{}

func (c *AuthListCmd) Run(ctx context.Context, flags *RootFlags) error {
	store, err := secrets.Open()
	if err != nil {
		return err
	}

	accounts, err := store.Accounts()
	if err != nil {
		return err
	}

	if outfmt.IsJSON(ctx) {
		return outfmt.WriteJSON(os.Stdout, map[string]any{"accounts": accounts})
	}
	if len(accounts) == 0 {
		fmt.Println("no stored tokens")
		return nil
	}
	for _, a := range accounts {
		fmt.Println(a)
	}
	return nil
}
