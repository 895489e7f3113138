// Package cmd wires the operator CLI: pull and push run one reconciliation
// pass for a client tab, status shows recent sync activity, clients checks
// the schema registry.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/Vaibhavkaremgar/automation-dash-sub000/internal/config"
	"github.com/Vaibhavkaremgar/automation-dash-sub000/internal/model"
	"github.com/Vaibhavkaremgar/automation-dash-sub000/internal/outfmt"
)

const version = "0.3.0"

type RootFlags struct {
	Output  string `help:"Output format: text|json" default:"text" short:"o"`
	User    int64  `help:"User (tenant) id owning the records" default:"1" short:"u"`
	Account string `help:"Google account whose stored refresh token is used" short:"a"`
	Verbose bool   `help:"Enable debug logging" short:"v"`
}

type CLI struct {
	RootFlags `embed:""`

	Version kong.VersionFlag `help:"Print version and exit"`

	Pull    PullCmd    `cmd:"" help:"Sync a client's sheet tab into the local database"`
	Push    PushCmd    `cmd:"" help:"Sync local database records onto a client's sheet tab"`
	Status  StatusCmd  `cmd:"" help:"Show recent sync activity for a user"`
	Clients ClientsCmd `cmd:"" help:"Validate and list the client schema registry"`
	Auth    AuthCmd    `cmd:"" help:"Manage stored Google refresh tokens"`
}

// Execute parses args and runs the selected command.
func Execute(args []string) error {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name(config.AppName),
		kong.Description("Keeps insurance customer records in step between Google Sheets and the local database."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)
	if err != nil {
		return err
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		return &ExitError{Code: 2, Err: err}
	}

	mode, err := outfmt.Parse(cli.Output)
	if err != nil {
		return usage(err.Error())
	}
	ctx := outfmt.WithMode(context.Background(), mode)

	kctx.BindTo(ctx, (*context.Context)(nil))
	kctx.Bind(&cli.RootFlags)

	if err := kctx.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "insurancesync:", err)
		return err
	}
	return nil
}

// parseTabType maps the --tab flag to a tab type.
func parseTabType(s string) (model.TabType, error) {
	switch model.TabType(s) {
	case model.TabGeneral:
		return model.TabGeneral, nil
	case model.TabLife:
		return model.TabLife, nil
	default:
		return "", usage(fmt.Sprintf("invalid --tab %q (expected general|life)", s))
	}
}
