package cmd

import (
	"context"
	"os"
	"strconv"

	"github.com/Vaibhavkaremgar/automation-dash-sub000/internal/outfmt"
)

// PullCmd runs one inbound pass: the sheet is the source of truth and the
// local database is reconciled to it.
type PullCmd struct {
	Client string `arg:"" help:"Client key in the registry"`
	Tab    string `help:"Tab type: general|life" default:"general"`
}

func (c *PullCmd) Run(ctx context.Context, flags *RootFlags) error {
	app, err := newApp(flags)
	if err != nil {
		return err
	}

	registry, err := app.loadRegistry()
	if err != nil {
		return err
	}
	client, err := registry.Client(c.Client)
	if err != nil {
		return err
	}
	tabType, err := parseTabType(c.Tab)
	if err != nil {
		return err
	}
	tab, err := client.Tab(tabType)
	if err != nil {
		return err
	}

	db, err := app.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	adapter, err := app.newAdapter(ctx)
	if err != nil {
		return err
	}

	s := app.newSyncer(db, adapter, registry)
	res, err := s.SyncFromSheet(ctx, flags.User, client.SpreadsheetID, tab.Name, tabType)
	if err != nil {
		return err
	}

	if outfmt.IsJSON(ctx) {
		return outfmt.WriteJSON(os.Stdout, res)
	}
	return outfmt.WriteKV(os.Stdout,
		"imported", strconv.Itoa(res.Imported),
		"updated", strconv.Itoa(res.Updated),
		"deleted", strconv.Itoa(res.Deleted),
		"skipped", strconv.Itoa(res.Skipped),
	)
}
