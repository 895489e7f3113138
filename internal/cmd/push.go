package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/Vaibhavkaremgar/automation-dash-sub000/internal/model"
	"github.com/Vaibhavkaremgar/automation-dash-sub000/internal/outfmt"
)

// PushCmd runs one outbound pass: local database records are written onto
// the client's sheet tab.
type PushCmd struct {
	Client    string   `arg:"" help:"Client key in the registry"`
	Tab       string   `help:"Tab type: general|life" default:"general"`
	Verticals []string `help:"Restrict the pass to verticals (motor|health|non-motor|life)"`
}

func (c *PushCmd) Run(ctx context.Context, flags *RootFlags) error {
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

	verticals := make([]model.Vertical, 0, len(c.Verticals))
	for _, v := range c.Verticals {
		parsed := model.ParseVertical(v)
		if string(parsed) != v && v != "" {
			app.Log.Debug().Str("raw", v).Str("vertical", string(parsed)).Msg("vertical flag normalized")
		}
		verticals = append(verticals, parsed)
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
	res, err := s.SyncToSheet(ctx, flags.User, client.SpreadsheetID, tab.Name, tabType, verticals, nil)
	if err != nil {
		return err
	}

	if outfmt.IsJSON(ctx) {
		return outfmt.WriteJSON(os.Stdout, res)
	}
	if res.Message != "" {
		fmt.Println(res.Message)
		return nil
	}
	return outfmt.WriteKV(os.Stdout,
		"exported", strconv.Itoa(res.Exported),
		"added", strconv.Itoa(res.Added),
		"updated", strconv.Itoa(res.Updated),
		"deleted", strconv.Itoa(res.Deleted),
	)
}
