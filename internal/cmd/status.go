package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/Vaibhavkaremgar/automation-dash-sub000/internal/outfmt"
)

// StatusCmd prints the user's recent sync log entries, newest first.
type StatusCmd struct {
	Limit int `help:"Maximum entries to show" default:"20"`
}

func (c *StatusCmd) Run(ctx context.Context, flags *RootFlags) error {
	if c.Limit <= 0 {
		return usage("--limit must be positive")
	}

	app, err := newApp(flags)
	if err != nil {
		return err
	}

	db, err := app.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	entries, err := db.RecentSyncLogs(ctx, flags.User, c.Limit)
	if err != nil {
		return err
	}

	if outfmt.IsJSON(ctx) {
		return outfmt.WriteJSON(os.Stdout, map[string]any{"entries": entries})
	}

	if len(entries) == 0 {
		fmt.Println("no sync activity")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s\t%s\t%s\t%s\n",
			e.Timestamp.Format("2006-01-02 15:04:05"), e.Direction, e.Action, e.Details)
	}
	return nil
}
