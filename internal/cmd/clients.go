package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/Vaibhavkaremgar/automation-dash-sub000/internal/outfmt"
)

// ClientsCmd loads the schema registry, which validates it, and lists the
// configured clients and their tabs.
type ClientsCmd struct{}

func (c *ClientsCmd) Run(ctx context.Context, flags *RootFlags) error {
	app, err := newApp(flags)
	if err != nil {
		return err
	}

	registry, err := app.loadRegistry()
	if err != nil {
		return err
	}

	if outfmt.IsJSON(ctx) {
		return outfmt.WriteJSON(os.Stdout, registry)
	}

	keys := make([]string, 0, len(registry.Clients))
	for k := range registry.Clients {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		client := registry.Clients[key]
		fmt.Printf("%s\t%s\n", key, client.SpreadsheetID)
		for tabType, tab := range client.Tabs {
			fmt.Printf("  %s\t%s\t%d mapped columns\n", tabType, tab.Name, len(tab.Schema))
		}
	}
	return nil
}
