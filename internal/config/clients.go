package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Vaibhavkaremgar/automation-dash-sub000/internal/model"
)

// TabConfig describes one tab of a client spreadsheet: its name and the
// mapping from internal field to the client's column header text.
type TabConfig struct {
	Name   string                 `yaml:"name"`
	Schema map[model.Field]string `yaml:"schema"`
}

// ClientConfig describes one insurance client's spreadsheet layout.
type ClientConfig struct {
	SpreadsheetID string                      `yaml:"spreadsheet_id"`
	Tabs          map[model.TabType]TabConfig `yaml:"tabs"`
}

// Registry maps client keys to their spreadsheet layouts.
type Registry struct {
	Clients map[string]ClientConfig `yaml:"clients"`
}

// LoadRegistry reads and validates the client registry YAML.
func LoadRegistry(path string) (*Registry, error) {
	b, err := os.ReadFile(path) //nolint:gosec // operator-provided path
	if err != nil {
		return nil, fmt.Errorf("read client registry: %w", err)
	}

	var reg Registry
	if err := yaml.Unmarshal(b, &reg); err != nil {
		return nil, fmt.Errorf("decode client registry: %w", err)
	}

	if err := reg.Validate(); err != nil {
		return nil, err
	}

	return &reg, nil
}

// Validate checks every client entry. Schema mistakes are configuration
// errors and must surface here, never mid-sync.
func (r *Registry) Validate() error {
	for key, client := range r.Clients {
		if client.SpreadsheetID == "" {
			return fmt.Errorf("client %q: missing spreadsheet_id", key)
		}
		if len(client.Tabs) == 0 {
			return fmt.Errorf("client %q: no tabs configured", key)
		}

		for tabType, tab := range client.Tabs {
			if tabType != model.TabGeneral && tabType != model.TabLife {
				return fmt.Errorf("client %q: unknown tab type %q", key, tabType)
			}
			if tab.Name == "" {
				return fmt.Errorf("client %q: tab %q has no sheet name", key, tabType)
			}
			if len(tab.Schema) == 0 {
				return fmt.Errorf("client %q: tab %q has an empty schema", key, tabType)
			}

			seen := make(map[string]model.Field, len(tab.Schema))
			for field, header := range tab.Schema {
				if !model.KnownField(string(field)) {
					return fmt.Errorf("client %q: tab %q maps unknown field %q", key, tabType, field)
				}
				if header == "" {
					return fmt.Errorf("client %q: tab %q: field %q has an empty header", key, tabType, field)
				}
				if prev, dup := seen[header]; dup {
					return fmt.Errorf("client %q: tab %q: header %q mapped to both %q and %q",
						key, tabType, header, prev, field)
				}
				seen[header] = field
			}

			if _, ok := tab.Schema[model.FieldName]; !ok {
				return fmt.Errorf("client %q: tab %q schema must map the name field", key, tabType)
			}
		}
	}

	return nil
}

// Client returns the configuration for a client key.
func (r *Registry) Client(key string) (ClientConfig, error) {
	c, ok := r.Clients[key]
	if !ok {
		return ClientConfig{}, fmt.Errorf("unknown client %q", key)
	}
	return c, nil
}

// Tab returns the tab configuration of the given type for a client.
// A missing tab is a SchemaMissingError: fail fast, before any I/O.
func (c ClientConfig) Tab(tabType model.TabType) (TabConfig, error) {
	tab, ok := c.Tabs[tabType]
	if !ok {
		return TabConfig{}, &SchemaMissingError{SpreadsheetID: c.SpreadsheetID, TabType: tabType}
	}
	return tab, nil
}

// SchemaMissingError reports a sync attempt against a tab type that has no
// schema registered. This is a configuration error, not a runtime condition.
type SchemaMissingError struct {
	SpreadsheetID string
	TabType       model.TabType
}

func (e *SchemaMissingError) Error() string {
	return fmt.Sprintf("no schema registered for tab type %q on spreadsheet %s", e.TabType, e.SpreadsheetID)
}
