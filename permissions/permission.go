// Package permissions holds the route access table enforced by the auth
// middleware. Routes are keyed by method and chi route pattern.
package permissions

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"

	"cowork/shared/constant"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var tableData []byte

// Rule describes who may call one route. An empty Roles list admits any
// authenticated caller.
type Rule struct {
	Path   string   `json:"path"`
	Method string   `json:"method"`
	Roles  []string `json:"roles"`
	Public bool     `json:"public"`
}

// Allows reports whether role may call the route.
func (r Rule) Allows(role string) bool {
	return len(r.Roles) == 0 || slices.Contains(r.Roles, role)
}

type Table struct {
	Rules []Rule `json:"rules"`
	// Public disables authentication for every route.
	Public bool `json:"public"`

	index map[string]Rule
}

// New builds a table from rules.
func New(rules ...Rule) *Table {
	table := &Table{Rules: rules}
	table.reindex()

	return table
}

// Lookup returns the rule for a route, or the zero rule when none is declared.
func (t *Table) Lookup(method, path string) Rule {
	if t.index == nil {
		t.reindex()
	}

	return t.index[key(method, path)]
}

func (t *Table) reindex() {
	t.index = make(map[string]Rule, len(t.Rules))

	for _, rule := range t.Rules {
		t.index[key(rule.Method, rule.Path)] = rule
	}
}

func (t *Table) validate() error {
	seen := make(map[string]struct{}, len(t.Rules))

	for _, rule := range t.Rules {
		k := key(rule.Method, rule.Path)
		if _, ok := seen[k]; ok {
			return fmt.Errorf("duplicate rule for %s", k)
		}

		seen[k] = struct{}{}

		for _, role := range rule.Roles {
			if role != constant.RoleUser && role != constant.RoleAdmin {
				return fmt.Errorf("unknown role %q on %s", role, k)
			}
		}
	}

	return nil
}

func key(method, path string) string {
	return method + " " + path
}

// Parse decodes and validates a JSON table.
func Parse(data []byte) (*Table, error) {
	var table Table

	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to decode permissions: %w", err)
	}

	if err := table.validate(); err != nil {
		return nil, err
	}

	table.reindex()

	return &table, nil
}

// Get loads the embedded table. A broken table stops the process.
func Get() *Table {
	table, err := Parse(tableData)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load embedded permissions")
	}

	log.Info().Int("rules", len(table.Rules)).Msg("Successfully loaded embedded permissions")

	return table
}
