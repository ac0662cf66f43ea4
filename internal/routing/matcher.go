package routing

import (
	"strings"

	"luna_assistant/internal/catalog"
	"luna_assistant/internal/model"
)

// Matcher resolves free text to catalog items
type Matcher struct {
	catalog *catalog.Catalog
	rules   *Rules
	names   []string // lowercased catalog names, catalog order
}

// NewMatcher creates a matcher over a catalog and its tables
func NewMatcher(c *catalog.Catalog, rules *Rules) *Matcher {
	names := c.Names()
	for i := range names {
		names[i] = strings.ToLower(names[i])
	}
	return &Matcher{catalog: c, rules: rules, names: names}
}

// Sentinel is the token returned when nothing concrete could be extracted
func (m *Matcher) Sentinel() string {
	return m.rules.Sentinel
}

// ExtractToken picks the item the text talks about. First hit wins:
// catalog name, then known variant, then common unstocked item, else the sentinel.
func (m *Matcher) ExtractToken(text string) string {
	lowered := strings.ToLower(strings.TrimSpace(text))

	for _, name := range m.names {
		if strings.Contains(lowered, name) {
			return name
		}
	}

	for _, v := range m.rules.Variants {
		if strings.Contains(lowered, v.Variant) {
			return v.Canonical
		}
	}

	for _, item := range m.rules.CommonItems {
		if strings.Contains(lowered, item) {
			return item
		}
	}

	return m.rules.Sentinel
}

// Search scans the catalog once. A name hit (equal or substring) goes to
// Exact; otherwise a brand substring hit goes to Similar. Order is preserved.
func (m *Matcher) Search(token string) model.MatchResult {
	query := strings.ToLower(strings.TrimSpace(token))
	result := model.MatchResult{
		Exact:   []model.Item{},
		Similar: []model.Item{},
	}
	if query == "" {
		return result
	}

	for _, item := range m.catalog.Items() {
		name := strings.ToLower(item.Name)
		if query == name || strings.Contains(name, query) {
			result.Exact = append(result.Exact, item)
		} else if strings.Contains(strings.ToLower(item.Brand), query) {
			result.Similar = append(result.Similar, item)
		}
	}

	return result
}
