package catalog

import (
	"fmt"
	"strings"

	"luna_assistant/internal/model"
)

// Catalog is the read-only store inventory. Safe for concurrent use.
type Catalog struct {
	items []model.Item
}

// defaultItems is the store's stock list
var defaultItems = []model.Item{
	{Name: "Banana", Brand: "FreshFarms", Price: 1.5, Offer: "Buy 1 Get 1 Free"},
	{Name: "Apple", Brand: "OrchardBest", Price: 2.0, Offer: "10% off"},
	{Name: "Orange", Brand: "CitrusGold", Price: 1.8, Offer: "None"},
	{Name: "Milk", Brand: "DairyPure", Price: 3.5, Offer: "Free Cookies with 2L"},
	{Name: "Bread", Brand: "BakersChoice", Price: 2.5, Offer: "5% off"},
	{Name: "Eggs", Brand: "FarmFresh", Price: 2.2, Offer: "None"},
	{Name: "Broccoli", Brand: "GreenLeaf", Price: 1.0, Offer: "None"},
	{Name: "Cabbage", Brand: "GreenLeaf", Price: 1.2, Offer: "5% off"},
	{Name: "Chicken", Brand: "MeatMaster", Price: 5.0, Offer: "20% off weekend only"},
	{Name: "Yogurt", Brand: "DairyPure", Price: 1.5, Offer: "Buy 2 Get 1 Free"},
}

// New returns the compiled-in store catalog
func New() *Catalog {
	c, err := newWithItems(defaultItems)
	if err != nil {
		panic(err)
	}
	return c
}

// newWithItems builds a catalog from the given items. Names must be unique.
func newWithItems(items []model.Item) (*Catalog, error) {
	seen := make(map[string]bool, len(items))
	for i, item := range items {
		if strings.TrimSpace(item.Name) == "" {
			return nil, fmt.Errorf("item %d has empty name", i)
		}
		if item.Price < 0 {
			return nil, fmt.Errorf("item %q has negative price", item.Name)
		}
		key := strings.ToLower(item.Name)
		if seen[key] {
			return nil, fmt.Errorf("duplicate item name %q", item.Name)
		}
		seen[key] = true
	}

	copied := make([]model.Item, len(items))
	copy(copied, items)
	return &Catalog{items: copied}, nil
}

// Items returns the catalog in order. The slice is a copy.
func (c *Catalog) Items() []model.Item {
	out := make([]model.Item, len(c.items))
	copy(out, c.items)
	return out
}

// Names returns item names in catalog order
func (c *Catalog) Names() []string {
	names := make([]string, len(c.items))
	for i, item := range c.items {
		names[i] = item.Name
	}
	return names
}

// FormatItem renders the one-line listing used in answers and the catalog view
func FormatItem(item model.Item) string {
	return fmt.Sprintf("• %s (%s) - $%.2f", item.Name, item.Brand, item.Price)
}

// FormatOffer renders the promotion line, or "" when the item has none
func FormatOffer(item model.Item) string {
	if !item.HasOffer() {
		return ""
	}
	return fmt.Sprintf("  Special Offer: %s", item.Offer)
}

// Lines renders each item followed by its offer line when present
func Lines(items []model.Item) []string {
	lines := make([]string, 0, len(items)*2)
	for _, item := range items {
		lines = append(lines, FormatItem(item))
		if offer := FormatOffer(item); offer != "" {
			lines = append(lines, offer)
		}
	}
	return lines
}
