package catalog

import (
	"testing"

	"luna_assistant/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	var c *Catalog
	require.NotPanics(t, func() { c = New() })

	assert.Equal(t, []string{
		"Banana", "Apple", "Orange", "Milk", "Bread",
		"Eggs", "Broccoli", "Cabbage", "Chicken", "Yogurt",
	}, c.Names())

	banana := c.Items()[0]
	assert.Equal(t, "FreshFarms", banana.Brand)
	assert.Equal(t, "Buy 1 Get 1 Free", banana.Offer)
}

func TestItemsIsACopy(t *testing.T) {
	c := New()
	items := c.Items()
	items[0].Name = "Plantain"

	assert.Equal(t, "Banana", c.Items()[0].Name)
}

func TestItemValidation(t *testing.T) {
	_, err := newWithItems([]model.Item{{Name: "Tea", Price: 1}, {Name: "tea", Price: 2}})
	assert.ErrorContains(t, err, "duplicate")

	_, err = newWithItems([]model.Item{{Name: "Tea", Price: -1}})
	assert.ErrorContains(t, err, "negative price")

	_, err = newWithItems([]model.Item{{Name: " "}})
	assert.ErrorContains(t, err, "empty name")

	c, err := newWithItems([]model.Item{{Name: "Tea", Brand: "Leafy", Price: 3}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Tea"}, c.Names())
}

func TestLines(t *testing.T) {
	items := New().Items()
	banana, orange := items[0], items[2]

	lines := Lines([]model.Item{banana, orange})

	assert.Equal(t, []string{
		"• Banana (FreshFarms) - $1.50",
		"  Special Offer: Buy 1 Get 1 Free",
		"• Orange (CitrusGold) - $1.80",
	}, lines)
}

func TestHasOffer(t *testing.T) {
	assert.False(t, model.Item{Offer: "None"}.HasOffer())
	assert.False(t, model.Item{Offer: "none"}.HasOffer())
	assert.False(t, model.Item{Offer: ""}.HasOffer())
	assert.True(t, model.Item{Offer: "5% off"}.HasOffer())
}
