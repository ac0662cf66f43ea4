package routing

import (
	"strings"

	"luna_assistant/internal/model"
)

// Classifier decides which branch handles an utterance. It is a fixed
// ordered rule list, not a statistical model: indirect phrasing such as
// "I'm out of fruit for the week" falls through to general chat.
type Classifier struct {
	rules *Rules
}

// NewClassifier creates a classifier over the given tables
func NewClassifier(rules *Rules) *Classifier {
	return &Classifier{rules: rules}
}

// Classify applies the rules in order: preference read, inventory, chat
func (c *Classifier) Classify(utterance string) model.Intent {
	lowered := strings.ToLower(utterance)

	if containsAny(lowered, c.rules.PreferenceRead.Likes) {
		return model.Intent{Kind: model.IntentPreferenceRead, Polarity: model.PolarityLikes}
	}
	if containsAny(lowered, c.rules.PreferenceRead.Dislikes) {
		return model.Intent{Kind: model.IntentPreferenceRead, Polarity: model.PolarityDislikes}
	}
	if c.IsInventory(utterance) {
		return model.Intent{Kind: model.IntentInventory}
	}
	return model.Intent{Kind: model.IntentGeneralChat}
}

// IsInventory reports whether the text asks about stock, price or availability
func (c *Classifier) IsInventory(text string) bool {
	lowered := strings.ToLower(text)

	if containsAny(lowered, c.rules.InventoryPhrases) {
		return true
	}

	// Short bare questions like "chicken?" or "got eggs?"
	if strings.Contains(lowered, "?") && len(strings.Fields(lowered)) <= c.rules.ShortQueryMaxTokens {
		return containsAny(lowered, c.rules.ProductNames)
	}

	return false
}
