package model

import "strings"

// Item is a single purchasable product in the store catalog
type Item struct {
	Name  string  `json:"name" yaml:"name"`
	Brand string  `json:"brand" yaml:"brand"`
	Price float64 `json:"price" yaml:"price"`
	Offer string  `json:"offer" yaml:"offer"`
}

// HasOffer reports whether the item carries a promotion
func (i Item) HasOffer() bool {
	offer := strings.TrimSpace(i.Offer)
	return offer != "" && !strings.EqualFold(offer, "none")
}

// MatchResult holds catalog hits for a resolved token.
// An item appears in at most one bucket.
type MatchResult struct {
	Exact   []Item `json:"exact"`
	Similar []Item `json:"similar"`
}

// Empty reports whether nothing matched
func (m MatchResult) Empty() bool {
	return len(m.Exact) == 0 && len(m.Similar) == 0
}
