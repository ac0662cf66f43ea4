package model

// ResultKind discriminates the Result union
type ResultKind string

const (
	ResultPreferenceListing ResultKind = "preference_listing"
	ResultInventoryAnswer   ResultKind = "inventory_answer"
	ResultChatAnswer        ResultKind = "chat_answer"
)

// InventoryOutcome tells which inventory answer was rendered
type InventoryOutcome string

const (
	OutcomeExact     InventoryOutcome = "exact"
	OutcomeSimilar   InventoryOutcome = "similar"
	OutcomeNotFound  InventoryOutcome = "not_found"
	OutcomeAmbiguous InventoryOutcome = "ambiguous"
)

// Result is the answer for one utterance. Exactly one of
// Preferences, Inventory or Chat is set, according to Kind.
type Result struct {
	Kind        ResultKind         `json:"kind"`
	Text        string             `json:"text"`
	Preferences *PreferenceListing `json:"preferences,omitempty"`
	Inventory   *InventoryAnswer   `json:"inventory,omitempty"`
	Chat        *ChatAnswer        `json:"chat,omitempty"`
}

type PreferenceListing struct {
	Polarity Polarity `json:"polarity"`
	Items    []string `json:"items"`
}

type InventoryAnswer struct {
	Outcome InventoryOutcome `json:"outcome"`
	Token   string           `json:"token"`
	Items   []Item           `json:"items"`
	Lines   []string         `json:"lines"`
}

type ChatAnswer struct {
	Reply         string   `json:"reply"`
	AddedLikes    []string `json:"added_likes"`
	AddedDislikes []string `json:"added_dislikes"`
}
