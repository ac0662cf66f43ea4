package model

// IntentKind is the routing branch chosen for an utterance
type IntentKind string

const (
	IntentPreferenceRead IntentKind = "preference_read"
	IntentInventory      IntentKind = "inventory"
	IntentGeneralChat    IntentKind = "general_chat"
)

// Polarity selects the likes or dislikes side of a preference set
type Polarity string

const (
	PolarityLikes    Polarity = "likes"
	PolarityDislikes Polarity = "dislikes"
)

// Intent is the classifier output. Polarity is only set for IntentPreferenceRead.
type Intent struct {
	Kind     IntentKind `json:"kind"`
	Polarity Polarity   `json:"polarity,omitempty"`
}

// Turn carries one utterance through the router graph
type Turn struct {
	SessionID string `json:"session_id"`
	Utterance string `json:"utterance"`
	Intent    Intent `json:"intent"`
}
