package preference

import "luna_assistant/internal/model"

// Store applies preference updates to one session's PreferenceSet.
// It is not safe for concurrent use; the session manager serialises access.
type Store struct {
	set *model.PreferenceSet
}

// NewStore wraps a session-owned preference set
func NewStore(set *model.PreferenceSet) *Store {
	return &Store{set: set}
}

// Record adds tokens not yet present and returns the ones that were new.
// Membership is exact string match: "Apple" and "apple" are different tokens.
func (s *Store) Record(likes, dislikes []string) (addedLikes, addedDislikes []string) {
	s.set.Likes, addedLikes = merge(s.set.Likes, likes)
	s.set.Dislikes, addedDislikes = merge(s.set.Dislikes, dislikes)
	return addedLikes, addedDislikes
}

// Likes returns liked tokens in insertion order
func (s *Store) Likes() []string {
	return clone(s.set.Likes)
}

// Dislikes returns disliked tokens in insertion order
func (s *Store) Dislikes() []string {
	return clone(s.set.Dislikes)
}

// List returns the tokens for one polarity
func (s *Store) List(p model.Polarity) []string {
	if p == model.PolarityDislikes {
		return s.Dislikes()
	}
	return s.Likes()
}

// Clear empties both lists
func (s *Store) Clear() {
	s.set.Likes = []string{}
	s.set.Dislikes = []string{}
}

func merge(existing, incoming []string) (merged, added []string) {
	added = []string{}
	seen := make(map[string]bool, len(existing)+len(incoming))
	for _, token := range existing {
		seen[token] = true
	}

	merged = existing
	for _, token := range incoming {
		if token == "" || seen[token] {
			continue
		}
		seen[token] = true
		merged = append(merged, token)
		added = append(added, token)
	}
	return merged, added
}

func clone(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	return out
}
