// Package session owns per-session state (preferences and chat history) and
// serialises access to it.
package session

import (
	"fmt"
	"time"

	"luna_assistant/internal/model"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/schema"
)

// State is everything remembered about one conversation
type State struct {
	ID          string              `json:"id"`
	Preferences model.PreferenceSet `json:"preferences"`
	History     []*schema.Message   `json:"history"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

func newState(id string, now time.Time) *State {
	return &State{
		ID: id,
		Preferences: model.PreferenceSet{
			Likes:    []string{},
			Dislikes: []string{},
		},
		History:   []*schema.Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func encodeState(s *State) ([]byte, error) {
	data, err := sonic.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session data: %w", err)
	}
	return data, nil
}

func decodeState(data []byte) (*State, error) {
	var s State
	if err := sonic.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}
	if s.Preferences.Likes == nil {
		s.Preferences.Likes = []string{}
	}
	if s.Preferences.Dislikes == nil {
		s.Preferences.Dislikes = []string{}
	}
	if s.History == nil {
		s.History = []*schema.Message{}
	}
	return &s, nil
}
