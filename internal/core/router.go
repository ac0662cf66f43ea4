// Package core routes each utterance to the preference, inventory or chat
// branch and owns the session-facing operations around it.
package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"luna_assistant/internal/catalog"
	"luna_assistant/internal/logger"
	"luna_assistant/internal/model"
	"luna_assistant/internal/observability"
	"luna_assistant/internal/preference"
	"luna_assistant/internal/routing"
	"luna_assistant/internal/session"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

// ChatEngine produces general-chat replies
type ChatEngine interface {
	Reply(ctx context.Context, history []*schema.Message, utterance string) (string, []*schema.Message, error)
}

// PreferenceExtractor finds likes and dislikes in an utterance
type PreferenceExtractor interface {
	Extract(ctx context.Context, utterance string) (model.Extraction, error)
}

// Deps are the collaborators of a Router. Metrics may be nil.
type Deps struct {
	Catalog   *catalog.Catalog
	Rules     *routing.Rules
	Engine    ChatEngine
	Extractor PreferenceExtractor
	Sessions  *session.Manager
	Metrics   *observability.Metrics
}

// Router is the single entry point used by the CLI and the HTTP API
type Router struct {
	catalog    *catalog.Catalog
	classifier *routing.Classifier
	matcher    *routing.Matcher
	engine     ChatEngine
	extractor  PreferenceExtractor
	sessions   *session.Manager
	metrics    *observability.Metrics

	graph compose.Runnable[*turnState, *model.Result]
}

// NewRouter wires the collaborators and compiles the routing graph
func NewRouter(ctx context.Context, deps Deps) (*Router, error) {
	if deps.Catalog == nil || deps.Rules == nil || deps.Engine == nil || deps.Extractor == nil || deps.Sessions == nil {
		return nil, fmt.Errorf("router: catalog, rules, engine, extractor and sessions are required")
	}

	r := &Router{
		catalog:    deps.Catalog,
		classifier: routing.NewClassifier(deps.Rules),
		matcher:    routing.NewMatcher(deps.Catalog, deps.Rules),
		engine:     deps.Engine,
		extractor:  deps.Extractor,
		sessions:   deps.Sessions,
		metrics:    deps.Metrics,
	}

	graph, err := r.buildGraph(ctx)
	if err != nil {
		return nil, fmt.Errorf("error compiling router graph: %w", err)
	}
	r.graph = graph

	return r, nil
}

// Handle answers one utterance for a session. Only a failed chat reply is
// returned as an error; the session is left unchanged in that case.
func (r *Router) Handle(ctx context.Context, sessionID, utterance string) (*model.Result, error) {
	start := time.Now()
	ts := &turnState{Turn: model.Turn{SessionID: sessionID, Utterance: utterance}}

	var result *model.Result
	err := r.sessions.Do(ctx, sessionID, func(state *session.State) error {
		ts.session = state
		out, err := r.graph.Invoke(ctx, ts)
		if err != nil {
			if ts.err != nil {
				return ts.err
			}
			return fmt.Errorf("router graph: %w", err)
		}
		result = out
		return nil
	})
	if err != nil {
		return nil, err
	}

	if r.metrics != nil {
		r.metrics.ObserveTurn(string(ts.Intent.Kind), time.Since(start))
	}
	logger.Info().
		Str("session_id", sessionID).
		Str("intent", string(ts.Intent.Kind)).
		Int64("elapsed_ms", time.Since(start).Milliseconds()).
		Msg("turn handled")

	return result, nil
}

// NewSession creates an empty session and returns its id
func (r *Router) NewSession(ctx context.Context) (string, error) {
	state, err := r.sessions.Create(ctx)
	if err != nil {
		return "", err
	}
	return state.ID, nil
}

// Preferences returns a copy of the session's preference set
func (r *Router) Preferences(ctx context.Context, sessionID string) (model.PreferenceSet, error) {
	var out model.PreferenceSet
	err := r.sessions.View(ctx, sessionID, func(state *session.State) error {
		out = model.PreferenceSet{
			Likes:    append([]string{}, state.Preferences.Likes...),
			Dislikes: append([]string{}, state.Preferences.Dislikes...),
		}
		return nil
	})
	return out, err
}

// History returns the session's chat turns, oldest first
func (r *Router) History(ctx context.Context, sessionID string) ([]*schema.Message, error) {
	var out []*schema.Message
	err := r.sessions.View(ctx, sessionID, func(state *session.State) error {
		out = append([]*schema.Message{}, state.History...)
		return nil
	})
	return out, err
}

// ClearPreferences empties likes and dislikes; history and catalog are untouched
func (r *Router) ClearPreferences(ctx context.Context, sessionID string) error {
	return r.sessions.Do(ctx, sessionID, func(state *session.State) error {
		preference.NewStore(&state.Preferences).Clear()
		logger.Info().Str("session_id", sessionID).Msg("preferences cleared")
		return nil
	})
}

// ClearHistory forgets the chat turns; preferences and catalog are untouched
func (r *Router) ClearHistory(ctx context.Context, sessionID string) error {
	return r.sessions.Do(ctx, sessionID, func(state *session.State) error {
		state.History = []*schema.Message{}
		logger.Info().Str("session_id", sessionID).Msg("history cleared")
		return nil
	})
}

// EndSession drops the session with its preferences and history
func (r *Router) EndSession(ctx context.Context, sessionID string) error {
	if err := r.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	logger.Info().Str("session_id", sessionID).Msg("session ended")
	return nil
}

// Catalog lists every stocked item in catalog order
func (r *Router) Catalog() []model.Item {
	return r.catalog.Items()
}

// CatalogText renders the catalog the way inventory answers list items
func (r *Router) CatalogText() string {
	return joinLines(catalog.Lines(r.catalog.Items()))
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
