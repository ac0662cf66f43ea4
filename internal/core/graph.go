package core

import (
	"context"
	"errors"
	"fmt"

	"luna_assistant/internal/logger"
	"luna_assistant/internal/model"
	"luna_assistant/internal/preference"
	"luna_assistant/internal/session"

	"github.com/cloudwego/eino/compose"
)

const (
	nodeClassify       = "classify"
	nodePreferenceRead = "preference_read"
	nodeInventory      = "inventory"
	nodeChat           = "chat"
)

// turnState flows through the graph. err keeps the chat failure so the
// caller can match it with errors.Is regardless of how the graph wraps it.
type turnState struct {
	model.Turn
	session *session.State
	err     error
}

func (r *Router) buildGraph(ctx context.Context) (compose.Runnable[*turnState, *model.Result], error) {
	g := compose.NewGraph[*turnState, *model.Result]()

	if err := g.AddLambdaNode(nodeClassify, compose.InvokableLambda(r.classify)); err != nil {
		return nil, fmt.Errorf("add %s node: %w", nodeClassify, err)
	}
	if err := g.AddLambdaNode(nodePreferenceRead, compose.InvokableLambda(r.readPreferences)); err != nil {
		return nil, fmt.Errorf("add %s node: %w", nodePreferenceRead, err)
	}
	if err := g.AddLambdaNode(nodeInventory, compose.InvokableLambda(r.answerInventory)); err != nil {
		return nil, fmt.Errorf("add %s node: %w", nodeInventory, err)
	}
	if err := g.AddLambdaNode(nodeChat, compose.InvokableLambda(r.chat)); err != nil {
		return nil, fmt.Errorf("add %s node: %w", nodeChat, err)
	}

	if err := g.AddEdge(compose.START, nodeClassify); err != nil {
		return nil, err
	}

	branch := compose.NewGraphBranch(func(_ context.Context, ts *turnState) (string, error) {
		switch ts.Intent.Kind {
		case model.IntentPreferenceRead:
			return nodePreferenceRead, nil
		case model.IntentInventory:
			return nodeInventory, nil
		default:
			return nodeChat, nil
		}
	}, map[string]bool{
		nodePreferenceRead: true,
		nodeInventory:      true,
		nodeChat:           true,
	})
	if err := g.AddBranch(nodeClassify, branch); err != nil {
		return nil, fmt.Errorf("add intent branch: %w", err)
	}

	for _, node := range []string{nodePreferenceRead, nodeInventory, nodeChat} {
		if err := g.AddEdge(node, compose.END); err != nil {
			return nil, err
		}
	}

	return g.Compile(ctx, compose.WithGraphName("luna_router"))
}

func (r *Router) classify(_ context.Context, ts *turnState) (*turnState, error) {
	ts.Intent = r.classifier.Classify(ts.Utterance)

	logger.Debug().
		Str("session_id", ts.SessionID).
		Str("intent", string(ts.Intent.Kind)).
		Str("polarity", string(ts.Intent.Polarity)).
		Msg("utterance classified")

	return ts, nil
}

func (r *Router) readPreferences(_ context.Context, ts *turnState) (*model.Result, error) {
	items := preference.NewStore(&ts.session.Preferences).List(ts.Intent.Polarity)

	return &model.Result{
		Kind: model.ResultPreferenceListing,
		Text: preferenceText(ts.Intent.Polarity, items),
		Preferences: &model.PreferenceListing{
			Polarity: ts.Intent.Polarity,
			Items:    items,
		},
	}, nil
}

func (r *Router) answerInventory(_ context.Context, ts *turnState) (*model.Result, error) {
	token := r.matcher.ExtractToken(ts.Utterance)
	match := r.matcher.Search(token)
	answer := inventoryAnswer(token, r.matcher.Sentinel(), match, r.catalog)

	if r.metrics != nil {
		r.metrics.InventoryAnswer.WithLabelValues(string(answer.Outcome)).Inc()
	}
	logger.Info().
		Str("session_id", ts.SessionID).
		Str("token", token).
		Str("outcome", string(answer.Outcome)).
		Int("items", len(answer.Items)).
		Msg("inventory answered")

	return &model.Result{
		Kind:      model.ResultInventoryAnswer,
		Text:      joinLines(answer.Lines),
		Inventory: answer,
	}, nil
}

func (r *Router) chat(ctx context.Context, ts *turnState) (*model.Result, error) {
	reply, history, err := r.engine.Reply(ctx, ts.session.History, ts.Utterance)
	if err != nil {
		if r.metrics != nil {
			r.metrics.DelegateErrors.WithLabelValues("chat").Inc()
		}
		logger.Error().Err(err).Str("session_id", ts.SessionID).Msg("chat reply failed")
		ts.err = err
		return nil, err
	}
	ts.session.History = history

	addedLikes, addedDislikes := []string{}, []string{}
	extraction, err := r.extractor.Extract(ctx, ts.Utterance)
	if err != nil {
		reason := "parse"
		if errors.Is(err, model.ErrDelegate) {
			reason = "delegate"
		}
		if r.metrics != nil {
			r.metrics.ExtractionSkips.WithLabelValues(reason).Inc()
		}
		logger.Warn().Err(err).
			Str("session_id", ts.SessionID).
			Str("reason", reason).
			Msg("preference extraction skipped")
	} else {
		addedLikes, addedDislikes = preference.NewStore(&ts.session.Preferences).
			Record(extraction.Likes, extraction.Dislikes)
	}

	if len(addedLikes) > 0 || len(addedDislikes) > 0 {
		logger.Info().
			Str("session_id", ts.SessionID).
			Strs("added_likes", addedLikes).
			Strs("added_dislikes", addedDislikes).
			Msg("preferences updated")
	}

	return &model.Result{
		Kind: model.ResultChatAnswer,
		Text: chatText(reply, addedLikes, addedDislikes),
		Chat: &model.ChatAnswer{
			Reply:         reply,
			AddedLikes:    addedLikes,
			AddedDislikes: addedDislikes,
		},
	}, nil
}
