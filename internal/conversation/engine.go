// Package conversation holds the general-chat engine: a system prompt, the
// session history and the new utterance go to the delegate chat model.
package conversation

import (
	"context"
	"fmt"
	"time"

	"luna_assistant/internal/logger"
	"luna_assistant/internal/model"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

// Engine produces chat replies with conversational memory
type Engine struct {
	chain       compose.Runnable[map[string]any, *schema.Message]
	maxMessages int
	timeout     time.Duration
}

// NewEngine compiles the Template → ChatModel chain
func NewEngine(ctx context.Context, chatModel einomodel.BaseChatModel, cfg model.ConversationConfig, timeout time.Duration) (*Engine, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("chat model is required")
	}

	chain, err := compose.NewChain[map[string]any, *schema.Message]().
		AppendChatTemplate(createChatTemplate()).
		AppendChatModel(chatModel).
		Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("error creating conversation chain: %w", err)
	}

	return &Engine{
		chain:       chain,
		maxMessages: cfg.MaxMessages,
		timeout:     timeout,
	}, nil
}

// Reply answers utterance in the context of history. On success it returns
// the reply and a new history with the user and assistant turns appended;
// on failure history is returned unchanged together with an ErrDelegate error.
func (e *Engine) Reply(ctx context.Context, history []*schema.Message, utterance string) (string, []*schema.Message, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := e.chain.Invoke(ctx, map[string]any{
		"history": history,
		"input":   utterance,
	})
	if err != nil {
		return "", history, fmt.Errorf("%w: chat reply: %v", model.ErrDelegate, err)
	}
	if out == nil {
		return "", history, fmt.Errorf("%w: empty chat message", model.ErrDelegate)
	}

	updated := make([]*schema.Message, 0, len(history)+2)
	updated = append(updated, history...)
	updated = append(updated,
		schema.UserMessage(utterance),
		schema.AssistantMessage(out.Content, nil),
	)
	updated = trimHead(updated, e.maxMessages)

	logger.Debug().
		Int("history", len(updated)).
		Dur("elapsed", time.Since(start)).
		Msg("chat reply generated")

	return out.Content, updated, nil
}
