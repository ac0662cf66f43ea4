package preference

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

// Extractor asks the delegate model which items an utterance likes or dislikes
type Extractor struct {
	chain   compose.Runnable[map[string]any, *schema.Message]
	timeout time.Duration
}

// NewExtractor compiles the Template → ChatModel chain
func NewExtractor(ctx context.Context, chatModel einomodel.BaseChatModel, timeout time.Duration) (*Extractor, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("chat model is required")
	}

	chain, err := compose.NewChain[map[string]any, *schema.Message]().
		AppendChatTemplate(createExtractorTemplate()).
		AppendChatModel(chatModel).
		Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("error creating extractor chain: %w", err)
	}

	return &Extractor{chain: chain, timeout: timeout}, nil
}

// Extract returns the likes and dislikes found in utterance. Delegate failures
// wrap model.ErrDelegate and unusable replies wrap model.ErrParse; callers
// decide whether to surface them.
func (e *Extractor) Extract(ctx context.Context, utterance string) (model.Extraction, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := e.chain.Invoke(ctx, map[string]any{"text": utterance})
	if err != nil {
		return model.Extraction{}, fmt.Errorf("%w: preference extraction: %v", model.ErrDelegate, err)
	}
	if out == nil {
		return model.Extraction{}, fmt.Errorf("%w: empty extractor message", model.ErrParse)
	}

	extraction, err := ParseExtraction(out.Content)
	if err != nil {
		return model.Extraction{}, err
	}

	logger.Debug().
		Int("likes", len(extraction.Likes)).
		Int("dislikes", len(extraction.Dislikes)).
		Dur("elapsed", time.Since(start)).
		Msg("preferences extracted")

	return extraction, nil
}
