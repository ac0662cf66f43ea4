// Package llmtest provides scripted chat models for tests.
package llmtest

import (
	"context"
	"errors"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// ChatModel is a model.BaseChatModel whose answers come from Respond.
// It records every input it was called with.
type ChatModel struct {
	Respond func(ctx context.Context, input []*schema.Message) (*schema.Message, error)

	mu    sync.Mutex
	calls [][]*schema.Message
}

var _ model.BaseChatModel = (*ChatModel)(nil)

// Reply returns a model that always answers text
func Reply(text string) *ChatModel {
	return &ChatModel{
		Respond: func(context.Context, []*schema.Message) (*schema.Message, error) {
			return schema.AssistantMessage(text, nil), nil
		},
	}
}

// Sequence returns a model that answers the given texts in order, repeating the last one
func Sequence(texts ...string) *ChatModel {
	var (
		mu sync.Mutex
		i  int
	)
	return &ChatModel{
		Respond: func(context.Context, []*schema.Message) (*schema.Message, error) {
			mu.Lock()
			defer mu.Unlock()
			if len(texts) == 0 {
				return nil, errors.New("llmtest: no scripted replies")
			}
			text := texts[min(i, len(texts)-1)]
			i++
			return schema.AssistantMessage(text, nil), nil
		},
	}
}

// Fail returns a model whose every call fails with err
func Fail(err error) *ChatModel {
	return &ChatModel{
		Respond: func(context.Context, []*schema.Message) (*schema.Message, error) {
			return nil, err
		},
	}
}

// Block returns a model that waits for ctx to end and reports its error
func Block() *ChatModel {
	return &ChatModel{
		Respond: func(ctx context.Context, _ []*schema.Message) (*schema.Message, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
}

func (m *ChatModel) Generate(ctx context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.mu.Lock()
	m.calls = append(m.calls, input)
	m.mu.Unlock()
	return m.Respond(ctx, input)
}

func (m *ChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

// Calls returns the inputs of every Generate call so far
func (m *ChatModel) Calls() [][]*schema.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]*schema.Message, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount is the number of Generate calls so far
func (m *ChatModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
