package conversation

import (
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

const systemPrompt = `You are Luna, a friendly and helpful supermarket assistant.
You chat with customers about cooking, recipes, meal ideas and their day.

Rules:
- Never state whether a product is available, in stock, or what it costs.
- If the customer asks about availability, prices or stock, reply exactly with: "Let me check our inventory system for you."
- Keep answers short, warm and conversational.`

func createChatTemplate() prompt.ChatTemplate {
	return prompt.FromMessages(schema.FString,
		schema.SystemMessage(systemPrompt),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{input}"),
	)
}
