package conversation

import "github.com/cloudwego/eino/schema"

// trimHead drops the oldest messages, a user/assistant pair at a time,
// until at most maxMessages remain.
func trimHead(messages []*schema.Message, maxMessages int) []*schema.Message {
	if maxMessages <= 0 || len(messages) <= maxMessages {
		return messages
	}
	drop := len(messages) - maxMessages
	if drop%2 != 0 {
		drop++
	}
	if drop > len(messages) {
		drop = len(messages)
	}
	return messages[drop:]
}
