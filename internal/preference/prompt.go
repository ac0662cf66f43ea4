package preference

import (
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

// getExtractorTemplate is formatted with FString, so literal braces are doubled
func getExtractorTemplate() string {
	return `Extract the user's liked and disliked supermarket items from this message:
"{text}"

Return only valid JSON in this format:
{{
  "likes": [],
  "dislikes": []
}}

If there are no likes or dislikes, return empty lists.`
}

func createExtractorTemplate() prompt.ChatTemplate {
	return prompt.FromMessages(schema.FString,
		schema.UserMessage(getExtractorTemplate()),
	)
}
