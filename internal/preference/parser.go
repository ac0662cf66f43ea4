package preference

import (
	"fmt"
	"strings"

	"luna_assistant/internal/model"

	"github.com/bytedance/sonic"
)

// ParseExtraction decodes the extractor reply. The reply must be a JSON
// object; "likes" and "dislikes" may be missing but must otherwise be
// arrays of strings. Any other shape is model.ErrParse.
func ParseExtraction(content string) (model.Extraction, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return model.Extraction{}, fmt.Errorf("%w: empty reply", model.ErrParse)
	}

	var raw map[string]any
	if err := sonic.UnmarshalString(content, &raw); err != nil {
		return model.Extraction{}, fmt.Errorf("%w: %v", model.ErrParse, err)
	}
	if raw == nil {
		return model.Extraction{}, fmt.Errorf("%w: reply is not a JSON object", model.ErrParse)
	}

	likes, err := stringList(raw, "likes")
	if err != nil {
		return model.Extraction{}, err
	}
	dislikes, err := stringList(raw, "dislikes")
	if err != nil {
		return model.Extraction{}, err
	}

	return model.Extraction{Likes: likes, Dislikes: dislikes}, nil
}

func stringList(raw map[string]any, key string) ([]string, error) {
	value, ok := raw[key]
	if !ok || value == nil {
		return []string{}, nil
	}

	items, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %q is %T, want array", model.ErrParse, key, value)
	}

	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s[%d] is %T, want string", model.ErrParse, key, i, item)
		}
		out = append(out, s)
	}
	return out, nil
}
