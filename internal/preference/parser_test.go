package preference

import (
	"testing"

	"luna_assistant/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExtraction(t *testing.T) {
	got, err := ParseExtraction(`{"likes": ["apple"], "dislikes": []}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"apple"}, got.Likes)
	assert.Empty(t, got.Dislikes)

	got, err = ParseExtraction("\n  {\"dislikes\": [\"fish\", \"milk\"]}  \n")
	require.NoError(t, err)
	assert.Empty(t, got.Likes)
	assert.Equal(t, []string{"fish", "milk"}, got.Dislikes)

	got, err = ParseExtraction(`{"likes": null, "mood": "happy"}`)
	require.NoError(t, err)
	assert.Empty(t, got.Likes)
	assert.Empty(t, got.Dislikes)
}

func TestParseExtractionRejectsBadShapes(t *testing.T) {
	cases := map[string]string{
		"prose":          "Sure! The user likes apples.",
		"empty":          "   ",
		"array":          `["apple"]`,
		"null":           "null",
		"likes string":   `{"likes": "apple"}`,
		"likes numbers":  `{"likes": [1, 2]}`,
		"truncated json": `{"likes": ["apple"`,
		"fenced":         "```json\n{\"likes\": []}\n```",
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseExtraction(content)
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrParse)
		})
	}
}
