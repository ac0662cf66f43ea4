package core

import (
	"fmt"
	"strings"

	"luna_assistant/internal/catalog"
	"luna_assistant/internal/model"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const noneYet = "None yet."

func preferenceText(p model.Polarity, items []string) string {
	label := "You like:"
	if p == model.PolarityDislikes {
		label = "You don't like:"
	}
	if len(items) == 0 {
		return label + " " + noneYet
	}
	return label + " " + strings.Join(items, ", ")
}

// inventoryAnswer renders a match result. The sentinel token with no hits
// asks the customer to be more specific.
func inventoryAnswer(token, sentinel string, match model.MatchResult, stock *catalog.Catalog) *model.InventoryAnswer {
	answer := &model.InventoryAnswer{Token: token, Items: []model.Item{}}

	var header string
	switch {
	case len(match.Exact) > 0:
		answer.Outcome = model.OutcomeExact
		answer.Items = match.Exact
		header = fmt.Sprintf("Yes! We have %s available:", cases.Title(language.English).String(token))
	case len(match.Similar) > 0:
		answer.Outcome = model.OutcomeSimilar
		answer.Items = match.Similar
		header = fmt.Sprintf("We don't have '%s' exactly, but we have these similar items:", token)
	case token == sentinel:
		answer.Outcome = model.OutcomeAmbiguous
		answer.Lines = []string{
			"Could you be more specific about what item you're looking for?",
			"Available items: " + strings.Join(stock.Names(), ", "),
		}
		return answer
	default:
		answer.Outcome = model.OutcomeNotFound
		answer.Lines = []string{
			fmt.Sprintf("Sorry, we don't have '%s' in our store.", token),
			"Here's what we do have: " + strings.Join(stock.Names(), ", "),
		}
		return answer
	}

	answer.Lines = append([]string{header}, catalog.Lines(answer.Items)...)
	return answer
}

func chatText(reply string, addedLikes, addedDislikes []string) string {
	lines := []string{reply}
	if len(addedLikes) > 0 {
		lines = append(lines, "Added to your likes: "+strings.Join(addedLikes, ", "))
	}
	if len(addedDislikes) > 0 {
		lines = append(lines, "Added to your dislikes: "+strings.Join(addedDislikes, ", "))
	}
	return strings.Join(lines, "\n")
}
