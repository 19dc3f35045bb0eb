package bot

import (
	"strings"

	"github.com/tbxark/foodbot/dialog"
	"github.com/tbxark/foodbot/places"
	"github.com/tbxark/foodbot/types"
)

func imBack(title, value string) types.CardAction {
	return types.CardAction{Type: types.ActionImBack, Title: title, Value: value}
}

func yesNoActions() []types.CardAction {
	return []types.CardAction{
		imBack("Yes", "yes"),
		imBack("No", "no"),
	}
}

func numericCardPrompt(text string, titles [3]string) *dialog.PromptState {
	card := types.HeroCard{
		Text: text,
		Buttons: []types.CardAction{
			imBack("1. "+titles[0], "1"),
			imBack("2. "+titles[1], "2"),
			imBack("3. "+titles[2], "3"),
		},
	}
	return dialog.ChoicePrompt(
		types.CardActivity(card),
		types.MessageActivity(numericRetryText),
		"1", "2", "3",
	)
}

func foodCardPrompt() *dialog.PromptState {
	return numericCardPrompt(foodCardText, [3]string{"European", "Chinese", "American"})
}

func priceCardPrompt() *dialog.PromptState {
	return numericCardPrompt(priceCardText, [3]string{"Cheap", "Expensive", "No preference"})
}

func cityCardPrompt() *dialog.PromptState {
	return numericCardPrompt(cityCardText, [3]string{"Paris", "Lyon", "Marseille"})
}

// restaurantCard renders one search result as a hero card.
func restaurantCard(r places.Record) types.HeroCard {
	var lines []string
	for _, part := range []string{
		r.Address.Neighborhood,
		r.Address.Locality,
		r.Address.Region,
		r.Address.PostalCode,
	} {
		if part != "" {
			lines = append(lines, part)
		}
	}
	card := types.HeroCard{
		Title:    r.Name,
		Subtitle: strings.Join(lines, ", "),
	}
	if r.Phone != "" {
		card.Buttons = append(card.Buttons, types.CardAction{
			Type:  types.ActionCall,
			Title: r.Phone,
			Value: r.Phone,
		})
	}
	if r.URL != "" {
		card.Buttons = append(card.Buttons, types.CardAction{
			Type:  types.ActionOpenURL,
			Title: "Website",
			Value: r.URL,
		})
		card.Tap = &types.CardAction{Type: types.ActionOpenURL, Value: r.URL}
	}
	return card
}
