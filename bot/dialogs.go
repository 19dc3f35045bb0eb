package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tbxark/foodbot/dialog"
	"github.com/tbxark/foodbot/intent"
	"github.com/tbxark/foodbot/places"
	"github.com/tbxark/foodbot/profile"
	"github.com/tbxark/foodbot/types"
)

// Dialog names.
const (
	DialogWhichName         = "which_name"
	DialogWhichFood         = "which_food"
	DialogWhichPrice        = "which_price"
	DialogWhichLocalisation = "which_localisation"
	DialogEndOfDialog       = "end_of_dialog"
)

// Fixed bot texts.
const (
	WelcomeText = "Hello! I am FoodBot. I can help you find a restaurant. Say anything to get started."

	askNameText      = "Hello! What is your name?"
	foodConfirmText  = "Do you know what you want to eat?"
	foodFreeText     = "What type of food would you like?"
	foodCardText     = "What type of restaurant do you want?"
	locConfirmText   = "Do you know where you want to eat?"
	locFreeText      = "Where would you like to eat?"
	cityCardText     = "Which city do you want to eat in?"
	priceCardText    = "What price range do you want?"
	searchingText    = "Give me a second, I am looking for restaurants matching your taste..."
	noResultText     = "Sorry, I could not find any restaurant for you. Let's try something else!"
	thankYouText     = "Here is what I found. Thank you, and enjoy your meal!"
	startOverText    = "Sorry, I did not get that. Let's start over!"
	yesNoRetryText   = "Please answer with yes or no."
	numericRetryText = "Please answer with 1, 2 or 3."
)

// maxResultCards caps the carousel size.
const maxResultCards = 3

var foodChoices = map[string]string{
	"1": "European",
	"2": "Chinese",
	"3": "American",
}

var priceChoices = map[string]string{
	"1": "cheap",
	"2": "expensive",
	"3": "",
}

var cityChoices = map[string]string{
	"1": "Paris",
	"2": "Lyon",
	"3": "Marseille",
}

func (d *Dispatcher) buildSet() *dialog.Set {
	return dialog.NewSet().
		Add(d.whichName()).
		Add(d.whichFood()).
		Add(d.whichPrice()).
		Add(d.whichLocalisation()).
		Add(d.endOfDialog())
}

// setSlot applies one patch op to the stored profile.
func (d *Dispatcher) setSlot(ctx context.Context, pointer, value string) error {
	p, _, err := d.profiles.Get(ctx)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	updated, err := profile.Apply(p, profile.Set(pointer, value))
	if err != nil {
		return fmt.Errorf("apply %s: %w", pointer, err)
	}
	return d.profiles.Set(ctx, updated)
}

// classify asks the oracle for the given intent and returns the
// primary entity value. Any failure (unreachable oracle, low
// confidence, wrong intent, missing entity) is a mismatch; callers
// fall back to the fixed choice card.
func (d *Dispatcher) classify(ctx context.Context, label, utterance string) (string, bool) {
	result, err := d.oracle.Recognize(ctx, utterance)
	if err != nil {
		slog.Debug("oracle call failed", "error", err)
		return "", false
	}
	slog.Debug("oracle result",
		"intent", result.TopIntent.Label,
		"score", result.TopIntent.Score,
		"entities", len(result.Entities))
	if !result.Matches(label) {
		return "", false
	}
	return result.Entity(label)
}

func (d *Dispatcher) whichName() *dialog.Waterfall {
	return dialog.NewWaterfall(DialogWhichName,
		func(sc *dialog.StepContext, in dialog.StepValue) (dialog.StepResult, error) {
			if !in.FromPrompt {
				return dialog.Prompt(dialog.TextPrompt(types.MessageActivity(askNameText), nil)), nil
			}
			if in.Skip {
				// No usable name after retries; leave the profile
				// nameless so the next turn asks again.
				return dialog.End(nil), nil
			}
			name := in.Text()
			if err := d.setSlot(sc.Context(), profile.PointerName, name); err != nil {
				return dialog.StepResult{}, err
			}
			if err := sc.SendText(fmt.Sprintf("Nice to meet you, %s!", name)); err != nil {
				return dialog.StepResult{}, err
			}
			return dialog.Begin(DialogWhichFood, nil), nil
		},
	)
}

func (d *Dispatcher) whichFood() *dialog.Waterfall {
	return dialog.NewWaterfall(DialogWhichFood,
		d.confirmStep(foodConfirmText),
		d.freeTextStep(foodFreeText),
		func(sc *dialog.StepContext, in dialog.StepValue) (dialog.StepResult, error) {
			if in.FromPrompt {
				if in.Skip {
					// Card abandoned; proceed with no food preference.
					return dialog.Begin(DialogWhichPrice, nil), nil
				}
				return d.acceptFood(sc, foodChoices[in.Text()])
			}
			if !in.Skip {
				if food, ok := d.classify(sc.Context(), intent.ChooseTypeOfFood, in.Text()); ok {
					return d.acceptFood(sc, food)
				}
			}
			return dialog.Prompt(foodCardPrompt()), nil
		},
	)
}

func (d *Dispatcher) acceptFood(sc *dialog.StepContext, food string) (dialog.StepResult, error) {
	if err := d.setSlot(sc.Context(), profile.PointerFood, food); err != nil {
		return dialog.StepResult{}, err
	}
	if err := sc.SendText(fmt.Sprintf("%s, great choice!", food)); err != nil {
		return dialog.StepResult{}, err
	}
	return dialog.Begin(DialogWhichPrice, nil), nil
}

func (d *Dispatcher) whichPrice() *dialog.Waterfall {
	return dialog.NewWaterfall(DialogWhichPrice,
		func(sc *dialog.StepContext, in dialog.StepValue) (dialog.StepResult, error) {
			if !in.FromPrompt {
				return dialog.Prompt(priceCardPrompt()), nil
			}
			price := ""
			if !in.Skip {
				price = priceChoices[in.Text()]
			}
			if price != "" {
				if err := d.setSlot(sc.Context(), profile.PointerPrice, price); err != nil {
					return dialog.StepResult{}, err
				}
			}
			return dialog.Begin(DialogWhichLocalisation, nil), nil
		},
	)
}

func (d *Dispatcher) whichLocalisation() *dialog.Waterfall {
	return dialog.NewWaterfall(DialogWhichLocalisation,
		d.confirmStep(locConfirmText),
		d.freeTextStep(locFreeText),
		func(sc *dialog.StepContext, in dialog.StepValue) (dialog.StepResult, error) {
			if in.FromPrompt {
				if in.Skip {
					return d.searchAndShow(sc, "")
				}
				return d.searchAndShow(sc, cityChoices[in.Text()])
			}
			if !in.Skip {
				if city, ok := d.classify(sc.Context(), intent.FindLocalisation, in.Text()); ok {
					return d.searchAndShow(sc, city)
				}
			}
			return dialog.Prompt(cityCardPrompt()), nil
		},
	)
}

// searchAndShow stores the localisation, runs the place search and
// transfers to the result dialog with the records as input. Search
// results never live outside the dialog transition; there is no
// process-wide scratch state.
func (d *Dispatcher) searchAndShow(sc *dialog.StepContext, localisation string) (dialog.StepResult, error) {
	ctx := sc.Context()
	if localisation != "" {
		if err := d.setSlot(ctx, profile.PointerLocalisation, localisation); err != nil {
			return dialog.StepResult{}, err
		}
	}
	p, _, err := d.profiles.Get(ctx)
	if err != nil {
		return dialog.StepResult{}, fmt.Errorf("load profile: %w", err)
	}
	if err := sc.SendText(searchingText); err != nil {
		return dialog.StepResult{}, err
	}

	query := places.Query{Cuisine: p.Food, Location: p.Localisation, Price: p.Price}
	records, err := d.places.Search(ctx, query)
	if err != nil {
		// Degrade to the empty-result apology path instead of
		// crashing the turn.
		slog.Debug("place search failed", "error", err, "query", query.Terms())
		records = nil
	}
	return dialog.Replace(DialogEndOfDialog, records), nil
}

func (d *Dispatcher) endOfDialog() *dialog.Waterfall {
	return dialog.NewWaterfall(DialogEndOfDialog,
		func(sc *dialog.StepContext, in dialog.StepValue) (dialog.StepResult, error) {
			records, _ := in.Value.([]places.Record)
			if len(records) == 0 {
				if err := sc.SendText(noResultText); err != nil {
					return dialog.StepResult{}, err
				}
				return dialog.Replace(DialogWhichFood, nil), nil
			}
			if len(records) > maxResultCards {
				records = records[:maxResultCards]
			}
			cards := make([]types.HeroCard, 0, len(records))
			for _, r := range records {
				cards = append(cards, restaurantCard(r))
			}
			if err := sc.Send(types.CarouselActivity(cards)); err != nil {
				return dialog.StepResult{}, err
			}
			if err := sc.SendText(thankYouText); err != nil {
				return dialog.StepResult{}, err
			}
			return dialog.End(nil), nil
		},
	)
}

// confirmStep asks a yes/no question. It hands "ask" to the next step
// on yes and the skipped marker on no or an abandoned prompt.
func (d *Dispatcher) confirmStep(question string) dialog.StepFunc {
	return func(sc *dialog.StepContext, in dialog.StepValue) (dialog.StepResult, error) {
		if !in.FromPrompt {
			return dialog.Prompt(dialog.ChoicePrompt(
				types.ChoiceActivity(question, yesNoActions()),
				types.MessageActivity(yesNoRetryText),
				"yes", "no",
			)), nil
		}
		if in.Skip || strings.EqualFold(in.Text(), "no") {
			return dialog.Skip(), nil
		}
		return dialog.Next("ask"), nil
	}
}

// freeTextStep collects a free-text reply when the previous step asked
// for one, passing the skipped marker through untouched otherwise.
func (d *Dispatcher) freeTextStep(question string) dialog.StepFunc {
	return func(sc *dialog.StepContext, in dialog.StepValue) (dialog.StepResult, error) {
		if in.FromPrompt {
			if in.Skip {
				return dialog.Skip(), nil
			}
			return dialog.Next(in.Text()), nil
		}
		if in.Skip {
			return dialog.Skip(), nil
		}
		return dialog.Prompt(dialog.TextPrompt(types.MessageActivity(question), nil)), nil
	}
}
