package intent

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

const (
	recognizeToolName        = "recognize_intent"
	recognizeToolDescription = "Classify the user's utterance into an intent and extract the relevant entities."
)

type recognizeOutput struct {
	Intent   string   `json:"intent" jsonschema:"required,enum=ChooseTypeOfFood,enum=FindLocalisation,enum=None,description=The single best matching intent"`
	Score    float64  `json:"score" jsonschema:"required,minimum=0,maximum=1,description=Confidence in the chosen intent"`
	Entities []Entity `json:"entities" jsonschema:"description=Entities extracted from the utterance, empty when none were found"`
}

// ToolOracle recognizes intents by forcing a chat model to answer
// through a tool call.
type ToolOracle struct {
	chain *chain[recognizeOutput]
}

var _ Oracle = (*ToolOracle)(nil)

func NewToolOracle(chatModel model.ToolCallingChatModel) (*ToolOracle, error) {
	c, err := newChain[recognizeOutput](
		chatModel,
		buildRecognizePrompt,
		recognizeToolName,
		recognizeToolDescription,
	)
	if err != nil {
		return nil, err
	}
	return &ToolOracle{chain: c}, nil
}

func (o *ToolOracle) Recognize(ctx context.Context, utterance string) (*Result, error) {
	out, err := o.chain.invoke(ctx, utterance)
	if err != nil {
		return nil, err
	}
	if out.Intent == "" {
		return nil, fmt.Errorf("empty intent returned by %s", recognizeToolName)
	}
	return &Result{
		TopIntent: TopIntent{Label: out.Intent, Score: out.Score},
		Entities:  out.Entities,
	}, nil
}

func buildRecognizePrompt(ctx context.Context, utterance string) ([]*schema.Message, error) {
	systemPrompt := fmt.Sprintf(`You are the language understanding service of a restaurant-finding bot.

Classify the user's utterance into exactly one intent:
- ChooseTypeOfFood: the user names a kind of cuisine they want to eat (e.g. "I'd like Chinese food", "something Italian"). Extract the cuisine as an entity of type ChooseTypeOfFood.
- FindLocalisation: the user names a place where they want to eat (e.g. "around Paris", "near the station in Lyon"). Extract the place as an entity of type FindLocalisation.
- None: anything else.

Rules:
- Score is your confidence in the chosen intent, between 0 and 1.
- Only extract entities actually present in the utterance; when the intent is None, return no entities.
- Normalize entity values to their bare form ("Chinese", "Paris"), without surrounding words.

Call the '%s' tool with the result.`, recognizeToolName)

	return []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(utterance),
	}, nil
}
