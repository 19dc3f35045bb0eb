package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/foodbot/store"
	"github.com/tbxark/foodbot/types"
)

var _ adk.Agent = (*Agent)(nil)

// Agent adapts the dispatcher to the eino agent runtime. Each Run call
// is one turn; outbound activities become agent events.
type Agent struct {
	name        string
	description string
	dispatcher  *Dispatcher
}

func NewAgent(name, description string, dispatcher *Dispatcher) *Agent {
	return &Agent{
		name:        name,
		description: description,
		dispatcher:  dispatcher,
	}
}

func (a *Agent) Name(ctx context.Context) string {
	return a.name
}

func (a *Agent) Description(ctx context.Context) string {
	return a.description
}

func (a *Agent) Run(ctx context.Context, input *adk.AgentInput, options ...adk.AgentRunOption) *adk.AsyncIterator[*adk.AgentEvent] {
	iter, gen := adk.NewAsyncIteratorPair[*adk.AgentEvent]()
	go func() {
		defer func() {
			e := recover()
			if e != nil {
				gen.Send(&adk.AgentEvent{
					Err: fmt.Errorf("recover from panic: %v", e),
				})
			}
			gen.Close()
		}()
		if len(input.Messages) == 0 {
			gen.Send(&adk.AgentEvent{
				Err: fmt.Errorf("no messages in input"),
			})
			return
		}
		key, ok := store.ConversationKeyFromContext(ctx)
		if !ok {
			key = "default"
		}
		turn := &types.Turn{
			Type:           types.ActivityMessage,
			Text:           input.Messages[len(input.Messages)-1].Content,
			ConversationID: key,
		}
		if err := a.dispatcher.OnTurn(ctx, turn, &eventSink{gen: gen}); err != nil {
			gen.Send(&adk.AgentEvent{
				Err: fmt.Errorf("turn failed: %w", err),
			})
		}
	}()
	return iter
}

type eventSink struct {
	gen *adk.AsyncGenerator[*adk.AgentEvent]
}

func (s *eventSink) Send(ctx context.Context, activity *types.Activity) error {
	s.gen.Send(&adk.AgentEvent{
		Output: &adk.AgentOutput{
			MessageOutput: &adk.MessageVariant{
				IsStreaming: false,
				Message: &schema.Message{
					Role:    schema.Assistant,
					Content: RenderText(activity),
				},
				Role: schema.Assistant,
			},
		},
	})
	return nil
}

// RenderText flattens an activity into plain text for channels without
// rich card support.
func RenderText(a *types.Activity) string {
	var b strings.Builder
	if a.Text != "" {
		b.WriteString(a.Text)
	}
	for _, action := range a.SuggestedActions {
		b.WriteString("\n- ")
		b.WriteString(action.Title)
	}
	for i, card := range a.Attachments {
		if i > 0 || a.Text != "" {
			b.WriteString("\n")
		}
		if card.Title != "" {
			b.WriteString(card.Title)
		}
		if card.Subtitle != "" {
			b.WriteString("\n  ")
			b.WriteString(card.Subtitle)
		}
		if card.Text != "" {
			b.WriteString("\n")
			b.WriteString(card.Text)
		}
		for _, button := range card.Buttons {
			b.WriteString("\n  - ")
			b.WriteString(button.Title)
		}
	}
	return strings.TrimLeft(b.String(), "\n")
}
