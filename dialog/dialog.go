package dialog

import (
	"context"

	"github.com/tbxark/foodbot/types"
)

// Sink receives outbound activities. Delivery is fire-and-forget from
// the engine's point of view.
type Sink interface {
	Send(ctx context.Context, activity *types.Activity) error
}

// StepFunc is one step of a waterfall. It receives the tagged input of
// the previous transition (or, with FromPrompt set, the resolved value
// of the prompt it issued) and returns the next transition.
type StepFunc func(sc *StepContext, input StepValue) (StepResult, error)

// StepContext is handed to a step for the duration of one invocation.
type StepContext struct {
	ctx    context.Context
	sink   Sink
	dialog string
	step   int
}

// Context returns the request context of the current turn.
func (sc *StepContext) Context() context.Context {
	return sc.ctx
}

// Send emits an outbound activity.
func (sc *StepContext) Send(activity *types.Activity) error {
	return sc.sink.Send(sc.ctx, activity)
}

// SendText emits a plain text message.
func (sc *StepContext) SendText(text string) error {
	return sc.sink.Send(sc.ctx, types.MessageActivity(text))
}

// Waterfall is a named, ordered sequence of steps.
type Waterfall struct {
	name  string
	steps []StepFunc
}

func NewWaterfall(name string, steps ...StepFunc) *Waterfall {
	return &Waterfall{name: name, steps: steps}
}

func (w *Waterfall) Name() string {
	return w.name
}

// Set is the registry of dialogs a conversation can run.
type Set struct {
	dialogs map[string]*Waterfall
}

func NewSet() *Set {
	return &Set{dialogs: make(map[string]*Waterfall)}
}

func (s *Set) Add(d *Waterfall) *Set {
	s.dialogs[d.name] = d
	return s
}

func (s *Set) Lookup(name string) (*Waterfall, bool) {
	d, ok := s.dialogs[name]
	return d, ok
}
