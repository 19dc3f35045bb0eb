package dialog

import (
	"context"
	"log/slog"

	"github.com/tbxark/foodbot/types"
)

// Context drives one conversation's dialog stack for the duration of a
// turn. It is cheap to construct; the stack it wraps is the persisted
// state.
type Context struct {
	set   *Set
	sink  Sink
	stack *Stack
}

func NewContext(set *Set, sink Sink, stack *Stack) *Context {
	return &Context{set: set, sink: sink, stack: stack}
}

// Stack exposes the underlying stack, mainly for persistence.
func (dc *Context) Stack() *Stack {
	return dc.stack
}

// Begin pushes the named dialog and immediately runs its first step.
func (dc *Context) Begin(ctx context.Context, name string, v StepValue) error {
	if _, ok := dc.set.Lookup(name); !ok {
		return &UnknownDialogError{Name: name}
	}
	dc.stack.push(name)
	return dc.run(ctx, v)
}

// Continue resumes the suspended step of the active dialog with the
// inbound turn. It reports whether the stack handled the turn; false
// means the stack was empty and the caller should begin a top-level
// dialog. A nil turn leaves the suspension point untouched, so calling
// Continue again without a genuine new input never double-advances.
func (dc *Context) Continue(ctx context.Context, turn *types.Turn) (bool, error) {
	if dc.stack.Empty() {
		return false, nil
	}
	if turn == nil {
		return true, nil
	}
	inst := dc.stack.Top()
	if inst.Prompt == nil {
		return true, dc.run(ctx, Provided(turn.Text))
	}

	value, ok := inst.Prompt.Validate(turn.Text)
	if !ok {
		inst.Prompt.Attempts++
		slog.Debug("prompt validation failed",
			"dialog", inst.Dialog,
			"step", inst.Step,
			"attempts", inst.Prompt.Attempts)
		if inst.Prompt.Attempts < inst.Prompt.MaxAttempts {
			return true, dc.sink.Send(ctx, inst.Prompt.retryActivity())
		}
		// Retry budget exhausted: resume the owning step with the
		// skipped marker and let it decide the fallback.
		inst.Prompt = nil
		return true, dc.run(ctx, promptAbandoned())
	}
	inst.Prompt = nil
	return true, dc.run(ctx, promptResult(value))
}

// run invokes the top instance's current step and follows transitions
// until the stack suspends on a prompt or empties.
func (dc *Context) run(ctx context.Context, input StepValue) error {
	for {
		inst := dc.stack.Top()
		if inst == nil {
			return nil
		}
		d, ok := dc.set.Lookup(inst.Dialog)
		if !ok {
			return &UnknownDialogError{Name: inst.Dialog}
		}

		var res StepResult
		if inst.Step >= len(d.steps) {
			// Stepping past the last step ends the dialog with the
			// carried value as its result.
			res = StepResult{kind: kindEnd, value: input}
		} else {
			sc := &StepContext{ctx: ctx, sink: dc.sink, dialog: inst.Dialog, step: inst.Step}
			var err error
			res, err = d.steps[inst.Step](sc, input)
			if err != nil {
				return err
			}
		}

		switch res.kind {
		case kindNext:
			inst.Step++
			input = res.value
		case kindPrompt:
			res.prompt.Attempts = 0
			inst.Prompt = res.prompt
			return dc.sink.Send(ctx, res.prompt.Prompt)
		case kindBegin:
			if _, ok := dc.set.Lookup(res.dialog); !ok {
				return &UnknownDialogError{Name: res.dialog}
			}
			slog.Debug("begin dialog", "from", inst.Dialog, "to", res.dialog)
			inst.Step++
			dc.stack.push(res.dialog)
			input = res.value
		case kindReplace:
			if _, ok := dc.set.Lookup(res.dialog); !ok {
				return &UnknownDialogError{Name: res.dialog}
			}
			slog.Debug("replace dialog", "from", inst.Dialog, "to", res.dialog)
			dc.stack.pop()
			dc.stack.push(res.dialog)
			input = res.value
		case kindEnd:
			dc.stack.pop()
			parent := dc.stack.Top()
			if parent == nil {
				return nil
			}
			input = res.value
			input.FromPrompt = false
		default:
			return &FlowError{Dialog: inst.Dialog, Step: inst.Step}
		}
	}
}
