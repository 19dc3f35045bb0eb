package dialog

import (
	"context"
	"errors"
	"testing"

	"github.com/tbxark/foodbot/types"
)

type captureSink struct {
	sent []*types.Activity
}

func (s *captureSink) Send(ctx context.Context, activity *types.Activity) error {
	s.sent = append(s.sent, activity)
	return nil
}

func messageTurn(text string) *types.Turn {
	return &types.Turn{Type: types.ActivityMessage, Text: text, ConversationID: "test"}
}

func TestWaterfallAdvancesThroughSteps(t *testing.T) {
	t.Parallel()
	var got []string
	d := NewWaterfall("seq",
		func(sc *StepContext, in StepValue) (StepResult, error) {
			got = append(got, "step0:"+in.Text())
			return Next("a"), nil
		},
		func(sc *StepContext, in StepValue) (StepResult, error) {
			got = append(got, "step1:"+in.Text())
			return End("done"), nil
		},
	)
	set := NewSet().Add(d)
	stack := &Stack{}
	dc := NewContext(set, &captureSink{}, stack)

	if err := dc.Begin(context.Background(), "seq", Provided("start")); err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	if !stack.Empty() {
		t.Errorf("expected empty stack after end, got %d instances", len(stack.Instances))
	}
	want := []string{"step0:start", "step1:a"}
	if len(got) != len(want) {
		t.Fatalf("expected %d step invocations, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("invocation %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestImplicitEndPastLastStep(t *testing.T) {
	t.Parallel()
	parentResult := ""
	child := NewWaterfall("child",
		func(sc *StepContext, in StepValue) (StepResult, error) {
			// Next past the last step must behave like End.
			return Next("from-child"), nil
		},
	)
	parent := NewWaterfall("parent",
		func(sc *StepContext, in StepValue) (StepResult, error) {
			return Begin("child", nil), nil
		},
		func(sc *StepContext, in StepValue) (StepResult, error) {
			parentResult = in.Text()
			return End(nil), nil
		},
	)
	set := NewSet().Add(parent).Add(child)
	stack := &Stack{}
	dc := NewContext(set, &captureSink{}, stack)

	if err := dc.Begin(context.Background(), "parent", Provided(nil)); err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	if parentResult != "from-child" {
		t.Errorf("expected parent to resume with child result, got %q", parentResult)
	}
	if !stack.Empty() {
		t.Errorf("expected empty stack, got %d instances", len(stack.Instances))
	}
}

func TestBeginResumesParentNextStep(t *testing.T) {
	t.Parallel()
	child := NewWaterfall("child",
		func(sc *StepContext, in StepValue) (StepResult, error) {
			return End("child-result"), nil
		},
	)
	var resumed string
	parent := NewWaterfall("parent",
		func(sc *StepContext, in StepValue) (StepResult, error) {
			return Begin("child", "for-child"), nil
		},
		func(sc *StepContext, in StepValue) (StepResult, error) {
			resumed = in.Text()
			return End(nil), nil
		},
	)
	set := NewSet().Add(parent).Add(child)
	dc := NewContext(set, &captureSink{}, &Stack{})

	if err := dc.Begin(context.Background(), "parent", Provided(nil)); err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	if resumed != "child-result" {
		t.Errorf("expected parent step 1 to receive child result, got %q", resumed)
	}
}

func TestReplaceHasNoReturnPath(t *testing.T) {
	t.Parallel()
	second := NewWaterfall("second",
		func(sc *StepContext, in StepValue) (StepResult, error) {
			return Prompt(TextPrompt(types.MessageActivity("second?"), nil)), nil
		},
	)
	replaced := false
	first := NewWaterfall("first",
		func(sc *StepContext, in StepValue) (StepResult, error) {
			return Replace("second", "handover"), nil
		},
		func(sc *StepContext, in StepValue) (StepResult, error) {
			replaced = true
			return End(nil), nil
		},
	)
	set := NewSet().Add(first).Add(second)
	stack := &Stack{}
	dc := NewContext(set, &captureSink{}, stack)

	if err := dc.Begin(context.Background(), "first", Provided(nil)); err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	if replaced {
		t.Error("replaced dialog's later step must never run")
	}
	if len(stack.Instances) != 1 || stack.Top().Dialog != "second" {
		t.Fatalf("expected stack [second], got %+v", stack.Instances)
	}
	if stack.Top().Step != 0 {
		t.Errorf("replace must reset step index, got %d", stack.Top().Step)
	}
}

func TestPromptSuspendAndResume(t *testing.T) {
	t.Parallel()
	var answer string
	d := NewWaterfall("ask",
		func(sc *StepContext, in StepValue) (StepResult, error) {
			if !in.FromPrompt {
				return Prompt(TextPrompt(types.MessageActivity("name?"), nil)), nil
			}
			answer = in.Text()
			return End(nil), nil
		},
	)
	set := NewSet().Add(d)
	sink := &captureSink{}
	stack := &Stack{}
	dc := NewContext(set, sink, stack)
	ctx := context.Background()

	if err := dc.Begin(ctx, "ask", Provided(nil)); err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	if stack.Top() == nil || stack.Top().Prompt == nil {
		t.Fatal("expected top instance to wait on a prompt")
	}
	if stack.Top().Step != 0 {
		t.Errorf("suspension must not advance the step index, got %d", stack.Top().Step)
	}
	if len(sink.sent) != 1 || sink.sent[0].Text != "name?" {
		t.Fatalf("expected prompt activity, got %+v", sink.sent)
	}

	handled, err := dc.Continue(ctx, messageTurn("Alice"))
	if err != nil {
		t.Fatalf("continue failed: %v", err)
	}
	if !handled {
		t.Error("continue should report the turn as handled")
	}
	if answer != "Alice" {
		t.Errorf("expected prompt result %q, got %q", "Alice", answer)
	}
	if !stack.Empty() {
		t.Errorf("expected empty stack, got %+v", stack.Instances)
	}
}

func TestContinueWithoutNewTurnIsIdempotent(t *testing.T) {
	t.Parallel()
	d := NewWaterfall("ask",
		func(sc *StepContext, in StepValue) (StepResult, error) {
			if !in.FromPrompt {
				return Prompt(TextPrompt(types.MessageActivity("name?"), nil)), nil
			}
			return End(nil), nil
		},
	)
	set := NewSet().Add(d)
	sink := &captureSink{}
	stack := &Stack{}
	dc := NewContext(set, sink, stack)
	ctx := context.Background()

	if err := dc.Begin(ctx, "ask", Provided(nil)); err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	before := *stack.Top()

	for i := 0; i < 2; i++ {
		handled, err := dc.Continue(ctx, nil)
		if err != nil {
			t.Fatalf("continue %d failed: %v", i, err)
		}
		if !handled {
			t.Errorf("continue %d: active stack should report handled", i)
		}
	}
	after := stack.Top()
	if after.Step != before.Step || after.Dialog != before.Dialog {
		t.Errorf("suspension point moved: before %+v, after %+v", before, after)
	}
	if after.Prompt == nil {
		t.Error("prompt state must survive continues without input")
	}
	if len(sink.sent) != 1 {
		t.Errorf("no activity may be sent without new input, got %d", len(sink.sent))
	}
}

func TestContinueOnEmptyStack(t *testing.T) {
	t.Parallel()
	dc := NewContext(NewSet(), &captureSink{}, &Stack{})
	handled, err := dc.Continue(context.Background(), messageTurn("hi"))
	if err != nil {
		t.Fatalf("continue failed: %v", err)
	}
	if handled {
		t.Error("empty stack must not handle the turn")
	}
}

func TestBeginUnknownDialog(t *testing.T) {
	t.Parallel()
	dc := NewContext(NewSet(), &captureSink{}, &Stack{})
	err := dc.Begin(context.Background(), "missing", Provided(nil))
	var unknown *UnknownDialogError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownDialogError, got %v", err)
	}
	if unknown.Name != "missing" {
		t.Errorf("expected dialog name in error, got %q", unknown.Name)
	}
}

func TestStepBeginningUnknownDialog(t *testing.T) {
	t.Parallel()
	d := NewWaterfall("bad",
		func(sc *StepContext, in StepValue) (StepResult, error) {
			return Begin("missing", nil), nil
		},
	)
	dc := NewContext(NewSet().Add(d), &captureSink{}, &Stack{})
	err := dc.Begin(context.Background(), "bad", Provided(nil))
	var unknown *UnknownDialogError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownDialogError, got %v", err)
	}
}

func TestZeroTransitionIsFlowError(t *testing.T) {
	t.Parallel()
	d := NewWaterfall("broken",
		func(sc *StepContext, in StepValue) (StepResult, error) {
			return StepResult{}, nil
		},
	)
	dc := NewContext(NewSet().Add(d), &captureSink{}, &Stack{})
	err := dc.Begin(context.Background(), "broken", Provided(nil))
	var flowErr *FlowError
	if !errors.As(err, &flowErr) {
		t.Fatalf("expected FlowError, got %v", err)
	}
	if flowErr.Dialog != "broken" || flowErr.Step != 0 {
		t.Errorf("expected dialog/step in error, got %+v", flowErr)
	}
}

func TestStepErrorPropagates(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	d := NewWaterfall("fails",
		func(sc *StepContext, in StepValue) (StepResult, error) {
			return StepResult{}, boom
		},
	)
	dc := NewContext(NewSet().Add(d), &captureSink{}, &Stack{})
	if err := dc.Begin(context.Background(), "fails", Provided(nil)); !errors.Is(err, boom) {
		t.Fatalf("expected step error to propagate, got %v", err)
	}
}
