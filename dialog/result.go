package dialog

// StepValue is the tagged input carried into a step. A value is either
// provided by the previous transition, delivered by a resolved prompt
// (FromPrompt), or explicitly skipped. Skip replaces ad-hoc sentinel
// values at the step boundary.
type StepValue struct {
	Value      any  `json:"value,omitempty"`
	Skip       bool `json:"skip,omitempty"`
	FromPrompt bool `json:"from_prompt,omitempty"`
}

// Provided wraps a concrete value.
func Provided(v any) StepValue {
	return StepValue{Value: v}
}

// Skipped marks the value as intentionally absent.
func Skipped() StepValue {
	return StepValue{Skip: true}
}

func promptResult(v any) StepValue {
	return StepValue{Value: v, FromPrompt: true}
}

func promptAbandoned() StepValue {
	return StepValue{Skip: true, FromPrompt: true}
}

// Text returns the value as a string, or "" when it is not one.
func (v StepValue) Text() string {
	s, _ := v.Value.(string)
	return s
}

type resultKind int

const (
	kindInvalid resultKind = iota
	kindNext
	kindPrompt
	kindBegin
	kindReplace
	kindEnd
)

// StepResult is the transition returned by a step. The zero value is
// not a valid transition and surfaces as a *FlowError.
type StepResult struct {
	kind   resultKind
	value  StepValue
	dialog string
	prompt *PromptState
}

// Next advances to the following step of the same dialog, feeding it v.
// Stepping past the last step ends the dialog with v as its result.
func Next(v any) StepResult {
	return StepResult{kind: kindNext, value: Provided(v)}
}

// Skip advances to the following step with the skipped marker.
func Skip() StepResult {
	return StepResult{kind: kindNext, value: Skipped()}
}

// Prompt suspends the current step until the next inbound turn
// delivers input accepted by p.
func Prompt(p *PromptState) StepResult {
	return StepResult{kind: kindPrompt, prompt: p}
}

// Begin pushes the named dialog on top of the stack. When it ends, the
// calling dialog resumes at its next step with the child's end result.
func Begin(name string, v any) StepResult {
	return StepResult{kind: kindBegin, dialog: name, value: Provided(v)}
}

// Replace pops the current dialog and starts the named one in its
// place. There is no return path to the replaced dialog.
func Replace(name string, v any) StepResult {
	return StepResult{kind: kindReplace, dialog: name, value: Provided(v)}
}

// End pops the current dialog, handing v to the parent's next step, or
// leaving the conversation idle when the stack empties.
func End(v any) StepResult {
	return StepResult{kind: kindEnd, value: Provided(v)}
}
