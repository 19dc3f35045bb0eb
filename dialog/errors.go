package dialog

import "fmt"

// UnknownDialogError reports a begin or replace that referenced a name
// absent from the dialog set. Fatal at the call site.
type UnknownDialogError struct {
	Name string
}

func (e *UnknownDialogError) Error() string {
	return fmt.Sprintf("unknown dialog %q", e.Name)
}

// FlowError reports a step that returned the zero transition: it
// neither prompted, advanced, transferred nor ended. This is a
// programming error in the dialog and must not be swallowed.
type FlowError struct {
	Dialog string
	Step   int
}

func (e *FlowError) Error() string {
	return fmt.Sprintf("dialog %q step %d produced no transition", e.Dialog, e.Step)
}
