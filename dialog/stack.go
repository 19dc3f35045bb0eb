package dialog

// Instance is one activation of a waterfall dialog. Instances are
// persisted across turns as part of the stack.
type Instance struct {
	Dialog string       `json:"dialog"`
	Step   int          `json:"step"`
	Prompt *PromptState `json:"prompt,omitempty"`
}

// Stack is the ordered set of active dialogs for one conversation,
// top last. At most the top instance waits on a prompt.
type Stack struct {
	Instances []Instance `json:"instances,omitempty"`
}

func (s *Stack) Empty() bool {
	return len(s.Instances) == 0
}

// Top returns the active instance, or nil when the stack is idle.
func (s *Stack) Top() *Instance {
	if len(s.Instances) == 0 {
		return nil
	}
	return &s.Instances[len(s.Instances)-1]
}

func (s *Stack) push(name string) *Instance {
	s.Instances = append(s.Instances, Instance{Dialog: name})
	return s.Top()
}

func (s *Stack) pop() {
	if len(s.Instances) > 0 {
		s.Instances = s.Instances[:len(s.Instances)-1]
	}
}
