package dialog

import (
	"strings"

	"github.com/tbxark/foodbot/types"
)

// Prompt kinds.
const (
	PromptText   = "text"
	PromptChoice = "choice"
)

// DefaultMaxAttempts bounds the validation retry loop. After this many
// rejected replies the owning step resumes with the skipped marker
// instead of re-asking forever.
const DefaultMaxAttempts = 3

// PromptState is the transient record kept between a step issuing a
// prompt and the inbound turn that answers it. Only the top instance
// of a stack may hold one.
type PromptState struct {
	Kind        string          `json:"kind"`
	Prompt      *types.Activity `json:"prompt"`
	Retry       *types.Activity `json:"retry,omitempty"`
	Choices     []string        `json:"choices,omitempty"`
	Attempts    int             `json:"attempts,omitempty"`
	MaxAttempts int             `json:"max_attempts"`
}

// TextPrompt accepts any non-empty reply. retry may be nil, in which
// case the original prompt is re-sent on invalid input.
func TextPrompt(prompt, retry *types.Activity) *PromptState {
	return &PromptState{
		Kind:        PromptText,
		Prompt:      prompt,
		Retry:       retry,
		MaxAttempts: DefaultMaxAttempts,
	}
}

// ChoicePrompt accepts only one of the given tokens, compared
// case-insensitively. The accepted canonical token is handed to the
// resumed step.
func ChoicePrompt(prompt, retry *types.Activity, choices ...string) *PromptState {
	return &PromptState{
		Kind:        PromptChoice,
		Prompt:      prompt,
		Retry:       retry,
		Choices:     choices,
		MaxAttempts: DefaultMaxAttempts,
	}
}

// Validate checks a raw reply and returns the canonical value.
func (p *PromptState) Validate(input string) (string, bool) {
	text := strings.TrimSpace(input)
	switch p.Kind {
	case PromptText:
		return text, text != ""
	case PromptChoice:
		for _, choice := range p.Choices {
			if strings.EqualFold(choice, text) {
				return choice, true
			}
		}
		return "", false
	}
	return "", false
}

func (p *PromptState) retryActivity() *types.Activity {
	if p.Retry != nil {
		return p.Retry
	}
	return p.Prompt
}
