package intent

import "context"

// Intent labels produced by the oracle.
const (
	ChooseTypeOfFood = "ChooseTypeOfFood"
	FindLocalisation = "FindLocalisation"
	None             = "None"
)

// ScoreThreshold is the minimum confidence for an intent to count as
// matched.
const ScoreThreshold = 0.5

// Entity is a structured value extracted from free text.
type Entity struct {
	Type  string `json:"type" jsonschema:"required,enum=ChooseTypeOfFood,enum=FindLocalisation,description=The kind of information this entity carries"`
	Value string `json:"value" jsonschema:"required,description=The extracted span, normalized (e.g. a cuisine name or a city name)"`
}

// TopIntent is the highest-scoring intent for an utterance.
type TopIntent struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Result is produced fresh per Recognize call and never persisted.
type Result struct {
	TopIntent TopIntent `json:"top_intent"`
	Entities  []Entity  `json:"entities,omitempty"`
}

// Matches reports whether the result's top intent is the given label
// with sufficient confidence.
func (r *Result) Matches(label string) bool {
	return r.TopIntent.Label == label && r.TopIntent.Score >= ScoreThreshold
}

// Entity returns the first entity of the given type. An intent match
// without a matching entity must be treated as a mismatch by callers;
// never assume the entity list is populated.
func (r *Result) Entity(typ string) (string, bool) {
	for _, e := range r.Entities {
		if e.Type == typ && e.Value != "" {
			return e.Value, true
		}
	}
	return "", false
}

// Oracle maps free text to an intent and extracted entities.
type Oracle interface {
	Recognize(ctx context.Context, utterance string) (*Result, error)
}
