package profile

import (
	"fmt"

	"github.com/bytedance/sonic"
	jsonpatch "github.com/evanphx/json-patch/v5"
)

// UserProfile holds the slot values collected over a conversation.
// It is created lazily with all fields unset and mutated only through
// Apply.
type UserProfile struct {
	Name         string `json:"name,omitempty"`
	Food         string `json:"food,omitempty"`
	Price        string `json:"price,omitempty"`
	Localisation string `json:"localisation,omitempty"`
}

// JSON pointers of the writable slots.
const (
	PointerName         = "/name"
	PointerFood         = "/food"
	PointerPrice        = "/price"
	PointerLocalisation = "/localisation"
)

var allowedPointers = map[string]bool{
	PointerName:         true,
	PointerFood:         true,
	PointerPrice:        true,
	PointerLocalisation: true,
}

func (p UserProfile) HasName() bool {
	return p.Name != ""
}

func (p UserProfile) Complete() bool {
	return len(p.MissingSlots()) == 0
}

// MissingSlots returns the pointers of the slots still unset, in
// collection order. Price is a valid empty preference only after it
// has been asked, so an empty string still counts as missing here;
// callers track asked-ness through the dialog stack, not the profile.
func (p UserProfile) MissingSlots() []string {
	var missing []string
	if p.Name == "" {
		missing = append(missing, PointerName)
	}
	if p.Food == "" {
		missing = append(missing, PointerFood)
	}
	if p.Price == "" {
		missing = append(missing, PointerPrice)
	}
	if p.Localisation == "" {
		missing = append(missing, PointerLocalisation)
	}
	return missing
}

// Op is a single RFC6902 operation against the profile document.
type Op struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value,omitempty"`
}

// Set builds an op writing value at pointer. "add" replaces an
// existing member on objects, so it covers both first write and
// overwrite.
func Set(pointer, value string) Op {
	return Op{Op: "add", Path: pointer, Value: value}
}

// Apply returns a copy of p with ops applied. Ops touching a pointer
// outside the slot set are rejected.
func Apply(p UserProfile, ops ...Op) (UserProfile, error) {
	if len(ops) == 0 {
		return p, nil
	}
	for _, op := range ops {
		if !allowedPointers[op.Path] {
			return p, fmt.Errorf("pointer %q is not a writable slot", op.Path)
		}
	}

	currentJSON, err := sonic.Marshal(p)
	if err != nil {
		return p, fmt.Errorf("failed to marshal profile: %w", err)
	}
	patchJSON, err := sonic.Marshal(ops)
	if err != nil {
		return p, fmt.Errorf("failed to marshal patch operations: %w", err)
	}
	patch, err := jsonpatch.DecodePatch(patchJSON)
	if err != nil {
		return p, fmt.Errorf("failed to decode patch: %w", err)
	}
	modifiedJSON, err := patch.Apply(currentJSON)
	if err != nil {
		return p, fmt.Errorf("failed to apply patch: %w", err)
	}

	var result UserProfile
	if err := sonic.Unmarshal(modifiedJSON, &result); err != nil {
		return p, fmt.Errorf("patched profile is invalid: %w", err)
	}
	return result, nil
}
