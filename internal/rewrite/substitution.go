package rewrite

import (
	"errors"
	"fmt"
	"strings"
)

const (
	substitutionPairSeparatorConstant    = "="
	emptySubstitutionTextMessageConstant = "substitution text to replace must not be empty"
	substitutionSpecificationTemplate    = "invalid substitution %q: expected old=new"
	substitutionPositionTemplateConstant = "substitution %d: %w"
	substitutionDisplayTemplateConstant  = "'%s' → '%s'"
	substitutionListSeparatorConstant    = ","
)

// ErrEmptySubstitutionText reports a substitution whose old text is empty.
var ErrEmptySubstitutionText = errors.New(emptySubstitutionTextMessageConstant)

// Substitution replaces every occurrence of Old with New.
type Substitution struct {
	Old string `yaml:"old" mapstructure:"old"`
	New string `yaml:"new" mapstructure:"new"`
}

// String renders the substitution for confirmation messages.
func (substitution Substitution) String() string {
	return fmt.Sprintf(substitutionDisplayTemplateConstant, substitution.Old, substitution.New)
}

// ParseSubstitution parses an "old=new" specification. The first "=" splits
// the pair, so the replacement text may itself contain "=".
func ParseSubstitution(specification string) (Substitution, error) {
	oldText, newText, found := strings.Cut(specification, substitutionPairSeparatorConstant)
	if !found {
		return Substitution{}, fmt.Errorf(substitutionSpecificationTemplate, specification)
	}
	substitution := Substitution{Old: oldText, New: newText}
	if len(substitution.Old) == 0 {
		return Substitution{}, ErrEmptySubstitutionText
	}
	return substitution, nil
}

// SubstitutionSet is an ordered list of substitutions. Order matters: each
// substitution sees the text produced by the ones before it.
type SubstitutionSet []Substitution

// Append returns a new set with the additional substitutions after the existing ones.
func (set SubstitutionSet) Append(substitutions ...Substitution) SubstitutionSet {
	combined := make(SubstitutionSet, 0, len(set)+len(substitutions))
	combined = append(combined, set...)
	return append(combined, substitutions...)
}

// UnmarshalText parses a comma-separated list of "old=new" pairs, the form
// substitutions take when supplied through an environment variable.
func (set *SubstitutionSet) UnmarshalText(text []byte) error {
	parsed := SubstitutionSet{}
	for _, specification := range strings.Split(string(text), substitutionListSeparatorConstant) {
		trimmed := strings.TrimSpace(specification)
		if len(trimmed) == 0 {
			continue
		}
		substitution, parseError := ParseSubstitution(trimmed)
		if parseError != nil {
			return parseError
		}
		parsed = append(parsed, substitution)
	}
	*set = parsed
	return nil
}

// Validate rejects substitutions with empty old text.
func (set SubstitutionSet) Validate() error {
	for substitutionIndex, substitution := range set {
		if len(substitution.Old) == 0 {
			return fmt.Errorf(substitutionPositionTemplateConstant, substitutionIndex+1, ErrEmptySubstitutionText)
		}
	}
	return nil
}

// Empty reports whether the set holds no substitutions.
func (set SubstitutionSet) Empty() bool {
	return len(set) == 0
}

// Apply performs every substitution on message in order.
func (set SubstitutionSet) Apply(message string) string {
	rewritten := message
	for _, substitution := range set {
		if len(substitution.Old) == 0 {
			continue
		}
		rewritten = strings.ReplaceAll(rewritten, substitution.Old, substitution.New)
	}
	return rewritten
}
