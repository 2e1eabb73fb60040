// modifier.go defines the per-field interpretation modifiers and the resolver
// that selects at most one of them from a field's annotation keyword list.
// The keyword table is the single source of truth: parsing and diagnostic
// rendering both read from it.
package vertexformat

import "fmt"

// Modifier is an optional per-field directive changing how a stored component
// value is interpreted at draw time without altering its storage layout.
// ModifierNone is the zero value and means no modifier was selected.
type Modifier int

const (
	// ModifierNone means the field carries no interpretation modifier.
	ModifierNone Modifier = iota

	// ModifierNormalized normalizes an integer component at runtime: unsigned
	// integers to [0, 1], signed integers to [-1, 1]. Invalid on floats.
	ModifierNormalized

	// ModifierAsFloat casts the component to single-precision floating point
	// at runtime. On floats it is a no-op alias for the default interpretation.
	ModifierAsFloat

	// ModifierAsDouble casts the component to double-precision floating point
	// at runtime. Invalid on integers.
	ModifierAsDouble
)

// modifierKeywords maps recognized annotation keywords to modifiers. This is
// the single source of the recognized-keyword set; modifierNames is derived
// from it so the two can never drift apart.
var modifierKeywords = map[string]Modifier{
	"normalized": ModifierNormalized,
	"as_float":   ModifierAsFloat,
	"as_double":  ModifierAsDouble,
}

var modifierNames = func() map[Modifier]string {
	names := make(map[Modifier]string, len(modifierKeywords))
	for kw, m := range modifierKeywords {
		names[m] = kw
	}
	return names
}()

// ParseModifier looks up a single annotation keyword.
//
// Parameters:
//   - keyword: the annotation keyword to look up
//
// Returns:
//   - Modifier: the matching modifier, or ModifierNone
//   - bool: true if the keyword is a recognized modifier keyword
func ParseModifier(keyword string) (Modifier, bool) {
	m, ok := modifierKeywords[keyword]
	return m, ok
}

func (m Modifier) String() string {
	if m == ModifierNone {
		return "none"
	}
	if name, ok := modifierNames[m]; ok {
		return name
	}
	return fmt.Sprintf("modifier(%d)", int(m))
}

// resolveModifier folds over a field's annotation keywords and selects at most
// one recognized modifier. Unrecognized keywords are ignored; they belong to
// other consumers. When a second recognized keyword is found while one is
// already selected, a warning names both and the selection resets to
// ModifierNone: a conflict resolves to the absence of a modifier, not to
// keeping the first one. A later keyword can then select again.
func resolveModifier(keywords []string, loc Location, dv *derivation) Modifier {
	resolved := ModifierNone
	for _, kw := range keywords {
		m, ok := modifierKeywords[kw]
		if !ok {
			continue
		}
		if resolved == ModifierNone {
			resolved = m
			continue
		}
		dv.report(SeverityWarning, loc, fmt.Sprintf(
			"conflicting modifiers: discarding %q along with previously selected %q; field is treated as unmodified", m, resolved))
		resolved = ModifierNone
	}
	return resolved
}
