package domain

import (
	"slices"

	"go.trai.ch/zerr"
)

// AccessRuleKind is the restriction an access rule applies.
type AccessRuleKind uint8

const (
	// AccessAccessible marks matching types as accessible.
	AccessAccessible AccessRuleKind = iota
	// AccessNonAccessible forbids references to matching types.
	AccessNonAccessible
	// AccessDiscouraged discourages references to matching types.
	AccessDiscouraged
)

// String returns the classpath file spelling of the kind.
func (k AccessRuleKind) String() string {
	switch k {
	case AccessNonAccessible:
		return "nonaccessible"
	case AccessDiscouraged:
		return "discouraged"
	default:
		return "accessible"
	}
}

// ParseAccessRuleKind parses the classpath file spelling of an access rule kind.
func ParseAccessRuleKind(s string) (AccessRuleKind, error) {
	switch s {
	case "accessible":
		return AccessAccessible, nil
	case "nonaccessible":
		return AccessNonAccessible, nil
	case "discouraged":
		return AccessDiscouraged, nil
	default:
		return 0, zerr.With(ErrUnknownAccessRuleKind, "kind", s)
	}
}

// AccessRule restricts access to the types matching Pattern.
type AccessRule struct {
	Pattern        Path
	Kind           AccessRuleKind
	IgnoreIfBetter bool
	// Unknown holds XML attributes of the access rule element the codec does
	// not interpret.
	Unknown []Attribute
}

// Equal reports whether both rules are the same.
func (r AccessRule) Equal(o AccessRule) bool {
	return r.Pattern == o.Pattern && r.Kind == o.Kind && r.IgnoreIfBetter == o.IgnoreIfBetter &&
		slices.EqualFunc(r.Unknown, o.Unknown, Attribute.Equal)
}

// Matches reports whether a slash separated type name matches the rule.
func (r AccessRule) Matches(typePath Path) bool {
	return MatchPattern(r.Pattern, typePath)
}

// CombineAccessRules returns referring ++ own when combine is set, own otherwise.
func CombineAccessRules(referring, own []AccessRule, combine bool) []AccessRule {
	if !combine || len(referring) == 0 {
		return own
	}
	if len(own) == 0 {
		return referring
	}
	out := make([]AccessRule, 0, len(referring)+len(own))
	out = append(out, referring...)
	return append(out, own...)
}
