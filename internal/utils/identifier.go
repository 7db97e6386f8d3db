package utils

import "regexp"

// identifierPattern accepts SQL identifiers made of letters, digits and
// underscores, not starting with a digit. Identifiers cannot be bound as
// query parameters, so anything interpolated into SQL must pass this check
// first.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidIdentifier reports whether s is safe to use as a schema or table
// identifier.
func ValidIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}
