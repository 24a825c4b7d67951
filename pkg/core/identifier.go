package core

import (
	"regexp"

	"github.com/jackc/pgx/v5"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateIdentifier reports whether name may be used as a table, column or
// alias name.
func ValidateIdentifier(name string) error {
	if !identifierPattern.MatchString(name) {
		return NewError(KindInvalidIdentifier, "invalid identifier %q", name)
	}
	return nil
}

// IsIdentifier is the boolean form of ValidateIdentifier.
func IsIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}

// QuoteIdentifier validates name and returns it double-quoted for embedding
// in SQL text. Every table, column and alias must pass through here.
func QuoteIdentifier(name string) (string, error) {
	if err := ValidateIdentifier(name); err != nil {
		return "", err
	}
	return pgx.Identifier{name}.Sanitize(), nil
}

// QuoteIdentifiers quotes each name, failing on the first invalid one.
func QuoteIdentifiers(names []string) ([]string, error) {
	quoted := make([]string, len(names))
	for i, name := range names {
		q, err := QuoteIdentifier(name)
		if err != nil {
			return nil, err
		}
		quoted[i] = q
	}
	return quoted, nil
}
