package postgres

import (
	"fmt"
	"strings"

	"github.com/asaidimu/crudsql/pkg/core"
)

// orderTerms turns sort_column ("status ASC, created_at DESC") or the legacy
// sort/direction pair into quoted ORDER BY terms. sort_column wins when both
// are set. No terms and no error means the caller did not ask for ordering.
func orderTerms(env *core.Envelope) ([]string, error) {
	if strings.TrimSpace(env.SortColumn) != "" {
		var terms []string
		for _, spec := range strings.Split(env.SortColumn, ",") {
			parts := strings.Fields(spec)
			switch len(parts) {
			case 0:
				continue
			case 1:
				parts = append(parts, "")
			case 2:
			default:
				return nil, core.NewError(core.KindInvalidRequest, "invalid sort term %q", strings.TrimSpace(spec))
			}
			term, err := orderTerm(parts[0], parts[1])
			if err != nil {
				return nil, err
			}
			terms = append(terms, term)
		}
		return terms, nil
	}

	if env.Sort != "" {
		term, err := orderTerm(env.Sort, env.Direction)
		if err != nil {
			return nil, err
		}
		return []string{term}, nil
	}
	return nil, nil
}

func orderTerm(column, direction string) (string, error) {
	quoted, err := core.QuoteIdentifier(column)
	if err != nil {
		return "", err
	}
	dir := strings.ToUpper(strings.TrimSpace(direction))
	switch dir {
	case "":
		dir = "ASC"
	case "ASC", "DESC":
	default:
		return "", core.NewError(core.KindInvalidRequest, "sort direction must be ASC or DESC, got %q", direction)
	}
	return fmt.Sprintf("%s %s", quoted, dir), nil
}

// pageClause renders LIMIT/OFFSET as integer literals. Both values are
// already coerced to non-negative ints by the envelope decoder.
func pageClause(env *core.Envelope) (string, error) {
	if env.Limit < 0 || env.Offset < 0 {
		return "", core.NewError(core.KindInvalidRequest, "limit and offset must not be negative")
	}
	var sb strings.Builder
	if env.Limit > 0 {
		sb.WriteString(fmt.Sprintf(" LIMIT %d", env.Limit))
	}
	if env.Offset > 0 {
		sb.WriteString(fmt.Sprintf(" OFFSET %d", env.Offset))
	}
	return sb.String(), nil
}
