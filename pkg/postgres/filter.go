package postgres

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"github.com/asaidimu/crudsql/pkg/core"
)

// WhereClause is a standalone compiled WHERE clause.
type WhereClause struct {
	SQL            string // "WHERE ..." or ""
	Params         []any
	NextParamIndex int // first placeholder number free after this clause
}

// CompileWhere compiles the filter part of env on its own, numbering its
// placeholders from $1.
func CompileWhere(env *core.Envelope) (*WhereClause, error) {
	b := newBinder()
	where, err := compileFilter(env, b)
	if err != nil {
		return nil, err
	}
	stmt, err := b.finish(where)
	if err != nil {
		return nil, err
	}
	return &WhereClause{
		SQL:            stmt.Query,
		Params:         stmt.Params,
		NextParamIndex: len(stmt.Params) + 1,
	}, nil
}

// compileFilter builds the WHERE clause for env, binding every literal
// through b. The numbered slots win over the legacy search pair. Every named
// field is validated, including slots that end up inactive.
func compileFilter(env *core.Envelope, b *binder) (string, error) {
	var predicates []string

	for _, slot := range env.Filters {
		if slot.Field == "" {
			continue
		}
		if err := core.ValidateIdentifier(slot.Field); err != nil {
			return "", err
		}
		op, err := core.ResolveOperator(slot.Operator)
		if err != nil {
			return "", err
		}
		if op.TakesValue() && !slotHasValue(slot) {
			continue
		}
		pred, err := buildPredicate(slot.Field, op, slot.Value, b)
		if err != nil {
			return "", err
		}
		predicates = append(predicates, pred)
	}

	if env.SearchField != "" {
		if err := core.ValidateIdentifier(env.SearchField); err != nil {
			return "", err
		}
	}
	if len(predicates) == 0 && env.Search != "" && env.SearchField != "" {
		op, _ := core.ResolveOperator(string(core.OperatorILike))
		pred, err := buildPredicate(env.SearchField, op, env.Search, b)
		if err != nil {
			return "", err
		}
		predicates = append(predicates, pred)
	}

	// Joined with the caller's combinator, so under OR the exclusion does not
	// restrict the other predicates.
	if env.AutoExcludeDeleted {
		col, err := core.QuoteIdentifier(core.SoftDeleteColumn)
		if err != nil {
			return "", err
		}
		predicates = append(predicates, col+" IS NULL")
	}

	if len(predicates) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(predicates, " "+string(combinator(env))+" "), nil
}

func buildPredicate(field string, op core.Operator, value any, b *binder) (string, error) {
	quotedField, err := core.QuoteIdentifier(field)
	if err != nil {
		return "", err
	}

	switch {
	case !op.TakesValue():
		return fmt.Sprintf("%s %s", quotedField, op.SQL()), nil
	case op.IsList():
		var placeholders []string
		for _, part := range strings.Split(cast.ToString(value), ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			placeholders = append(placeholders, b.bind(part))
		}
		if len(placeholders) == 0 {
			return "", core.NewError(core.KindInvalidRequest, "in filter on %q has no values", field)
		}
		return fmt.Sprintf("%s IN (%s)", quotedField, strings.Join(placeholders, ", ")), nil
	case op.IsPattern():
		return fmt.Sprintf("%s %s %s", quotedField, op.SQL(), b.bind(likePattern(value))), nil
	default:
		return fmt.Sprintf("%s %s %s", quotedField, op.SQL(), b.bind(value)), nil
	}
}

// likePattern wraps v in % wildcards unless the caller already placed one.
func likePattern(v any) string {
	s := cast.ToString(v)
	if strings.Contains(s, "%") {
		return s
	}
	return "%" + s + "%"
}

func slotHasValue(slot core.FilterSlot) bool {
	if !slot.HasValue || slot.Value == nil {
		return false
	}
	if s, ok := slot.Value.(string); ok && s == "" {
		return false
	}
	return true
}

func combinator(env *core.Envelope) core.CombineType {
	if env.Combine == core.CombineOr {
		return core.CombineOr
	}
	return core.CombineAnd
}
