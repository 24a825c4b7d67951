package postgres

import (
	"fmt"
	"strings"

	"github.com/asaidimu/crudsql/pkg/core"
)

// aggregateFunctions is the whitelist of aggregate function names.
var aggregateFunctions = map[string]struct{}{
	"SUM":   {},
	"COUNT": {},
	"AVG":   {},
	"MIN":   {},
	"MAX":   {},
}

// aggregateExpr renders one aggregate as FN(field) AS "alias".
func aggregateExpr(agg core.Aggregate) (string, error) {
	fn := strings.ToUpper(strings.TrimSpace(agg.Function))
	if _, ok := aggregateFunctions[fn]; !ok {
		return "", core.NewError(core.KindInvalidAggregateFunction, "aggregate function %q is not allowed", agg.Function)
	}

	var field, aliasSuffix string
	if agg.Field == "*" {
		if fn != "COUNT" {
			return "", core.NewError(core.KindInvalidIdentifier, "%s(*) is not allowed, only COUNT(*)", fn)
		}
		field, aliasSuffix = "*", "all"
	} else {
		quoted, err := core.QuoteIdentifier(agg.Field)
		if err != nil {
			return "", err
		}
		field, aliasSuffix = quoted, agg.Field
	}

	alias := agg.Alias
	if alias == "" {
		alias = strings.ToLower(fn) + "_" + aliasSuffix
	}
	quotedAlias, err := core.QuoteIdentifier(alias)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s(%s) AS %s", fn, field, quotedAlias), nil
}

// Aggregate builds a grouped aggregate SELECT. The select list is the
// group_by columns followed by the aggregate expressions; sort_column may
// name an aggregate alias.
func (g *Generator) Aggregate(env *core.Envelope) (*core.Statement, error) {
	table, err := g.table(env)
	if err != nil {
		return nil, err
	}
	if len(env.Aggregates) == 0 {
		return nil, core.NewError(core.KindInvalidRequest, "aggregate on %s needs at least one aggregate", env.Table)
	}

	groupBy, err := core.QuoteIdentifiers(env.GroupBy)
	if err != nil {
		return nil, err
	}

	selectParts := append([]string{}, groupBy...)
	for _, agg := range env.Aggregates {
		expr, err := aggregateExpr(agg)
		if err != nil {
			return nil, err
		}
		selectParts = append(selectParts, expr)
	}

	b := newBinder()
	where, err := compileFilter(env, b)
	if err != nil {
		return nil, err
	}

	terms, err := orderTerms(env)
	if err != nil {
		return nil, err
	}

	page, err := pageClause(env)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("SELECT %s FROM %s", strings.Join(selectParts, ", "), table))
	if where != "" {
		sb.WriteString(" " + where)
	}
	if len(groupBy) > 0 {
		sb.WriteString(" GROUP BY " + strings.Join(groupBy, ", "))
	}
	if len(terms) > 0 {
		sb.WriteString(" ORDER BY " + strings.Join(terms, ", "))
	}
	sb.WriteString(page)

	return b.finish(sb.String())
}
