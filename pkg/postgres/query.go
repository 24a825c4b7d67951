// Package postgres compiles request envelopes into parameterized PostgreSQL
// statements. Every literal is bound as a $n parameter and every name is
// validated and quoted; nothing here touches a database.
package postgres

import (
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/asaidimu/crudsql/pkg/core"
)

// Generator compiles envelopes for one configuration. It is immutable after
// NewGenerator and safe for concurrent use.
type Generator struct {
	matchColumns  map[string]string
	allowedTables map[string]struct{}
	now           func() time.Time
}

var _ core.QueryGenerator = (*Generator)(nil)

// Option configures a Generator.
type Option func(*Generator)

// WithMatchColumns adds or replaces per-table match columns on top of
// DefaultMatchColumns.
func WithMatchColumns(cols map[string]string) Option {
	return func(g *Generator) {
		maps.Copy(g.matchColumns, cols)
	}
}

// WithAllowedTables restricts compilation to the named tables. An empty list
// allows any table with a valid name.
func WithAllowedTables(tables []string) Option {
	return func(g *Generator) {
		if len(tables) == 0 {
			return
		}
		if g.allowedTables == nil {
			g.allowedTables = make(map[string]struct{}, len(tables))
		}
		for _, t := range tables {
			g.allowedTables[t] = struct{}{}
		}
	}
}

// WithClock sets the time source for soft-delete timestamps.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		matchColumns: maps.Clone(DefaultMatchColumns),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// table validates and quotes the target table.
func (g *Generator) table(env *core.Envelope) (string, error) {
	quoted, err := core.QuoteIdentifier(env.Table)
	if err != nil {
		return "", err
	}
	if g.allowedTables != nil {
		if _, ok := g.allowedTables[env.Table]; !ok {
			return "", core.NewError(core.KindTableNotAllowed, "table %q is not allowed", env.Table)
		}
	}
	return quoted, nil
}

// List builds a SELECT with projection, filters, ordering and pagination.
// Without any sort the rows are ordered by the first column.
func (g *Generator) List(env *core.Envelope) (*core.Statement, error) {
	table, err := g.table(env)
	if err != nil {
		return nil, err
	}

	selectFields := "*"
	if len(env.Fields) > 0 {
		quoted, err := core.QuoteIdentifiers(env.Fields)
		if err != nil {
			return nil, err
		}
		selectFields = strings.Join(quoted, ", ")
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
	if len(terms) == 0 {
		terms = []string{"1"}
	}

	page, err := pageClause(env)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("SELECT %s FROM %s", selectFields, table))
	if where != "" {
		sb.WriteString(" " + where)
	}
	sb.WriteString(" ORDER BY " + strings.Join(terms, ", "))
	sb.WriteString(page)

	return b.finish(sb.String())
}

// Count builds SELECT COUNT(*) over the same filters as List.
func (g *Generator) Count(env *core.Envelope) (*core.Statement, error) {
	table, err := g.table(env)
	if err != nil {
		return nil, err
	}

	b := newBinder()
	where, err := compileFilter(env, b)
	if err != nil {
		return nil, err
	}

	sql := "SELECT COUNT(*) FROM " + table
	if where != "" {
		sql += " " + where
	}
	return b.finish(sql)
}
