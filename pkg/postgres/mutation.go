package postgres

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/asaidimu/crudsql/pkg/core"
)

// insertColumns returns the payload keys usable as column names, sorted.
// Keys with invalid names are dropped rather than rejected.
func insertColumns(rec core.Record) []string {
	var cols []string
	for _, k := range slices.Sorted(maps.Keys(rec)) {
		if core.IsIdentifier(k) {
			cols = append(cols, k)
		}
	}
	return cols
}

// Create builds a single-row INSERT ... RETURNING *.
func (g *Generator) Create(env *core.Envelope) (*core.Statement, error) {
	table, err := g.table(env)
	if err != nil {
		return nil, err
	}
	if len(env.Payload) == 0 {
		return nil, core.NewError(core.KindEmptyPayload, "create on %s needs a payload", env.Table)
	}

	cols := insertColumns(env.Payload)
	if len(cols) == 0 {
		return nil, core.NewError(core.KindEmptyPayload, "create on %s has no valid columns", env.Table)
	}
	quoted, err := core.QuoteIdentifiers(cols)
	if err != nil {
		return nil, err
	}

	b := newBinder()
	placeholders := make([]string, len(cols))
	for i, col := range cols {
		placeholders[i] = b.bind(env.Payload[col])
	}

	return b.finish(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		table, strings.Join(quoted, ","), strings.Join(placeholders, ",")))
}

// BatchCreate builds one multi-row INSERT. The column set is taken from the
// first row; later rows bind NULL for missing keys and their extra keys are
// ignored.
func (g *Generator) BatchCreate(env *core.Envelope) (*core.Statement, error) {
	table, err := g.table(env)
	if err != nil {
		return nil, err
	}
	if len(env.Rows) == 0 {
		return nil, core.NewError(core.KindEmptyPayload, "batch_create on %s needs at least one row", env.Table)
	}

	cols := insertColumns(env.Rows[0])
	if len(cols) == 0 {
		return nil, core.NewError(core.KindEmptyPayload, "batch_create on %s has no valid columns", env.Table)
	}
	quoted, err := core.QuoteIdentifiers(cols)
	if err != nil {
		return nil, err
	}

	b := newBinder()
	tuples := make([]string, len(env.Rows))
	for r, row := range env.Rows {
		placeholders := make([]string, len(cols))
		for i, col := range cols {
			placeholders[i] = b.bind(row[col])
		}
		tuples[r] = "(" + strings.Join(placeholders, ",") + ")"
	}

	return b.finish(fmt.Sprintf("INSERT INTO %s (%s) VALUES %s RETURNING *",
		table, strings.Join(quoted, ","), strings.Join(tuples, ", ")))
}

// matchValue returns the payload value of the table's match column.
func (g *Generator) matchValue(env *core.Envelope) (string, any, error) {
	col := g.MatchColumn(env.Table)
	val, ok := env.Payload[col]
	if !ok || val == nil {
		return "", nil, core.NewError(core.KindMissingMatchValue, "%s on %s needs payload.%s", env.Action, env.Table, col)
	}
	return col, val, nil
}

// Update builds UPDATE ... SET ... WHERE <match column> = $n RETURNING *.
// Unlike create, an invalid column name fails the whole statement.
func (g *Generator) Update(env *core.Envelope) (*core.Statement, error) {
	table, err := g.table(env)
	if err != nil {
		return nil, err
	}
	matchCol, matchVal, err := g.matchValue(env)
	if err != nil {
		return nil, err
	}
	quotedMatch, err := core.QuoteIdentifier(matchCol)
	if err != nil {
		return nil, err
	}

	var setCols []string
	for _, k := range slices.Sorted(maps.Keys(env.Payload)) {
		if k != matchCol {
			setCols = append(setCols, k)
		}
	}
	if len(setCols) == 0 {
		return nil, core.NewError(core.KindEmptyPayload, "update on %s has nothing to set", env.Table)
	}
	quoted, err := core.QuoteIdentifiers(setCols)
	if err != nil {
		return nil, err
	}

	b := newBinder()
	assignments := make([]string, len(setCols))
	for i, col := range setCols {
		assignments[i] = fmt.Sprintf("%s = %s", quoted[i], b.bind(env.Payload[col]))
	}
	where := fmt.Sprintf("%s = %s", quotedMatch, b.bind(matchVal))

	return b.finish(fmt.Sprintf("UPDATE %s SET %s WHERE %s RETURNING *",
		table, strings.Join(assignments, ", "), where))
}

// SoftDelete marks a row deleted by setting its deletion timestamp. It never
// emits DELETE. The timestamp is payload.deleted_at when given, otherwise the
// generator clock.
func (g *Generator) SoftDelete(env *core.Envelope) (*core.Statement, error) {
	table, err := g.table(env)
	if err != nil {
		return nil, err
	}
	matchCol, matchVal, err := g.matchValue(env)
	if err != nil {
		return nil, err
	}
	quotedMatch, err := core.QuoteIdentifier(matchCol)
	if err != nil {
		return nil, err
	}
	deletedAt, err := core.QuoteIdentifier(core.SoftDeleteColumn)
	if err != nil {
		return nil, err
	}

	var stamp any = g.now().UTC()
	if v, ok := env.Payload[core.SoftDeleteColumn]; ok && v != nil {
		stamp = v
	}

	b := newBinder()
	set := fmt.Sprintf("%s = %s", deletedAt, b.bind(stamp))
	where := fmt.Sprintf("%s = %s", quotedMatch, b.bind(matchVal))

	return b.finish(fmt.Sprintf("UPDATE %s SET %s WHERE %s RETURNING *", table, set, where))
}
