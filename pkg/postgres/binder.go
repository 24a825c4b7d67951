package postgres

import (
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/asaidimu/crudsql/pkg/core"
)

// paramPlaceholder is the dialect-neutral marker written while a statement
// is assembled. finish rewrites the markers to $1..$n in order.
const paramPlaceholder = "?"

// binder collects statement parameters in placeholder order.
type binder struct {
	params []any
}

func newBinder() *binder {
	return &binder{params: []any{}}
}

// bind records v and returns the placeholder that refers to it.
func (b *binder) bind(v any) string {
	b.params = append(b.params, v)
	return paramPlaceholder
}

// finish numbers the placeholders in sql and pairs it with the bound
// parameters.
func (b *binder) finish(sql string) (*core.Statement, error) {
	numbered, err := squirrel.Dollar.ReplacePlaceholders(sql)
	if err != nil {
		return nil, fmt.Errorf("number placeholders: %w", err)
	}
	return &core.Statement{Query: numbered, Params: b.params}, nil
}
