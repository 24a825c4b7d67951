package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asaidimu/crudsql/pkg/core"
)

func slot(field string, value any, op string) core.FilterSlot {
	return core.FilterSlot{Field: field, Value: value, HasValue: value != nil, Operator: op}
}

func TestCompileWhere(t *testing.T) {
	tests := []struct {
		name       string
		env        core.Envelope
		wantSQL    string
		wantParams []any
	}{
		{
			name:       "no predicates",
			env:        core.Envelope{},
			wantSQL:    "",
			wantParams: []any{},
		},
		{
			name: "equal with default operator",
			env: core.Envelope{Filters: [core.MaxFilterSlots]core.FilterSlot{
				slot("tenant_id", "T1", ""),
			}},
			wantSQL:    `WHERE "tenant_id" = $1`,
			wantParams: []any{"T1"},
		},
		{
			name: "comparison operators joined with AND",
			env: core.Envelope{Filters: [core.MaxFilterSlots]core.FilterSlot{
				slot("age", int64(18), "gte"),
				slot("age", int64(65), "lt"),
				slot("status", "closed", "not_equal"),
			}},
			wantSQL:    `WHERE "age" >= $1 AND "age" < $2 AND "status" != $3`,
			wantParams: []any{int64(18), int64(65), "closed"},
		},
		{
			name: "sparse slots are skipped",
			env: core.Envelope{Filters: [core.MaxFilterSlots]core.FilterSlot{
				{},
				slot("name", "", "equal"),
				slot("", "orphan", "equal"),
				{},
				{},
				{},
				{},
				slot("city", "Nairobi", "equal"),
			}},
			wantSQL:    `WHERE "city" = $1`,
			wantParams: []any{"Nairobi"},
		},
		{
			name: "in splits trims and drops empty parts",
			env: core.Envelope{Filters: [core.MaxFilterSlots]core.FilterSlot{
				slot("status", "open, closed ,,pending", "in"),
			}},
			wantSQL:    `WHERE "status" IN ($1, $2, $3)`,
			wantParams: []any{"open", "closed", "pending"},
		},
		{
			name: "like wraps bare values",
			env: core.Envelope{Filters: [core.MaxFilterSlots]core.FilterSlot{
				slot("name", "ann", "like"),
				slot("email", "%@example.com", "ilike"),
			}},
			wantSQL:    `WHERE "name" LIKE $1 AND "email" ILIKE $2`,
			wantParams: []any{"%ann%", "%@example.com"},
		},
		{
			name: "null checks bind nothing",
			env: core.Envelope{Filters: [core.MaxFilterSlots]core.FilterSlot{
				slot("archived_at", nil, "is_null"),
				slot("email", "ignored", "is_not_null"),
				slot("id", int64(3), "gt"),
			}},
			wantSQL:    `WHERE "archived_at" IS NULL AND "email" IS NOT NULL AND "id" > $1`,
			wantParams: []any{int64(3)},
		},
		{
			name: "or combinator",
			env: core.Envelope{Combine: core.CombineOr, Filters: [core.MaxFilterSlots]core.FilterSlot{
				slot("a", "1", "equal"),
				slot("b", "2", "equal"),
			}},
			wantSQL:    `WHERE "a" = $1 OR "b" = $2`,
			wantParams: []any{"1", "2"},
		},
		{
			name:       "legacy search",
			env:        core.Envelope{Search: "bob", SearchField: "name"},
			wantSQL:    `WHERE "name" ILIKE $1`,
			wantParams: []any{"%bob%"},
		},
		{
			name:       "legacy search keeps caller wildcards",
			env:        core.Envelope{Search: "bob%", SearchField: "name"},
			wantSQL:    `WHERE "name" ILIKE $1`,
			wantParams: []any{"bob%"},
		},
		{
			name:       "legacy search needs a field",
			env:        core.Envelope{Search: "bob"},
			wantSQL:    "",
			wantParams: []any{},
		},
		{
			name: "numbered slots win over legacy search",
			env: core.Envelope{Search: "bob", SearchField: "name", Filters: [core.MaxFilterSlots]core.FilterSlot{
				slot("id", int64(1), "equal"),
			}},
			wantSQL:    `WHERE "id" = $1`,
			wantParams: []any{int64(1)},
		},
		{
			name:       "auto exclude deleted alone",
			env:        core.Envelope{AutoExcludeDeleted: true},
			wantSQL:    `WHERE "deleted_at" IS NULL`,
			wantParams: []any{},
		},
		{
			name: "auto exclude deleted follows AND",
			env: core.Envelope{AutoExcludeDeleted: true, Filters: [core.MaxFilterSlots]core.FilterSlot{
				slot("tenant_id", "T1", "equal"),
			}},
			wantSQL:    `WHERE "tenant_id" = $1 AND "deleted_at" IS NULL`,
			wantParams: []any{"T1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := tt.env
			where, err := CompileWhere(&env)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, where.SQL)
			assert.Equal(t, tt.wantParams, where.Params)
			assert.Equal(t, len(tt.wantParams)+1, where.NextParamIndex)
		})
	}
}

// Under OR the soft-delete exclusion is just another alternative, so deleted
// rows matching an explicit predicate are still returned.
func TestAutoExcludeDeletedUnderOrDoesNotRestrict(t *testing.T) {
	env := core.Envelope{
		Combine:            core.CombineOr,
		AutoExcludeDeleted: true,
		Filters: [core.MaxFilterSlots]core.FilterSlot{
			slot("status", "open", "equal"),
			slot("status", "pending", "equal"),
		},
	}
	where, err := CompileWhere(&env)
	require.NoError(t, err)
	assert.Equal(t, `WHERE "status" = $1 OR "status" = $2 OR "deleted_at" IS NULL`, where.SQL)
}

func TestCompileWhereErrors(t *testing.T) {
	tests := []struct {
		name string
		env  core.Envelope
		want core.Kind
	}{
		{
			name: "invalid field",
			env:  core.Envelope{Filters: [core.MaxFilterSlots]core.FilterSlot{slot("id; DROP TABLE x", "1", "equal")}},
			want: core.KindInvalidIdentifier,
		},
		{
			name: "unknown operator",
			env:  core.Envelope{Filters: [core.MaxFilterSlots]core.FilterSlot{slot("id", "1", "between")}},
			want: core.KindUnknownOperator,
		},
		{
			name: "unknown operator without value",
			env:  core.Envelope{Filters: [core.MaxFilterSlots]core.FilterSlot{slot("id", nil, "is_empty")}},
			want: core.KindUnknownOperator,
		},
		{
			name: "in without values",
			env:  core.Envelope{Filters: [core.MaxFilterSlots]core.FilterSlot{slot("id", " , ,", "in")}},
			want: core.KindInvalidRequest,
		},
		{
			name: "invalid legacy field",
			env:  core.Envelope{Search: "x", SearchField: "name OR 1=1"},
			want: core.KindInvalidIdentifier,
		},
		{
			name: "invalid field without value",
			env:  core.Envelope{Filters: [core.MaxFilterSlots]core.FilterSlot{slot("x; DROP TABLE t", nil, "")}},
			want: core.KindInvalidIdentifier,
		},
		{
			name: "invalid field with empty value",
			env:  core.Envelope{Filters: [core.MaxFilterSlots]core.FilterSlot{{}, slot("a b--", "", "equal")}},
			want: core.KindInvalidIdentifier,
		},
		{
			name: "invalid legacy field without search",
			env:  core.Envelope{SearchField: "a b--"},
			want: core.KindInvalidIdentifier,
		},
		{
			name: "error in a later slot aborts everything",
			env: core.Envelope{Filters: [core.MaxFilterSlots]core.FilterSlot{
				slot("ok", "1", "equal"),
				slot("bad-name", "2", "equal"),
			}},
			want: core.KindInvalidIdentifier,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := tt.env
			where, err := CompileWhere(&env)
			assert.Nil(t, where)
			assert.Equal(t, tt.want, core.KindOf(err), "error: %v", err)
		})
	}
}
