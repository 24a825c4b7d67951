package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asaidimu/crudsql/pkg/core"
)

func TestAggregateScenario(t *testing.T) {
	g := newTestGenerator()

	stmt, err := g.Aggregate(&core.Envelope{
		Table:      "service_orders",
		Aggregates: []core.Aggregate{{Function: "COUNT", Field: "*", Alias: "qty"}},
		GroupBy:    []string{"status"},
	})
	require.NoError(t, err)
	assert.Equal(t, `SELECT "status", COUNT(*) AS "qty" FROM "service_orders" GROUP BY "status"`, stmt.Query)
	assert.Equal(t, []any{}, stmt.Params)
}

func TestAggregateFiltersSortAndLimit(t *testing.T) {
	g := newTestGenerator()

	stmt, err := g.Aggregate(&core.Envelope{
		Table: "service_orders",
		Aggregates: []core.Aggregate{
			{Function: "sum", Field: "amount", Alias: "total"},
			{Function: "avg", Field: "amount"},
			{Function: "count", Field: "*"},
		},
		GroupBy:            []string{"customer_id", "status"},
		AutoExcludeDeleted: true,
		Filters: [core.MaxFilterSlots]core.FilterSlot{
			slot("created_at", "2026-01-01", "gte"),
		},
		SortColumn: "total DESC, customer_id",
		Limit:      5,
	})
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT "customer_id", "status", SUM("amount") AS "total", AVG("amount") AS "avg_amount", COUNT(*) AS "count_all" `+
			`FROM "service_orders" WHERE "created_at" >= $1 AND "deleted_at" IS NULL `+
			`GROUP BY "customer_id", "status" ORDER BY "total" DESC, "customer_id" ASC LIMIT 5`,
		stmt.Query)
	assert.Equal(t, []any{"2026-01-01"}, stmt.Params)
}

func TestAggregateWithoutGroupBy(t *testing.T) {
	g := newTestGenerator()

	stmt, err := g.Aggregate(&core.Envelope{
		Table:      "service_orders",
		Aggregates: []core.Aggregate{{Function: "MAX", Field: "amount", Alias: "top"}},
		Sort:       "top",
		Direction:  "DESC",
	})
	require.NoError(t, err)
	assert.Equal(t, `SELECT MAX("amount") AS "top" FROM "service_orders" ORDER BY "top" DESC`, stmt.Query)
}

func TestAggregateErrors(t *testing.T) {
	g := newTestGenerator()

	tests := []struct {
		name string
		env  core.Envelope
		want core.Kind
	}{
		{
			name: "no aggregates",
			env:  core.Envelope{Table: "t", GroupBy: []string{"status"}},
			want: core.KindInvalidRequest,
		},
		{
			name: "function outside whitelist",
			env:  core.Envelope{Table: "t", Aggregates: []core.Aggregate{{Function: "MEDIAN", Field: "a"}}},
			want: core.KindInvalidAggregateFunction,
		},
		{
			name: "function with injection",
			env:  core.Envelope{Table: "t", Aggregates: []core.Aggregate{{Function: "SUM(a)); DROP TABLE t; --", Field: "a"}}},
			want: core.KindInvalidAggregateFunction,
		},
		{
			name: "star outside count",
			env:  core.Envelope{Table: "t", Aggregates: []core.Aggregate{{Function: "SUM", Field: "*"}}},
			want: core.KindInvalidIdentifier,
		},
		{
			name: "bad field",
			env:  core.Envelope{Table: "t", Aggregates: []core.Aggregate{{Function: "SUM", Field: "a+b"}}},
			want: core.KindInvalidIdentifier,
		},
		{
			name: "bad alias",
			env:  core.Envelope{Table: "t", Aggregates: []core.Aggregate{{Function: "SUM", Field: "a", Alias: "x\" FROM secrets --"}}},
			want: core.KindInvalidIdentifier,
		},
		{
			name: "bad group by",
			env:  core.Envelope{Table: "t", GroupBy: []string{"1"}, Aggregates: []core.Aggregate{{Function: "COUNT", Field: "*"}}},
			want: core.KindInvalidIdentifier,
		},
		{
			name: "bad sort",
			env:  core.Envelope{Table: "t", SortColumn: "qty DOWN", Aggregates: []core.Aggregate{{Function: "COUNT", Field: "*", Alias: "qty"}}},
			want: core.KindInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := tt.env
			stmt, err := g.Aggregate(&env)
			assert.Nil(t, stmt)
			assert.Equal(t, tt.want, core.KindOf(err), "error: %v", err)
		})
	}
}
