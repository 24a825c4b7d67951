package core

// Action selects the statement builder for an envelope.
type Action string

const (
	ActionList        Action = "list"
	ActionCreate      Action = "create"
	ActionUpdate      Action = "update"
	ActionDelete      Action = "delete"
	ActionCount       Action = "count"
	ActionAggregate   Action = "aggregate"
	ActionBatchCreate Action = "batch_create"
)

// Actions lists every supported action in a stable order.
var Actions = []Action{
	ActionList,
	ActionCreate,
	ActionUpdate,
	ActionDelete,
	ActionCount,
	ActionAggregate,
	ActionBatchCreate,
}

// Valid reports whether a is one of the supported actions.
func (a Action) Valid() bool {
	for _, known := range Actions {
		if a == known {
			return true
		}
	}
	return false
}

// CombineType joins all active predicates of one statement.
type CombineType string

const (
	CombineAnd CombineType = "AND"
	CombineOr  CombineType = "OR"
)

// MaxFilterSlots is the number of numbered search_field/search_value/search_operator slots.
const MaxFilterSlots = 8

// SoftDeleteColumn is the deletion timestamp column used by the delete action
// and by auto_exclude_deleted.
const SoftDeleteColumn = "deleted_at"

// Record is one row of payload data keyed by column name.
type Record map[string]any

// FilterSlot is one numbered predicate slot of the envelope.
type FilterSlot struct {
	Field    string // search_field{i}
	Value    any    // search_value{i}; nil when absent
	HasValue bool   // search_value{i} was present in the request
	Operator string // search_operator{i}; empty means equal
}

// Aggregate is one aggregate expression of the aggregate action.
type Aggregate struct {
	Function string `json:"function"` // SUM, COUNT, AVG, MIN or MAX
	Field    string `json:"field"`    // column name, or "*" for COUNT
	Alias    string `json:"alias"`
}

// Envelope is a decoded request. It is built once per request and never
// mutated by the generator.
type Envelope struct {
	Table  string
	Action Action

	// Payload is set for create, update and delete; Rows for batch_create.
	Payload Record
	Rows    []Record

	Filters            [MaxFilterSlots]FilterSlot
	Combine            CombineType
	Search             string // legacy single ILIKE value
	SearchField        string // legacy single ILIKE column
	AutoExcludeDeleted bool

	Fields     []string
	SortColumn string // "status ASC, created_at DESC"
	Sort       string // legacy single sort column
	Direction  string // legacy sort direction
	Limit      int    // 0 means no LIMIT
	Offset     int    // 0 means no OFFSET

	Aggregates []Aggregate
	GroupBy    []string
}

// Statement is the compiled output: one SQL statement with positional
// placeholders and the matching argument list.
type Statement struct {
	Query  string `json:"query"`
	Params []any  `json:"params"`
}
