package postgres

// DefaultMatchColumn identifies the row to update or soft-delete for any
// table without an entry in the match column map.
const DefaultMatchColumn = "id"

// DefaultMatchColumns holds the tables keyed by something other than id.
// Adding an override is a data change here or in configuration.
var DefaultMatchColumns = map[string]string{
	"profiles": "user_id",
}

// MatchColumn returns the column update and delete use to select their row
// in table. It never comes from the request.
func (g *Generator) MatchColumn(table string) string {
	if col, ok := g.matchColumns[table]; ok && col != "" {
		return col
	}
	return DefaultMatchColumn
}
