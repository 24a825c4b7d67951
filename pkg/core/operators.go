package core

import "maps"

// OperatorName is the symbolic filter operator accepted in search_operator{i}.
type OperatorName string

const (
	OperatorEqual     OperatorName = "equal"
	OperatorNotEqual  OperatorName = "not_equal"
	OperatorLike      OperatorName = "like"
	OperatorILike     OperatorName = "ilike"
	OperatorGt        OperatorName = "gt"
	OperatorGte       OperatorName = "gte"
	OperatorLt        OperatorName = "lt"
	OperatorLte       OperatorName = "lte"
	OperatorIn        OperatorName = "in"
	OperatorIsNull    OperatorName = "is_null"
	OperatorIsNotNull OperatorName = "is_not_null"
)

// Operator is a resolved entry of the operator table.
type Operator struct {
	Name OperatorName
	sql  string
}

// SQL returns the SQL token for the operator.
func (o Operator) SQL() string { return o.sql }

// TakesValue is false for the null checks, which bind no parameter.
func (o Operator) TakesValue() bool {
	return o.Name != OperatorIsNull && o.Name != OperatorIsNotNull
}

// IsPattern is true for LIKE and ILIKE.
func (o Operator) IsPattern() bool {
	return o.Name == OperatorLike || o.Name == OperatorILike
}

// IsList is true for IN.
func (o Operator) IsList() bool { return o.Name == OperatorIn }

var operatorTable = map[OperatorName]string{
	OperatorEqual:     "=",
	OperatorNotEqual:  "!=",
	OperatorLike:      "LIKE",
	OperatorILike:     "ILIKE",
	OperatorGt:        ">",
	OperatorGte:       ">=",
	OperatorLt:        "<",
	OperatorLte:       "<=",
	OperatorIn:        "IN",
	OperatorIsNull:    "IS NULL",
	OperatorIsNotNull: "IS NOT NULL",
}

// ResolveOperator looks name up in the operator table. An empty name means
// equal.
func ResolveOperator(name string) (Operator, error) {
	if name == "" {
		name = string(OperatorEqual)
	}
	token, ok := operatorTable[OperatorName(name)]
	if !ok {
		return Operator{}, NewError(KindUnknownOperator, "unknown operator %q", name)
	}
	return Operator{Name: OperatorName(name), sql: token}, nil
}

// Operators returns a copy of the operator table.
func Operators() map[OperatorName]string {
	return maps.Clone(operatorTable)
}
