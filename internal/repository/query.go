package repository

import "fmt"

// ConstraintKind identifies how a Constraint narrows a collection read.
type ConstraintKind int

const (
	ConstraintWhere ConstraintKind = iota
	ConstraintOrderBy
	ConstraintLimit
)

// Direction is the sort direction of an OrderBy constraint.
type Direction int

const (
	Asc Direction = iota
	Desc
)

// Constraint is one filter, sort or cap applied to a collection query.
type Constraint struct {
	Kind      ConstraintKind
	Field     string
	Op        string
	Value     any
	Direction Direction
	Limit     int
}

// Where builds an equality-style filter constraint.
func Where(field, op string, value any) Constraint {
	return Constraint{Kind: ConstraintWhere, Field: field, Op: op, Value: value}
}

// OrderBy builds a sort constraint.
func OrderBy(field string, dir Direction) Constraint {
	return Constraint{Kind: ConstraintOrderBy, Field: field, Direction: dir}
}

// Limit builds a result-count cap.
func Limit(n int) Constraint {
	return Constraint{Kind: ConstraintLimit, Limit: n}
}

func (c Constraint) String() string {
	switch c.Kind {
	case ConstraintWhere:
		return fmt.Sprintf("where(%s %s %v)", c.Field, c.Op, c.Value)
	case ConstraintOrderBy:
		dir := "asc"
		if c.Direction == Desc {
			dir = "desc"
		}
		return fmt.Sprintf("orderBy(%s %s)", c.Field, dir)
	case ConstraintLimit:
		return fmt.Sprintf("limit(%d)", c.Limit)
	}
	return "unknown"
}

// QuerySpec is an ordered constraint set against one collection.
type QuerySpec struct {
	Collection  string
	Constraints []Constraint
}
