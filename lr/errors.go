package lr

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// InternalError signals a violated contract between analysis and rewriting.
// It always indicates a defect, never a property of the input grammar.
type InternalError struct {
	Op  string
	Msg string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error in %s: %s", e.Op, e.Msg)
}

// ConflictKind discerns table collisions.
type ConflictKind int

// Kinds of conflicts.
const (
	ShiftReduce ConflictKind = iota
	ReduceReduce
	OtherConflict // e.g., accept/reduce
)

func (k ConflictKind) String() string {
	switch k {
	case ShiftReduce:
		return "shift/reduce"
	case ReduceReduce:
		return "reduce/reduce"
	}
	return "action"
}

// ConflictError reports two competing actions for a table cell.
type ConflictError struct {
	Kind   ConflictKind
	State  int
	Symbol string
	First  Entry // action present in the table
	Second Entry // action which could not be written
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict in state %d on %q: %s vs %s",
		e.Kind, e.State, e.Symbol, e.First, e.Second)
}

func newConflict(state int, sym string, first, second Entry) *ConflictError {
	kind := OtherConflict
	if first.Kind == ReduceAction && second.Kind == ReduceAction {
		kind = ReduceReduce
	} else if first.Kind == ShiftAction && second.Kind == ReduceAction ||
		first.Kind == ReduceAction && second.Kind == ShiftAction {
		kind = ShiftReduce
	}
	return &ConflictError{Kind: kind, State: state, Symbol: sym, First: first, Second: second}
}

// Conflicts extracts all table conflicts from an error returned by table
// construction.
func Conflicts(err error) []*ConflictError {
	var conflicts []*ConflictError
	for _, e := range multierr.Errors(err) {
		var c *ConflictError
		if errors.As(e, &c) {
			conflicts = append(conflicts, c)
		}
	}
	return conflicts
}
