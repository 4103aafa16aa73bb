package types

import "fmt"

type OverflowOperation string

const (
	OverflowAdd OverflowOperation = "Add"
	OverflowSub OverflowOperation = "Sub"
)

// OverflowError is returned by checked arithmetic, operands are kept so that
// the caller sees exactly which values didn't fit.
type OverflowError struct {
	Operation OverflowOperation
	Operand1  Amount
	Operand2  Amount
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("Overflow: Cannot %s with %s and %s", e.Operation, e.Operand1, e.Operand2)
}
