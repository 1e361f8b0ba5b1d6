package collect

import (
	"errors"
	"fmt"
)

var (
	ErrTrialsOutOfRange = errors.New("trial count out of range")
	ErrNoWorkers        = errors.New("worker count must be >= 1")

	ErrWeightSumOverflow = errors.New("total weight overflows int")
)

// ParseError reports a weight or index token that is not a valid
// non-negative integer.
type ParseError struct {
	Field string // "weights" or "targets"
	Pos   int    // 1-based token position; 0 when the whole field is bad
	Token string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Pos == 0 {
		return fmt.Sprintf("parse %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("parse %s: token %d %q: %v", e.Field, e.Pos, e.Token, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// InvalidSelectionError reports a target index that names no item.
type InvalidSelectionError struct {
	Index int
	Items int
}

func (e *InvalidSelectionError) Error() string {
	return fmt.Sprintf("target index %d out of range 1..%d", e.Index, e.Items)
}

// UnreachableTargetError reports a target item with zero weight. Such an
// item can never be drawn, so a trial would never finish.
type UnreachableTargetError struct {
	ID int
}

func (e *UnreachableTargetError) Error() string {
	return fmt.Sprintf("target item %d has weight 0 and can never be drawn", e.ID)
}
