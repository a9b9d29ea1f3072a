package loop

import "errors"

var (
	// ErrAlreadyInLoop is returned by StartLoop when the execution already
	// has an active loop. Nested loops are explicitly disallowed.
	ErrAlreadyInLoop = errors.New("loop: execution already has an active loop")

	// ErrEmptySequence is returned by StartLoop when the candidate loop
	// body has no elements.
	ErrEmptySequence = errors.New("loop: loop body must not be empty")
)
