package scheduler

import (
	"errors"
	"fmt"
	"strings"
)

// UnknownNodeError reports a node id referenced during a run that is absent
// from the workflow's node map.
type UnknownNodeError struct {
	NodeID     string
	WorkflowID string
}

func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("node %q not found in workflow %q", e.NodeID, e.WorkflowID)
}

// MissingInputsError reports every required input port left unbound at
// dispatch time for one node, batched into a single error.
type MissingInputsError struct {
	NodeID   string
	NodeName string
	Ports    []string
}

func (e *MissingInputsError) Error() string {
	label := "required input"
	if len(e.Ports) > 1 {
		label = "required inputs"
	}

	return fmt.Sprintf("%s %s for node %q (%s) missing a value",
		label, strings.Join(e.Ports, ", "), e.NodeID, e.NodeName)
}

// DeadlockError reports that pending nodes remain but none is ready. This
// is how cycles are caught at runtime, since the graph is not statically
// verified acyclic.
type DeadlockError struct {
	Pending []string
}

func (e *DeadlockError) Error() string {
	return fmt.Sprintf("execution deadlock: pending nodes %s but none can execute",
		strings.Join(e.Pending, ", "))
}

// IterationLimitError reports that the run loop exhausted its iteration
// budget while pending nodes remained.
type IterationLimitError struct {
	Limit int
}

func (e *IterationLimitError) Error() string {
	return fmt.Sprintf("execution exceeded maximum iterations (%d), possible infinite loop", e.Limit)
}

// NodeExecutionError wraps a failure reported by a node capability during
// dispatch. The original error is preserved for unwrapping.
type NodeExecutionError struct {
	NodeID string
	Err    error
}

func (e *NodeExecutionError) Error() string {
	return fmt.Sprintf("node %q execution failed: %v", e.NodeID, e.Err)
}

func (e *NodeExecutionError) Unwrap() error {
	return e.Err
}

// IsDeadlock reports whether err is a DeadlockError.
func IsDeadlock(err error) bool {
	var target *DeadlockError

	return errors.As(err, &target)
}

// IsIterationLimit reports whether err is an IterationLimitError.
func IsIterationLimit(err error) bool {
	var target *IterationLimitError

	return errors.As(err, &target)
}

// IsMissingInputs reports whether err is a MissingInputsError.
func IsMissingInputs(err error) bool {
	var target *MissingInputsError

	return errors.As(err, &target)
}

// IsUnknownNode reports whether err is an UnknownNodeError.
func IsUnknownNode(err error) bool {
	var target *UnknownNodeError

	return errors.As(err, &target)
}
