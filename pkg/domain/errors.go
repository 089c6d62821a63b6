package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ReasonStepBound is the ExecutionError reason reported when a run visits more
// nodes than the graph can account for.
const ReasonStepBound = "step bound exceeded"

// ReasonCanceled is the ExecutionError reason reported when the run context ends
// between two steps.
const ReasonCanceled = "run canceled"

// ConfigurationError aggregates every violation found while building a graph.
// It is only ever returned before a run starts.
type ConfigurationError struct {
	Errors []error
}

func (e *ConfigurationError) Error() string {
	if len(e.Errors) == 1 {
		return "invalid graph: " + e.Errors[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "invalid graph: %d errors:", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&b, "\n  %d. %s", i+1, err.Error())
	}
	return b.String()
}

// Unwrap exposes the individual violations to errors.Is and errors.As.
func (e *ConfigurationError) Unwrap() []error {
	return e.Errors
}

// ConfigurationErrors returns the violations carried by err, or nil if err is
// not a ConfigurationError.
func ConfigurationErrors(err error) []error {
	var cfgErr *ConfigurationError
	if errors.As(err, &cfgErr) {
		return cfgErr.Errors
	}
	return nil
}

// DuplicateNodeError is recorded when a node id is registered twice.
type DuplicateNodeError struct {
	NodeID string
}

func (e *DuplicateNodeError) Error() string {
	return fmt.Sprintf("duplicate node %q", e.NodeID)
}

// UnknownNodeError is recorded when an edge or the entry point names an
// unregistered node.
type UnknownNodeError struct {
	NodeID string
	// Ref describes where the id was referenced, e.g. "edge from categorize".
	Ref string
}

func (e *UnknownNodeError) Error() string {
	if e.Ref == "" {
		return fmt.Sprintf("unknown node %q", e.NodeID)
	}
	return fmt.Sprintf("unknown node %q (%s)", e.NodeID, e.Ref)
}

// EmptyMappingError is recorded when a conditional edge has no label mapping.
type EmptyMappingError struct {
	NodeID string
}

func (e *EmptyMappingError) Error() string {
	return fmt.Sprintf("conditional edge from %q has an empty label mapping", e.NodeID)
}

// InvalidNodeError is recorded when a node cannot be registered at all.
type InvalidNodeError struct {
	NodeID string
	Reason string
}

func (e *InvalidNodeError) Error() string {
	return fmt.Sprintf("invalid node %q: %s", e.NodeID, e.Reason)
}

// MissingEntryError is recorded when Compile runs without an entry point.
type MissingEntryError struct{}

func (e *MissingEntryError) Error() string {
	return "entry point not set"
}

// MissingEdgeError is recorded when a node has no outgoing edge.
type MissingEdgeError struct {
	NodeID string
}

func (e *MissingEdgeError) Error() string {
	return fmt.Sprintf("node %q has no outgoing edge", e.NodeID)
}

// ConflictingEdgeError is recorded when a node has more than one outgoing edge form.
type ConflictingEdgeError struct {
	NodeID string
}

func (e *ConflictingEdgeError) Error() string {
	return fmt.Sprintf("node %q has more than one outgoing edge", e.NodeID)
}

// NoPathToEndError is recorded when a reachable node can never reach End.
type NoPathToEndError struct {
	NodeID string
}

func (e *NoPathToEndError) Error() string {
	return fmt.Sprintf("node %q has no path to %s", e.NodeID, End)
}

// UnreachableNodeWarning flags a node that no path from the entry visits.
// It is not fatal.
type UnreachableNodeWarning struct {
	NodeID string
}

func (e *UnreachableNodeWarning) Error() string {
	return fmt.Sprintf("node %q is unreachable from the entry point", e.NodeID)
}

// NoDefaultRouteWarning flags a conditional edge without a catch-all route.
// A label outside its mapping fails the run with RoutingError.
type NoDefaultRouteWarning struct {
	NodeID string
}

func (e *NoDefaultRouteWarning) Error() string {
	return fmt.Sprintf("conditional edge from %q has no default route", e.NodeID)
}

// RoutingError aborts a run whose router produced an unmapped label.
type RoutingError struct {
	NodeID string
	Label  string
}

func (e *RoutingError) Error() string {
	return fmt.Sprintf("router of node %q returned unmapped label %q", e.NodeID, e.Label)
}

// NodeExecutionError aborts a run whose node transform failed.
type NodeExecutionError struct {
	NodeID string
	Cause  error
}

func (e *NodeExecutionError) Error() string {
	return fmt.Sprintf("node %q failed: %v", e.NodeID, e.Cause)
}

func (e *NodeExecutionError) Unwrap() error {
	return e.Cause
}

// ExecutionError aborts a run for reasons that belong to no single node.
type ExecutionError struct {
	Reason string
	Steps  int
	Err    error
}

func (e *ExecutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("execution aborted after %d steps: %s: %v", e.Steps, e.Reason, e.Err)
	}
	return fmt.Sprintf("execution aborted after %d steps: %s", e.Steps, e.Reason)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// UnknownFieldError is returned by State.Merge for fields outside the record.
type UnknownFieldError struct {
	Field Field
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown state field %q", e.Field)
}

// ReadOnlyFieldError is returned by State.Merge for writes to the input field.
type ReadOnlyFieldError struct {
	Field Field
}

func (e *ReadOnlyFieldError) Error() string {
	return fmt.Sprintf("state field %q is read-only", e.Field)
}

// UndeclaredFieldError is returned when a node writes a field it did not declare.
type UndeclaredFieldError struct {
	NodeID string
	Field  Field
}

func (e *UndeclaredFieldError) Error() string {
	return fmt.Sprintf("node %q wrote undeclared field %q", e.NodeID, e.Field)
}
