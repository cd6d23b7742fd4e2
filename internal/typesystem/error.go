package typesystem

import "fmt"

// UsageError indicates malformed declarative input or a misuse of the engine:
// a missing required argument, an illegal modifier combination, a parameter
// list that does not match its argument builders, a query outside an active
// build.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return "usage error: " + e.Message
}

func NewUsageError(msg string) *UsageError {
	return &UsageError{Message: msg}
}

// ResolutionError indicates that no accessible member matches a symbolic reference.
type ResolutionError struct {
	Owner  string
	Kind   string // "method", "constructor" or "field"
	Name   string
	Params []Type
}

func (e *ResolutionError) Error() string {
	switch e.Kind {
	case "constructor":
		return fmt.Sprintf("no accessible constructor %s%s", e.Owner, TypeList(e.Params))
	case "field":
		return fmt.Sprintf("no accessible field %s.%s", e.Owner, e.Name)
	default:
		return fmt.Sprintf("no accessible method %s.%s%s", e.Owner, e.Name, TypeList(e.Params))
	}
}

func NewResolutionError(owner, kind, name string, params []Type) *ResolutionError {
	return &ResolutionError{Owner: owner, Kind: kind, Name: name, Params: append([]Type(nil), params...)}
}

// StackContractViolation indicates that a builder added a different number of
// operand stack entries than it promised.
type StackContractViolation struct {
	Builder  string
	Expected int
	Actual   int
}

func (e *StackContractViolation) Error() string {
	return fmt.Sprintf("stack contract violated by %s: expected %d new stack entries, got %d", e.Builder, e.Expected, e.Actual)
}

func NewStackContractViolation(builder string, expected, actual int) *StackContractViolation {
	return &StackContractViolation{Builder: builder, Expected: expected, Actual: actual}
}

// ConversionError indicates that no legal coercion exists between two types.
type ConversionError struct {
	From     Type
	To       Type
	Explicit bool
	Reason   string
}

func (e *ConversionError) Error() string {
	kind := "implicitly"
	if e.Explicit {
		kind = "explicitly"
	}
	msg := fmt.Sprintf("cannot %s convert %s to %s", kind, e.From, e.To)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func NewConversionError(from, to Type, explicit bool, reason string) *ConversionError {
	return &ConversionError{From: from, To: to, Explicit: explicit, Reason: reason}
}
