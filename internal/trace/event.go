package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	// KindSpanBegin marks the start of a logical operation.
	KindSpanBegin Kind = iota + 1
	// KindSpanEnd marks the end of a logical operation.
	KindSpanEnd
	// KindPoint represents an instant event.
	KindPoint
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	default:
		return "unknown"
	}
}

// Scope indicates the granularity level of the event.
// Lower numeric values represent higher-level/coarser events.
type Scope uint8

const (
	// ScopeDriver represents top-level driver operations.
	ScopeDriver Scope = iota + 1
	// ScopePass represents pipeline passes (scan, resolve, codegen, apply).
	ScopePass
	// ScopeRef represents per-reference processing (most detailed).
	ScopeRef
)

// String returns the string representation of Scope.
func (s Scope) String() string {
	switch s {
	case ScopeDriver:
		return "driver"
	case ScopePass:
		return "pass"
	case ScopeRef:
		return "ref"
	default:
		return "unknown"
	}
}

// Event is one trace record.
type Event struct {
	Kind   Kind
	Scope  Scope
	Name   string
	Detail string
	Time   time.Time
}

// Point builds an instant event stamped with the current time.
func Point(scope Scope, name, detail string) Event {
	return Event{Kind: KindPoint, Scope: scope, Name: name, Detail: detail, Time: time.Now()}
}

// Begin builds a span-begin event stamped with the current time.
func Begin(scope Scope, name string) Event {
	return Event{Kind: KindSpanBegin, Scope: scope, Name: name, Time: time.Now()}
}

// End builds a span-end event stamped with the current time.
func End(scope Scope, name string) Event {
	return Event{Kind: KindSpanEnd, Scope: scope, Name: name, Time: time.Now()}
}
