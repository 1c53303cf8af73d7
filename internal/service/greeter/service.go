package greeter

import (
	"context"
	"errors"
	"fmt"
)

// Service errors
var (
	ErrCall        = errors.New("greet call failed")
	ErrTimeout     = errors.New("greet call timed out")
	ErrRejected    = errors.New("greet request rejected")
	ErrRateLimited = errors.New("greet rate limit exceeded")
	ErrUpstream    = errors.New("greet upstream error")
)

// CallErrorKind classifies collaborator failures.
type CallErrorKind string

const (
	CallErrorKindTransport   CallErrorKind = "transport"
	CallErrorKindTimeout     CallErrorKind = "timeout"
	CallErrorKindRejected    CallErrorKind = "rejected"
	CallErrorKindRateLimited CallErrorKind = "rate_limited"
	CallErrorKindUpstream    CallErrorKind = "upstream"
	CallErrorKindDecode      CallErrorKind = "decode"
)

// CallError reports a failed greet call, on transport or service side.
type CallError struct {
	Kind       CallErrorKind
	Status     int
	RetryAfter string
	cause      error
}

// NewCallError wraps cause with kind. Status is zero for transport failures.
func NewCallError(kind CallErrorKind, status int, cause error) *CallError {
	return &CallError{Kind: kind, Status: status, cause: cause}
}

func (e *CallError) Error() string {
	if e == nil {
		return ErrCall.Error()
	}
	if e.cause == nil {
		return fmt.Sprintf("greet call failed (kind=%s status=%d)", e.Kind, e.Status)
	}
	return fmt.Sprintf("greet call failed (kind=%s status=%d): %v", e.Kind, e.Status, e.cause)
}

// Unwrap exposes the cause and the sentinel matching Kind, so both
// errors.Is(err, ErrUpstream) and errors.Is(err, ErrCall) hold.
func (e *CallError) Unwrap() []error {
	if e == nil {
		return nil
	}
	errs := []error{ErrCall}
	if s := e.Kind.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.cause != nil {
		errs = append(errs, e.cause)
	}
	return errs
}

func (k CallErrorKind) sentinel() error {
	switch k {
	case CallErrorKindTimeout:
		return ErrTimeout
	case CallErrorKindRejected:
		return ErrRejected
	case CallErrorKindRateLimited:
		return ErrRateLimited
	case CallErrorKindUpstream:
		return ErrUpstream
	default:
		return nil
	}
}

// Service is the remote greeting collaborator: one operation, name in,
// greeting out. Implementations return *CallError on failure.
type Service interface {
	Greet(ctx context.Context, name string) (string, error)
}

// Func adapts a plain function to Service.
type Func func(ctx context.Context, name string) (string, error)

func (f Func) Greet(ctx context.Context, name string) (string, error) {
	return f(ctx, name)
}
