package greeter

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// DefaultFormat is the greeting template used when none is configured.
const DefaultFormat = "Hello, %s!"

// Local greets in-process. It backs the server's greet operation when no
// upstream is configured.
type Local struct {
	format string
}

// NewLocal returns a Local greeter. format must contain exactly one %s verb.
func NewLocal(format string) (*Local, error) {
	if format == "" {
		format = DefaultFormat
	}
	if strings.Count(format, "%s") != 1 || strings.Count(format, "%") != 1 {
		return nil, fmt.Errorf("greeting format %q must contain exactly one %%s verb", format)
	}
	return &Local{format: format}, nil
}

func (l *Local) Greet(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		kind := CallErrorKindTransport
		if errors.Is(err, context.DeadlineExceeded) {
			kind = CallErrorKindTimeout
		}
		return "", NewCallError(kind, 0, err)
	}
	return fmt.Sprintf(l.format, name), nil
}

// Compile-time interface check
var _ Service = (*Local)(nil)
