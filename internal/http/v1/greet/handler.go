package greet

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	applog "github.com/janisto/greet-playground/internal/platform/logging"
	"github.com/janisto/greet-playground/internal/platform/timeutil"
	"github.com/janisto/greet-playground/internal/service/greeter"
)

// Register wires the greet operation into the provided API router.
func Register(api huma.API, svc greeter.Service) {
	huma.Register(api, huma.Operation{
		OperationID: "greet",
		Method:      http.MethodPost,
		Path:        "/greet",
		Summary:     "Greet a name",
		Description: "Returns a greeting for the given name. The name is used as-is; an empty name is greeted too.",
		Tags:        []string{"Greet"},
	}, func(ctx context.Context, input *CreateInput) (*CreateOutput, error) {
		name := input.Body.Name
		greeting, err := svc.Greet(ctx, name)
		audit := applog.SubmissionAudit{Front: "api", NameSize: len(name), Result: applog.AuditSuccess}
		if err != nil {
			audit.Result = applog.AuditFailure
			audit.Err = err
			applog.LogSubmission(ctx, audit)
			return nil, mapServiceError(err)
		}
		applog.LogSubmission(ctx, audit)
		applog.LogInfo(ctx, "greet", zap.String("path", "/greet"), zap.Int("greeting_bytes", len(greeting)))
		return &CreateOutput{Body: Data{
			Greeting:  greeting,
			Timestamp: timeutil.FormatMillis(time.Now()),
		}}, nil
	})
}

func mapServiceError(err error) error {
	var callErr *greeter.CallError
	if errors.As(err, &callErr) {
		switch callErr.Kind {
		case greeter.CallErrorKindTimeout:
			return huma.Error504GatewayTimeout("greeting service timed out")
		case greeter.CallErrorKindRateLimited:
			rateLimitErr := huma.Error429TooManyRequests("rate limit exceeded")
			if callErr.RetryAfter != "" {
				headers := make(http.Header)
				headers.Set("Retry-After", callErr.RetryAfter)
				return huma.ErrorWithHeaders(rateLimitErr, headers)
			}
			return rateLimitErr
		default:
			return huma.Error502BadGateway("greeting service unavailable")
		}
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, greeter.ErrTimeout):
		return huma.Error504GatewayTimeout("greeting service timed out")
	case errors.Is(err, greeter.ErrRateLimited):
		return huma.Error429TooManyRequests("rate limit exceeded")
	default:
		return huma.Error502BadGateway("greeting service unavailable")
	}
}
