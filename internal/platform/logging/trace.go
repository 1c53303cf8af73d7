package logging

import (
	"fmt"
	"net/http"
	"os"
	"regexp"
	"sync"

	"go.uber.org/zap"
)

const (
	traceparentHeader = "traceparent"
	cloudTraceHeader  = "X-Cloud-Trace-Context"
)

// W3C: {version}-{trace-id}-{parent-id}-{trace-flags}
var traceparentRe = regexp.MustCompile(`^[0-9a-fA-F]{2}-([0-9a-fA-F]{32})-([0-9a-fA-F]{16})-([0-9a-fA-F]{2})$`)

// Legacy Google header: TRACE_ID/SPAN_ID;o=OPTIONS
var cloudTraceRe = regexp.MustCompile(`^([0-9a-fA-F]+)/([0-9a-zA-Z]+)(?:;o=(\d))?$`)

var (
	projectIDOnce   sync.Once
	cachedProjectID string
)

type traceContext struct {
	traceID string
	spanID  string
	sampled bool
}

// parseTrace prefers traceparent and falls back to X-Cloud-Trace-Context.
func parseTrace(h http.Header) (traceContext, bool) {
	if m := traceparentRe.FindStringSubmatch(h.Get(traceparentHeader)); m != nil {
		return traceContext{traceID: m[1], spanID: m[2], sampled: m[3] == "01"}, true
	}
	if m := cloudTraceRe.FindStringSubmatch(h.Get(cloudTraceHeader)); m != nil {
		return traceContext{traceID: m[1], spanID: m[2], sampled: m[3] == "1"}, true
	}
	return traceContext{}, false
}

func traceResource(tc traceContext, projectID string) string {
	if projectID == "" || tc.traceID == "" {
		return ""
	}
	return fmt.Sprintf("projects/%s/traces/%s", projectID, tc.traceID)
}

func loggerWithTrace(base *zap.Logger, tc traceContext, projectID, requestID string) *zap.Logger {
	if base == nil {
		base = zap.NewNop()
	}
	var fields []zap.Field
	if resource := traceResource(tc, projectID); resource != "" {
		fields = append(fields,
			zap.String("logging.googleapis.com/trace", resource),
			zap.String("logging.googleapis.com/spanId", tc.spanID),
			zap.Bool("logging.googleapis.com/trace_sampled", tc.sampled),
		)
	}
	if requestID != "" {
		fields = append(fields, zap.String("requestId", requestID))
	}
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func resolveProjectID() string {
	projectIDOnce.Do(func() {
		cachedProjectID = firstNonEmpty(
			os.Getenv("GOOGLE_CLOUD_PROJECT"),
			os.Getenv("GCP_PROJECT"),
			os.Getenv("GCLOUD_PROJECT"),
			os.Getenv("PROJECT_ID"),
		)
	})
	return cachedProjectID
}
