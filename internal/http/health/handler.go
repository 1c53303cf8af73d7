package health

import (
	"encoding/json"
	"net/http"
)

// StatusHealthy is reported while the process is able to serve submissions.
const StatusHealthy = "healthy"

// Response is the payload for the health endpoint.
type Response struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Greeter string `json:"greeter,omitempty"`
}

// Handler returns a plain HTTP handler for the health check endpoint. The
// greeter mode ("local" or "remote") is echoed so deployments can tell which
// collaborator the server forwards to.
func Handler(version, greeterMode string) http.HandlerFunc {
	body := Response{Status: StatusHealthy, Version: version, Greeter: greeterMode}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusOK)
			return
		}
		_ = json.NewEncoder(w).Encode(body)
	}
}
