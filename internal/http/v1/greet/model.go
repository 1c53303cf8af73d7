package greet

// Data models the response payload of the greet operation.
type Data struct {
	Greeting  string `json:"greeting"  doc:"Greeting text, to be displayed verbatim" example:"Hello, Ada!"`
	Timestamp string `json:"timestamp" doc:"Time the greeting was produced (RFC 3339, UTC, milliseconds)" example:"2024-01-15T10:30:00.000Z"`
}

// CreateOutput is the response wrapper for the greet operation.
type CreateOutput struct {
	Body Data
}
