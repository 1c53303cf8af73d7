package greet

// CreateInput is the request body for the greet operation.
type CreateInput struct {
	Body struct {
		Name string `json:"name" doc:"Name to greet; empty is allowed" example:"Ada" maxLength:"256"`
	}
}
