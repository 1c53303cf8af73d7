package routes

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	"github.com/janisto/greet-playground/internal/http/health"
	"github.com/janisto/greet-playground/internal/http/page"
	"github.com/janisto/greet-playground/internal/http/v1/greet"
	"github.com/janisto/greet-playground/internal/service/greeter"
)

// Deps are the collaborators shared by the HTTP surfaces.
type Deps struct {
	Greeter     greeter.Service
	Page        *page.Handler
	Version     string
	GreeterMode string
}

// Register wires all HTTP routes into the router and its API. The page is
// optional; without it only the API and health check are served.
func Register(router chi.Router, api huma.API, deps Deps) {
	router.Get("/health", health.Handler(deps.Version, deps.GreeterMode))
	router.Head("/health", health.Handler(deps.Version, deps.GreeterMode))

	greet.Register(api, deps.Greeter)

	if deps.Page != nil {
		deps.Page.Register(router)
	}
}
