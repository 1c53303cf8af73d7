//go:build js && wasm

package main

import (
	"context"
	"net/http"
	"time"

	"github.com/janisto/greet-playground/internal/form"
	"github.com/janisto/greet-playground/internal/form/dom"
	applog "github.com/janisto/greet-playground/internal/platform/logging"
	"github.com/janisto/greet-playground/internal/service/greeter"
)

// formKey identifies the page's single form in the guard.
const formKey = "greet-form"

func main() {
	ctx := context.Background()

	svc := greeter.NewClient(
		&http.Client{Timeout: 10 * time.Second},
		greeter.WithBaseURL(dom.Origin()),
	)
	release, err := dom.Bind(ctx, dom.Document(), svc,
		form.WithGuard(form.NewGuard(), formKey),
		form.WithTimeout(5*time.Second),
	)
	if err != nil {
		applog.LogError(ctx, "bind form failed", err)
		return
	}
	defer release()
	applog.LogInfo(ctx, "greet form bound")

	// Keep the Go runtime alive so the listener can fire.
	select {}
}
